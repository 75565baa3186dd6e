package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"taskflow/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

const userColumns = `id, email, display_name, role, password_hash, created_at`

const listUsersQuery = `SELECT ` + userColumns + ` FROM users ORDER BY display_name, id;`

const getUserQuery = `SELECT ` + userColumns + ` FROM users WHERE id = ?;`

const getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = ?;`

const insertUserQuery = `
INSERT INTO users (` + userColumns + `)
VALUES (:id, :email, :display_name, :role, :password_hash, :created_at);
`

const updateUserRoleQuery = `UPDATE users SET role = ? WHERE id = ?;`

type UserRepository struct {
	db *sqlx.DB
}

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	Role         string    `db:"role"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, listUsersQuery); err != nil {
		return nil, domain.Unavailable("list users", err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUserRowToDomainUser(row))
	}
	return users, nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {
	row, err := r.get(ctx, getUserQuery, id)
	if err != nil {
		return domain.User{}, err
	}
	return mapUserRowToDomainUser(row), nil
}

// GetByEmail returns the user and its password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, string, error) {
	row, err := r.get(ctx, getUserByEmailQuery, email)
	if err != nil {
		return domain.User{}, "", err
	}
	return mapUserRowToDomainUser(row), row.PasswordHash, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User, passwordHash string) error {
	row := userRow{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         string(user.Role),
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt.UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, insertUserQuery, row); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return domain.ErrEmailTaken
		}
		return domain.Unavailable("insert user", err)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	result, err := r.db.ExecContext(ctx, updateUserRoleQuery, string(role), id)
	if err != nil {
		return domain.Unavailable("update user role", err)
	}
	return requireAffected(result, domain.ErrUserNotFound)
}

func (r *UserRepository) get(ctx context.Context, query string, arg string) (userRow, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userRow{}, domain.ErrUserNotFound
		}
		return userRow{}, domain.Unavailable("get user", err)
	}
	return row, nil
}

func mapUserRowToDomainUser(row userRow) domain.User {
	role, err := domain.ParseRole(row.Role)
	if err != nil {
		role = domain.RoleUser
	}
	return domain.User{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		Role:        role,
		CreatedAt:   row.CreatedAt,
	}
}
