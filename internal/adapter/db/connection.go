package db

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"taskflow/internal/config"
)

// requiredParams are appended to the configured DSN parameters. Found rows
// are reported by UPDATE so an unchanged row is not mistaken for a missing one.
var requiredParams = []string{"parseTime=true", "clientFoundRows=true"}

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", DSN(conf))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	return db, nil
}

func DSN(conf *config.Config) string {
	params := conf.DbParams
	if params == "" {
		params = "parseTime=true&multiStatements=true"
	}
	for _, required := range requiredParams {
		key := strings.SplitN(required, "=", 2)[0] + "="
		if !strings.Contains(params, key) {
			params += "&" + required
		}
	}

	return fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)
}
