package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,max=255"`
	Password    string `json:"password" binding:"required,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=255"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UserItem struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type TokenResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}
