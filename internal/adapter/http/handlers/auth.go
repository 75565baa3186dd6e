package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	principal, token, err := h.auth.Authenticate(c.Request.Context(), domain.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, err, "failed to authenticate", nil)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token, User: mapper.ToPrincipal(principal)})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), domain.RegisterUserInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondError(c, err, "failed to register user", nil)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToUserItem(user))
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, mapper.ToPrincipal(middleware.MustPrincipal(c)))
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.auth.ListAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list users", nil)
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserItems(users))
}

func (h *AuthHandler) UpdateUserRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	userID := c.Param("id")
	if err := h.auth.UpdateUserRole(c.Request.Context(), middleware.MustPrincipal(c), userID, domain.Role(req.Role)); err != nil {
		respondError(c, err, "failed to update user role", nil)
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to reload user", nil)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserItem(user))
}
