// Package http 身份上下文 HTTP 处理器
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/palmbay/storefront/internal/identity/application"
	"github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/response"
)

// AuthHandler 认证 HTTP 处理器
type AuthHandler struct {
	auth *application.AuthService
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(auth *application.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes 注册路由
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/me", RequireUser(), h.Me)
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to register user", "error", err)
		response.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	response.SuccessWithMessage(c, gin.H{"user": user}, "Account created")
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录并签发访问令牌
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	token, expiresAt, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to login", "error", err)
		response.Error(c, http.StatusInternalServerError, "login failed")
		return
	}

	response.Success(c, gin.H{"token": token, "expires_at": expiresAt})
}

// Me 返回当前用户
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := UserIDFrom(c)

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to load user", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "failed to load user")
		return
	}

	response.Success(c, gin.H{"user": user})
}
