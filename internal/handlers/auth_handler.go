package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	"github.com/BruksfildServices01/service-marketplace/internal/config"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
	log    *zap.Logger
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, dispatcher *audit.Dispatcher, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: dispatcher, log: log}
}

// --------- Requests ---------

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "invalid_request",
			"message":    "Dados inválidos.",
			"details":    err.Error(),
		})
		return
	}

	role := models.RoleCustomer
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		// admin só é criado pela CLI
		if !ok || parsed == models.RoleAdmin {
			httperr.BadRequest(c, "invalid_role", "Perfil inválido.")
			return
		}
		role = parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_registered", "E-mail já cadastrado.")
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	token, err := middleware.IssueToken(h.config, user.ID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &user.ID,
		Action:   "user_signup",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]string{"role": user.Role},
	})

	c.JSON(http.StatusCreated, gin.H{
		"user":  userResponse(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.IssueToken(h.config, user.ID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro interno.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userResponse(&user),
		"token": token,
	})
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}
