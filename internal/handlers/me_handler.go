package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, ok := h.load(c)
	if !ok {
		return
	}

	httpresp.OK(c, gin.H{"user": userResponse(user)})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
		return
	}

	user, ok := h.load(c)
	if !ok {
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar perfil.")
		return
	}

	httpresp.OK(c, gin.H{"user": userResponse(user)})
}

func (h *MeHandler) load(c *gin.Context) (*models.User, bool) {
	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, middleware.UserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return nil, false
	}
	return &user, true
}
