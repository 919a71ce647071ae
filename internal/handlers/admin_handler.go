package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

const topLimit = 5

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *AdminHandler {
	return &AdminHandler{db: db, audit: dispatcher}
}

type UpdateServiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// STATS
// ======================================================

func (h *AdminHandler) Stats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	completed := string(domain.StatusCompleted)

	var stats dto.AdminStatsDTO
	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{db.Model(&models.User{}), &stats.TotalUsers},
		{db.Model(&models.User{}).Where("role = ?", models.RoleProvider), &stats.TotalProviders},
		{db.Model(&models.Service{}), &stats.TotalServices},
		{db.Model(&models.Booking{}).Where("status = ?", completed), &stats.CompletedBookings},
	}
	for _, cnt := range counts {
		if err := cnt.q.Count(cnt.dst).Error; err != nil {
			httperr.Internal(c, "stats_failed", "Erro ao calcular estatísticas.")
			return
		}
	}

	topCategories := []dto.CategoryCountDTO{}
	if err := db.Table("bookings AS b").
		Select("s.category AS category, COUNT(b.id) AS booking_count").
		Joins("JOIN services s ON s.id = b.service_id").
		Where("b.status = ?", completed).
		Group("s.category").
		Order("booking_count DESC").
		Limit(topLimit).
		Scan(&topCategories).Error; err != nil {
		httperr.Internal(c, "stats_failed", "Erro ao calcular estatísticas.")
		return
	}

	topServices := []dto.ServiceCountDTO{}
	if err := db.Table("bookings AS b").
		Select("s.name AS service_name, COUNT(b.id) AS booking_count").
		Joins("JOIN services s ON s.id = b.service_id").
		Where("b.status = ?", completed).
		Group("s.id, s.name").
		Order("booking_count DESC").
		Limit(topLimit).
		Scan(&topServices).Error; err != nil {
		httperr.Internal(c, "stats_failed", "Erro ao calcular estatísticas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":         stats,
		"topCategories": topCategories,
		"topServices":   topServices,
	})
}

// ======================================================
// SERVICES (moderação)
// ======================================================

func (h *AdminHandler) ListServices(c *gin.Context) {
	rows := []dto.ServiceListingDTO{}
	if err := h.db.WithContext(c.Request.Context()).
		Table("services AS s").
		Select("s.id, s.provider_id, s.name, s.description, s.category, s.price, s.location, s.image_url, s.status, s.created_at, u.name AS provider_name").
		Joins("JOIN users u ON u.id = s.provider_id").
		Order("s.created_at DESC").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) UpdateServiceStatus(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	var req UpdateServiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != models.ServiceApproved && status != models.ServiceRejected {
		httperr.BadRequest(c, "invalid_status", "Status inválido.")
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	adminID := middleware.UserID(c)
	h.audit.Dispatch(audit.Event{
		ActorID:  &adminID,
		Action:   "service_" + status,
		Entity:   "service",
		EntityID: &id,
	})

	c.JSON(http.StatusOK, gin.H{
		"id":     id,
		"status": status,
	})
}
