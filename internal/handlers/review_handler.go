package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, audit: dispatcher}
}

type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// Create aceita avaliação apenas de reserva concluída do próprio cliente.
// Serviço e prestador vêm da reserva, nunca do corpo.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "Campos obrigatórios ausentes.")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		httperr.BadRequest(c, "invalid_rating", "Nota deve ser entre 1 e 5.")
		return
	}

	customerID := middleware.UserID(c)
	ctx := c.Request.Context()

	var b models.Booking
	err := h.db.WithContext(ctx).
		Where("id = ? AND customer_id = ? AND status = ?", req.BookingID, customerID, domain.StatusCompleted).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Forbidden(c, "review_not_allowed", "Só é possível avaliar seus serviços concluídos.")
		return
	}
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	review := models.Review{
		BookingID:  b.ID,
		ServiceID:  b.ServiceID,
		CustomerID: customerID,
		ProviderID: b.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := h.db.WithContext(ctx).Create(&review).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "already_reviewed", "Esta reserva já foi avaliada.")
			return
		}
		httperr.Internal(c, "failed_to_create_review", "Erro ao salvar avaliação.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &customerID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &review.ID,
		Metadata: map[string]any{"booking_id": b.ID, "rating": review.Rating},
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Obrigado pela avaliação!",
		"review":  review,
	})
}
