package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	"github.com/BruksfildServices01/service-marketplace/internal/dto"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"min=0"`
	Location    string  `json:"location"`
	ImageURL    string  `json:"image_url"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Location    *string  `json:"location,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// ServiceSearch são os filtros da busca pública.
type ServiceSearch struct {
	Category   string `form:"category"`
	Keyword    string `form:"keyword"`
	Location   string `form:"location"`
	ProviderID uint   `form:"provider_id"`
	SortBy     string `form:"sortBy"`
}

// --------- Query ---------

// searchQuery monta a listagem com média e quantidade de avaliações.
// Com provider_id os demais filtros são ignorados e todos os status aparecem,
// para o prestador enxergar os próprios serviços pendentes.
func searchQuery(db *gorm.DB, f ServiceSearch) *gorm.DB {
	q := db.Table("services AS s").
		Select(`s.id, s.provider_id, s.name, s.description, s.category, s.price,
			s.location, s.image_url, s.status, s.created_at,
			u.name AS provider_name,
			AVG(r.rating) AS average_rating,
			COUNT(DISTINCT r.id) AS review_count`).
		Joins("JOIN users u ON u.id = s.provider_id").
		Joins("LEFT JOIN reviews r ON r.service_id = s.id").
		Group("s.id, u.name")

	if f.ProviderID != 0 {
		q = q.Where("s.provider_id = ?", f.ProviderID)
	} else {
		q = q.Where("s.status = ?", models.ServiceApproved)

		if c := strings.TrimSpace(f.Category); c != "" {
			q = q.Where("s.category ILIKE ?", "%"+c+"%")
		}
		if k := strings.TrimSpace(f.Keyword); k != "" {
			like := "%" + k + "%"
			q = q.Where("(s.name ILIKE ? OR s.description ILIKE ?)", like, like)
		}
		if l := strings.TrimSpace(f.Location); l != "" {
			q = q.Where("s.location ILIKE ?", "%"+l+"%")
		}
	}

	switch f.SortBy {
	case "price_asc":
		q = q.Order("s.price ASC")
	case "price_desc":
		q = q.Order("s.price DESC")
	case "rating_desc":
		q = q.Order("average_rating DESC NULLS LAST").Order("review_count DESC")
	default:
		q = q.Order("s.id ASC")
	}
	return q
}

// --------- Handlers ---------

func (h *ServiceHandler) Search(c *gin.Context) {
	var f ServiceSearch
	if err := c.ShouldBindQuery(&f); err != nil {
		httperr.BadRequest(c, "invalid_request", "Filtros inválidos.")
		return
	}

	var rows []dto.ServiceListingDTO
	if err := searchQuery(h.db.WithContext(c.Request.Context()), f).Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}
	if rows == nil {
		rows = []dto.ServiceListingDTO{}
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		httperr.BadRequest(c, "invalid_request", "Nome do serviço é obrigatório.")
		return
	}

	providerID := middleware.UserID(c)
	svc := models.Service{
		ProviderID:  providerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		Status:      models.ServicePending,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &providerID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Serviço enviado para aprovação.",
		"service": svc,
	})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	svc, ok := h.owned(c, id)
	if !ok {
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Category != nil {
		svc.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Location != nil {
		svc.Location = *req.Location
	}
	if req.ImageURL != nil {
		svc.ImageURL = *req.ImageURL
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao atualizar serviço.")
		return
	}

	c.JSON(http.StatusOK, svc)
}

// Delete falha com conflito se ainda houver reservas apontando para o serviço.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	providerID := middleware.UserID(c)
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND provider_id = ?", id, providerID).
		Delete(&models.Service{})
	if res.Error != nil {
		if httperr.IsForeignKeyViolation(res.Error) {
			httperr.Conflict(c, "service_in_use", "Serviço possui reservas e não pode ser removido.")
			return
		}
		httperr.Internal(c, "failed_to_delete_service", "Erro ao remover serviço.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  &providerID,
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// owned carrega o serviço do prestador logado; de outro dono vira 404.
func (h *ServiceHandler) owned(c *gin.Context, id uint) (*models.Service, bool) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND provider_id = ?", id, middleware.UserID(c)).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return nil, false
	}
	return &svc, true
}
