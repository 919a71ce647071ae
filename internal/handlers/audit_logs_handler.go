package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/models"
	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

type auditPage struct {
	page   int
	limit  int
	offset int
}

func parseAuditPage(pageStr, limitStr string) auditPage {
	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	return auditPage{page: page, limit: limit, offset: (page - 1) * limit}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	p := parseAuditPage(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "50"))

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if actor := c.Query("actor_id"); actor != "" {
		id, err := strconv.ParseUint(actor, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_actor_id", "Usuário inválido.")
			return
		}
		q = q.Where("actor_id = ?", id)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := timezone.ParseDate(fromStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := timezone.ParseDate(toStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(p.limit).
		Offset(p.offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  p.page,
		"limit": p.limit,
		"total": total,
		"logs":  logs,
	})
}
