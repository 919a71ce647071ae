package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/httperr"
	"github.com/BruksfildServices01/service-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/service-marketplace/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/service-marketplace/internal/usecase/schedule"
)

type ScheduleHandler struct {
	get     *ucSchedule.GetSchedule
	replace *ucSchedule.ReplaceSchedule
}

func NewScheduleHandler(get *ucSchedule.GetSchedule, replace *ucSchedule.ReplaceSchedule) *ScheduleHandler {
	return &ScheduleHandler{get: get, replace: replace}
}

type ReplaceScheduleRequest struct {
	Schedules []domain.WeeklyEntry `json:"schedules" binding:"required"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	entries, err := h.get.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, entries)
}

// Replace troca a grade inteira; dias ausentes ou indisponíveis deixam de existir.
func (h *ScheduleHandler) Replace(c *gin.Context) {
	var req ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	saved, err := h.replace.Execute(c.Request.Context(), middleware.UserID(c), req.Schedules)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Grade salva.",
		"schedules": saved,
	})
}
