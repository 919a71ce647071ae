package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
)

// --------------------------------------------------
// Datas sempre no fuso do negócio
// --------------------------------------------------

func parseDateParam(loc *time.Location, raw string) (time.Time, error) {
	return timezone.ParseDate(raw, loc)
}

func parseStartParam(loc *time.Location, raw string) (time.Time, error) {
	return timezone.ParseDateTime(raw, loc)
}

// --------------------------------------------------
// IDs de rota
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
