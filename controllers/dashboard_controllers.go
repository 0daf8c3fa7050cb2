package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/reports"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Reservations *services.ReservationService
	Tables       *services.TableService
	Rules        validation.Rules
}

func NewDashboardController(reservations *services.ReservationService, tables *services.TableService, rules validation.Rules) *DashboardController {
	return &DashboardController{Reservations: reservations, Tables: tables, Rules: rules}
}

// GetStats -> GET /dashboard/stats?date=
func (dc *DashboardController) GetStats(c *gin.Context) {
	date, err := queryDate(c, dc.Rules)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	stats, err := dc.Reservations.Stats(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, stats)
}

// ExportPDF -> GET /reports/reservations.pdf?date=
func (dc *DashboardController) ExportPDF(c *gin.Context) {
	date, err := queryDate(c, dc.Rules)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	reservations, err := dc.Reservations.ListByDate(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	tables, err := dc.Tables.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	seatedAt := make(map[uint]string, len(tables))
	for _, t := range tables {
		if t.ReservationID != nil {
			seatedAt[*t.ReservationID] = t.TableName
		}
	}

	now := time.Now()
	if dc.Rules.Now != nil {
		now = dc.Rules.Now()
	}
	pdf, err := reports.ReservationSheet(date, reservations, seatedAt, now)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="reservations-%s.pdf"`, date))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
