package web

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gin-gonic/gin"
)

type dashboardPage struct {
	Title        string
	Date         string
	Today        string
	Previous     string
	Next         string
	Error        string
	Reservations []models.Reservation
	Tables       []models.Table
	Stats        *services.DashboardStats
}

// Dashboard lists the reservations for ?date (default today) and the floor.
func (s *Server) Dashboard(c *gin.Context) {
	s.renderDashboard(c, http.StatusOK, c.Query("date"), "")
}

// renderDashboardError redraws the dashboard for date after a failed action.
func (s *Server) renderDashboardError(c *gin.Context, date, msg string) {
	s.renderDashboard(c, http.StatusBadRequest, date, msg)
}

func (s *Server) renderDashboard(c *gin.Context, status int, date, alert string) {
	ctx := c.Request.Context()
	page := dashboardPage{Title: "Dashboard", Today: s.today(), Date: date, Error: alert}

	if page.Date == "" {
		page.Date = page.Today
	}
	if _, err := utils.ParseDate(page.Date, s.Location); err != nil {
		page.Error = "date must be a valid YYYY-MM-DD date"
		page.Date = page.Today
	}
	page.Previous, _ = utils.PreviousDay(page.Date)
	page.Next, _ = utils.NextDay(page.Date)

	fail := func(err error) {
		if page.Error == "" {
			page.Error = alertMessage(c, err)
		}
		c.HTML(status, "dashboard.html", page)
	}

	var err error
	if page.Reservations, err = s.API.ListReservations(ctx, page.Date); err != nil {
		fail(err)
		return
	}
	if page.Tables, err = s.API.ListTables(ctx); err != nil {
		fail(err)
		return
	}
	if page.Stats, err = s.API.Stats(ctx, page.Date); err != nil {
		// The summary line is optional.
		utils.InfoLogger.WithError(err).Warn("dashboard stats unavailable")
	}
	c.HTML(status, "dashboard.html", page)
}

type searchPage struct {
	Title        string
	Date         string
	MobileNumber string
	Searched     bool
	Error        string
	Reservations []models.Reservation
}

// Search looks reservations up by mobile number, in every status.
func (s *Server) Search(c *gin.Context) {
	page := searchPage{Title: "Search", MobileNumber: c.Query("mobile_number")}
	if page.MobileNumber != "" {
		page.Searched = true
		found, err := s.API.Search(c.Request.Context(), page.MobileNumber)
		if err != nil {
			page.Error = alertMessage(c, err)
		}
		page.Reservations = found
	}
	c.HTML(http.StatusOK, "search.html", page)
}
