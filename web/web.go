// Package web serves the staff pages. Every read and write goes through the
// reservation API client.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/client"
	"github.com/Cole-Dreyer/Restaurant-Reservation/middlewares"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

const unavailableMessage = "The reservation service is unavailable. Please try again."

// Server renders the pages.
type Server struct {
	API      *client.Client
	Location *time.Location
	Now      func() time.Time
}

func NewServer(api *client.Client, loc *time.Location) *Server {
	return &Server{API: api, Location: loc, Now: time.Now}
}

func (s *Server) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return utils.Today(s.Location, now())
}

// Router builds the page routes on a fresh engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(utils.RecoveryHandler))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PageSecurityHeaders())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
	})
	r.GET("/dashboard", s.Dashboard)
	r.GET("/search", s.Search)

	r.GET("/reservations/new", s.NewReservation)
	r.POST("/reservations/new", s.CreateReservation)
	r.GET("/reservations/:reservation_id/edit", s.EditReservation)
	r.POST("/reservations/:reservation_id/edit", s.UpdateReservation)
	r.GET("/reservations/:reservation_id/seat", s.SeatForm)
	r.POST("/reservations/:reservation_id/seat", s.Seat)
	r.POST("/reservations/:reservation_id/cancel", s.Cancel)

	r.GET("/tables/new", s.NewTable)
	r.POST("/tables/new", s.CreateTable)
	r.POST("/tables/:table_id/finish", s.Finish)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "notfound.html", gin.H{"Title": "Not found", "Path": c.Request.URL.Path})
	})
	return r
}

// alertMessage turns a client error into text for the alert box. Transport
// failures are logged and replaced with a generic message.
func alertMessage(c *gin.Context, err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	utils.ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error("api call failed")
	return unavailableMessage
}

func formUint(c *gin.Context, key string) uint {
	id, err := strconv.ParseUint(c.PostForm(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func paramUint(c *gin.Context, key string) uint {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// formInt keeps unparsable numbers at zero so the API reports the field.
func formInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return n
}

func dashboardURL(date string) string {
	if date == "" {
		return "/dashboard"
	}
	return "/dashboard?date=" + url.QueryEscape(date)
}
