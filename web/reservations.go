package web

import (
	"fmt"
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/client"
	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/gin-gonic/gin"
)

type reservationPage struct {
	Title  string
	Action string
	Error  string
	Form   client.ReservationInput
}

func reservationForm(c *gin.Context) client.ReservationInput {
	return client.ReservationInput{
		FirstName:       c.PostForm("first_name"),
		LastName:        c.PostForm("last_name"),
		MobileNumber:    c.PostForm("mobile_number"),
		ReservationDate: c.PostForm("reservation_date"),
		ReservationTime: c.PostForm("reservation_time"),
		People:          formInt(c, "people"),
	}
}

func (s *Server) NewReservation(c *gin.Context) {
	c.HTML(http.StatusOK, "reservation_form.html", reservationPage{
		Title:  "New Reservation",
		Action: "/reservations/new",
		Form:   client.ReservationInput{ReservationDate: s.today(), People: 1},
	})
}

func (s *Server) CreateReservation(c *gin.Context) {
	form := reservationForm(c)
	created, err := s.API.CreateReservation(c.Request.Context(), form)
	if err != nil {
		c.HTML(http.StatusBadRequest, "reservation_form.html", reservationPage{
			Title:  "New Reservation",
			Action: "/reservations/new",
			Error:  alertMessage(c, err),
			Form:   form,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardURL(created.ReservationDate))
}

func (s *Server) EditReservation(c *gin.Context) {
	id := paramUint(c, "reservation_id")
	page := reservationPage{Title: "Edit Reservation", Action: fmt.Sprintf("/reservations/%d/edit", id)}

	r, err := s.API.ReadReservation(c.Request.Context(), id)
	if err != nil {
		page.Error = alertMessage(c, err)
		c.HTML(http.StatusNotFound, "reservation_form.html", page)
		return
	}
	page.Form = client.ReservationInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		People:          r.People,
	}
	c.HTML(http.StatusOK, "reservation_form.html", page)
}

func (s *Server) UpdateReservation(c *gin.Context) {
	id := paramUint(c, "reservation_id")
	form := reservationForm(c)
	updated, err := s.API.EditReservation(c.Request.Context(), id, form)
	if err != nil {
		c.HTML(http.StatusBadRequest, "reservation_form.html", reservationPage{
			Title:  "Edit Reservation",
			Action: fmt.Sprintf("/reservations/%d/edit", id),
			Error:  alertMessage(c, err),
			Form:   form,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardURL(updated.ReservationDate))
}

// Cancel marks the reservation cancelled and returns to the dashboard date
// the button was pressed on.
func (s *Server) Cancel(c *gin.Context) {
	id := paramUint(c, "reservation_id")
	if _, err := s.API.CancelReservation(c.Request.Context(), id); err != nil {
		s.renderDashboardError(c, c.PostForm("date"), alertMessage(c, err))
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardURL(c.PostForm("date")))
}

type seatPage struct {
	Title       string
	Error       string
	Reservation *models.Reservation
	Tables      []models.Table
	TableID     uint
}

func (s *Server) SeatForm(c *gin.Context) {
	page, ok := s.loadSeatPage(c)
	if !ok {
		c.HTML(http.StatusNotFound, "seat.html", page)
		return
	}
	c.HTML(http.StatusOK, "seat.html", page)
}

func (s *Server) Seat(c *gin.Context) {
	tableID := formUint(c, "table_id")
	id := paramUint(c, "reservation_id")
	if _, err := s.API.Seat(c.Request.Context(), tableID, id); err != nil {
		page, _ := s.loadSeatPage(c)
		page.TableID = tableID
		if page.Error == "" {
			page.Error = alertMessage(c, err)
		}
		c.HTML(http.StatusBadRequest, "seat.html", page)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardURL(c.PostForm("date")))
}

func (s *Server) loadSeatPage(c *gin.Context) (seatPage, bool) {
	ctx := c.Request.Context()
	page := seatPage{Title: "Seat Reservation"}
	r, err := s.API.ReadReservation(ctx, paramUint(c, "reservation_id"))
	if err != nil {
		page.Error = alertMessage(c, err)
		return page, false
	}
	page.Reservation = r
	if page.Tables, err = s.API.ListTables(ctx); err != nil {
		page.Error = alertMessage(c, err)
	}
	return page, true
}
