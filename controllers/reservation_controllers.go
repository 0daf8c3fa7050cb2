package controllers

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Notifier     *services.Notifier
	Rules        validation.Rules
}

func NewReservationController(reservations *services.ReservationService, notifier *services.Notifier, rules validation.Rules) *ReservationController {
	return &ReservationController{Reservations: reservations, Notifier: notifier, Rules: rules}
}

// CreateReservation -> POST /reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	payload, err := bindData[validation.ReservationPayload](c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	st := &validation.State{Payload: payload}
	if err := validation.Run(c.Request.Context(), st, validation.CreateChain(rc.Rules)...); err != nil {
		utils.RespondError(c, err)
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), st.Reservation)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	rc.Notifier.Notify(c.Request.Context(), realtime.EventReservationCreated, reservation)
	utils.InfoLogger.Printf("Reservation %d created for %s (%d people)", reservation.ID, reservation.ReservationDate, reservation.People)
	utils.RespondJSON(c, http.StatusCreated, reservation)
}

// ListReservations -> GET /reservations?date= or ?mobile_number=
func (rc *ReservationController) ListReservations(c *gin.Context) {
	if mobile := c.Query("mobile_number"); mobile != "" {
		reservations, err := rc.Reservations.Search(c.Request.Context(), mobile)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, reservations)
		return
	}

	date, err := queryDate(c, rc.Rules)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	reservations, err := rc.Reservations.ListByDate(c.Request.Context(), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

// GetReservation -> GET /reservations/:reservation_id
func (rc *ReservationController) GetReservation(c *gin.Context) {
	st, ok := rc.state(c)
	if !ok {
		return
	}
	if err := validation.Run(c.Request.Context(), st, validation.ReadChain(rc.Reservations.Read)...); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, st.Existing)
}

// UpdateReservation -> PUT /reservations/:reservation_id
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	st, ok := rc.state(c)
	if !ok {
		return
	}
	payload, err := bindData[validation.ReservationPayload](c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	st.Payload = payload

	if err := validation.Run(c.Request.Context(), st, validation.EditChain(rc.Rules, rc.Reservations.Read)...); err != nil {
		utils.RespondError(c, err)
		return
	}

	reservation, err := rc.Reservations.Edit(c.Request.Context(), st.ID, st.Reservation)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	rc.Notifier.Notify(c.Request.Context(), realtime.EventReservationUpdated, reservation)
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservationStatus -> PUT /reservations/:reservation_id/status
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	st, ok := rc.state(c)
	if !ok {
		return
	}
	payload, err := bindData[validation.StatusPayload](c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	st.StatusPayload = payload

	if err := validation.Run(c.Request.Context(), st, validation.StatusChain(rc.Reservations.Read)...); err != nil {
		utils.RespondError(c, err)
		return
	}

	reservation, err := rc.Reservations.UpdateStatus(c.Request.Context(), st.ID, st.NewStatus)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	rc.Notifier.Notify(c.Request.Context(), realtime.EventReservationStatus, reservation)
	utils.InfoLogger.Printf("Reservation %d status changed to %s", reservation.ID, reservation.Status)
	utils.RespondJSON(c, http.StatusOK, reservation)
}

func (rc *ReservationController) state(c *gin.Context) (*validation.State, bool) {
	id, err := pathID(c, "reservation_id", "Reservation")
	if err != nil {
		utils.RespondError(c, err)
		return nil, false
	}
	return &validation.State{ID: id}, true
}
