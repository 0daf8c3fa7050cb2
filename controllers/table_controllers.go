package controllers

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/realtime"
	"github.com/Cole-Dreyer/Restaurant-Reservation/services"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/gin-gonic/gin"
)

type TableController struct {
	Tables   *services.TableService
	Notifier *services.Notifier
}

func NewTableController(tables *services.TableService, notifier *services.Notifier) *TableController {
	return &TableController{Tables: tables, Notifier: notifier}
}

// CreateTable -> POST /tables
func (tc *TableController) CreateTable(c *gin.Context) {
	payload, err := bindData[validation.TablePayload](c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	table, err := validation.ValidateTable(payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	created, err := tc.Tables.Create(c.Request.Context(), table)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	tc.Notifier.Notify(c.Request.Context(), realtime.EventTableCreated, created)
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", created.TableName, created.Capacity)
	utils.RespondJSON(c, http.StatusCreated, created)
}

// GetAllTables -> GET /tables
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

// SeatTable -> PUT /tables/:table_id/seat
func (tc *TableController) SeatTable(c *gin.Context) {
	tableID, err := pathID(c, "table_id", "Table")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	payload, err := bindData[validation.SeatPayload](c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	reservationID, err := validation.ValidateSeat(payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	seating, err := tc.Tables.Seat(c.Request.Context(), tableID, reservationID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	tc.Notifier.Notify(c.Request.Context(), realtime.EventTableSeated, seating)
	utils.InfoLogger.Printf("Reservation %d seated at table %s", reservationID, seating.Table.TableName)
	utils.RespondJSON(c, http.StatusOK, seating.Table)
}

// FinishTable -> DELETE /tables/:table_id/seat
func (tc *TableController) FinishTable(c *gin.Context) {
	tableID, err := pathID(c, "table_id", "Table")
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	seating, err := tc.Tables.Finish(c.Request.Context(), tableID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	tc.Notifier.Notify(c.Request.Context(), realtime.EventTableFinished, seating)
	utils.InfoLogger.Printf("Table %s finished", seating.Table.TableName)
	utils.RespondJSON(c, http.StatusOK, seating.Table)
}
