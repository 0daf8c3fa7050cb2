package validation

import (
	"strings"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
)

// ValidateTable checks a new table, reporting every invalid field.
func ValidateTable(p *TablePayload) (models.Table, error) {
	if p == nil {
		return models.Table{}, utils.BadRequest("data is missing")
	}

	var invalid []string
	name, ok := nonEmptyString(p.TableName)
	if !ok {
		invalid = append(invalid, "table_name")
	}
	capacity, ok := wholeNumber(p.Capacity)
	if !ok || capacity <= 0 {
		invalid = append(invalid, "capacity")
	}
	if len(invalid) > 0 {
		return models.Table{}, utils.BadRequest("One or more inputs are invalid: %s", strings.Join(invalid, ", "))
	}
	return models.Table{TableName: name, Capacity: capacity}, nil
}

// ValidateSeat returns the reservation id named by a seating request.
func ValidateSeat(p *SeatPayload) (uint, error) {
	if p == nil {
		return 0, utils.BadRequest("data is missing")
	}
	if p.ReservationID == nil {
		return 0, utils.BadRequest("reservation_id is missing")
	}
	id, ok := wholeNumber(p.ReservationID)
	if !ok || id <= 0 {
		return 0, utils.BadRequest("One or more inputs are invalid: reservation_id")
	}
	return uint(id), nil
}
