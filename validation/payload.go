package validation

import (
	"encoding/json"
	"math"
	"strings"
)

// ReservationPayload is the loosely typed body of create and edit
// requests. Fields stay untyped so that wrong JSON types are reported per
// field instead of failing the whole decode.
type ReservationPayload struct {
	FirstName       any `json:"first_name"`
	LastName        any `json:"last_name"`
	MobileNumber    any `json:"mobile_number"`
	ReservationDate any `json:"reservation_date"`
	ReservationTime any `json:"reservation_time"`
	People          any `json:"people"`
}

// StatusPayload is the body of a status update.
type StatusPayload struct {
	Status any `json:"status"`
}

// TablePayload is the body of a table creation.
type TablePayload struct {
	TableName any `json:"table_name"`
	Capacity  any `json:"capacity"`
}

// SeatPayload is the body of a seating request.
type SeatPayload struct {
	ReservationID any `json:"reservation_id"`
}

// Envelope wraps every request body as {"data": ...}.
type Envelope[T any] struct {
	Data *T `json:"data"`
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// wholeNumber accepts JSON numbers without a fractional part.
func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
