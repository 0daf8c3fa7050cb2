package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// Lookup loads a reservation by id and returns utils.ErrNotFound when it
// does not exist.
type Lookup func(ctx context.Context, id uint) (*models.Reservation, error)

// State is threaded through a chain. Each step reads what earlier steps
// stored and adds its own result.
type State struct {
	ID            uint
	Payload       *ReservationPayload
	StatusPayload *StatusPayload

	Existing    *models.Reservation
	Reservation models.Reservation
	NewStatus   models.ReservationStatus
	Now         time.Time
	SameDay     bool
}

// Step either passes (nil) or fails with an *utils.AppError.
type Step struct {
	Name  string
	Check func(ctx context.Context, st *State) error
}

// Run executes steps in order and stops at the first failure.
func Run(ctx context.Context, st *State, steps ...Step) error {
	for _, step := range steps {
		if err := step.Check(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func CreateChain(rules Rules) []Step {
	return []Step{PayloadPresent(), Fields(), FutureDate(rules), OperatingHours(rules)}
}

func EditChain(rules Rules, lookup Lookup) []Step {
	return []Step{Exists(lookup), PayloadPresent(), Fields(), FutureDate(rules), OperatingHours(rules)}
}

func ReadChain(lookup Lookup) []Step {
	return []Step{Exists(lookup)}
}

func StatusChain(lookup Lookup) []Step {
	return []Step{Exists(lookup), PayloadPresent(), KnownStatus(), NotFinished()}
}

func Exists(lookup Lookup) Step {
	return Step{Name: "exists", Check: func(ctx context.Context, st *State) error {
		reservation, err := lookup(ctx, st.ID)
		if errors.Is(err, utils.ErrNotFound) {
			return utils.NotFound("Reservation %d cannot be found.", st.ID)
		}
		if err != nil {
			return err
		}
		st.Existing = reservation
		return nil
	}}
}

// PayloadPresent requires the request to have carried a data object.
func PayloadPresent() Step {
	return Step{Name: "payload", Check: func(_ context.Context, st *State) error {
		if st.Payload == nil && st.StatusPayload == nil {
			return utils.BadRequest("data is missing")
		}
		return nil
	}}
}

// Fields reports every invalid field at once.
func Fields() Step {
	return Step{Name: "fields", Check: func(_ context.Context, st *State) error {
		p := st.Payload
		var invalid []string
		r := models.Reservation{Status: models.StatusBooked}

		var ok bool
		if r.FirstName, ok = nonEmptyString(p.FirstName); !ok {
			invalid = append(invalid, "first_name")
		}
		if r.LastName, ok = nonEmptyString(p.LastName); !ok {
			invalid = append(invalid, "last_name")
		}
		if r.MobileNumber, ok = nonEmptyString(p.MobileNumber); !ok {
			invalid = append(invalid, "mobile_number")
		}

		date, _ := nonEmptyString(p.ReservationDate)
		if _, err := utils.ParseDate(date, time.UTC); !datePattern.MatchString(date) || err != nil {
			invalid = append(invalid, "reservation_date")
		}
		r.ReservationDate = date

		clock, _ := nonEmptyString(p.ReservationTime)
		minutes, err := utils.ClockMinutes(clock)
		if !timePattern.MatchString(clock) || err != nil {
			invalid = append(invalid, "reservation_time")
		} else {
			clock = utils.FormatClock(minutes)
		}
		r.ReservationTime = clock

		people, ok := wholeNumber(p.People)
		if !ok || people <= 0 {
			invalid = append(invalid, "people")
		}
		r.People = people

		if len(invalid) > 0 {
			return utils.BadRequest("One or more inputs are invalid: %s", strings.Join(invalid, ", "))
		}
		st.Reservation = r
		return nil
	}}
}

// FutureDate rejects the closure day and past dates, and flags same-day
// reservations for OperatingHours.
func FutureDate(rules Rules) Step {
	return Step{Name: "future-date", Check: func(_ context.Context, st *State) error {
		now := rules.now()
		st.Now = now

		date, err := utils.ParseDate(st.Reservation.ReservationDate, rules.location())
		if err != nil {
			return utils.BadRequest("One or more inputs are invalid: reservation_date")
		}

		var problems []string
		if date.Weekday() == rules.ClosedOn {
			problems = append(problems, fmt.Sprintf("The restaurant is closed on %s!", rules.ClosedOn))
		}
		switch compareDates(date, now) {
		case -1:
			problems = append(problems, "You must schedule reservations for some time in the future!")
		case 0:
			st.SameDay = true
		}

		if len(problems) > 0 {
			return utils.BadRequest("There are issues with your reservation: %s", strings.Join(problems, ", "))
		}
		return nil
	}}
}

// OperatingHours enforces the booking window and, for same-day bookings,
// that the time has not already passed.
func OperatingHours(rules Rules) Step {
	return Step{Name: "operating-hours", Check: func(_ context.Context, st *State) error {
		minutes, err := utils.ClockMinutes(st.Reservation.ReservationTime)
		if err != nil {
			return utils.BadRequest("One or more inputs are invalid: reservation_time")
		}

		now := st.Now
		if now.IsZero() {
			now = rules.now()
		}

		var problem string
		switch {
		case minutes < rules.Opening:
			problem = fmt.Sprintf("The restaurant does not take reservations before %s. Please select another time.", utils.FormatClock(rules.Opening))
		case minutes > rules.Closing:
			problem = fmt.Sprintf("No reservations are taken after %s.", utils.FormatClock(rules.Closing))
		case st.SameDay && minutes < now.Hour()*60+now.Minute():
			problem = "Please select a reservation time later in the day."
		}
		if problem != "" {
			return utils.BadRequest("There are issues with your reservation: %s", problem)
		}
		return nil
	}}
}

func KnownStatus() Step {
	return Step{Name: "known-status", Check: func(_ context.Context, st *State) error {
		raw, _ := nonEmptyString(st.StatusPayload.Status)
		status := models.ReservationStatus(strings.ToLower(raw))
		if !status.Valid() {
			return utils.BadRequest("Status %q is unknown. Use booked, seated, finished or cancelled.", raw)
		}
		st.NewStatus = status
		return nil
	}}
}

// NotFinished treats finished as a terminal state.
func NotFinished() Step {
	return Step{Name: "not-finished", Check: func(_ context.Context, st *State) error {
		if st.Existing != nil && st.Existing.Status == models.StatusFinished {
			return utils.BadRequest("A finished reservation cannot be updated.")
		}
		return nil
	}}
}

// compareDates orders two instants by calendar date only.
func compareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	default:
		return sign(ad - bd)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
