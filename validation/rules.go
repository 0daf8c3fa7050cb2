package validation

import (
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
)

// Rules holds the restaurant's booking policy.
type Rules struct {
	// Opening and Closing bound the accepted reservation times, in minutes
	// since midnight, inclusive.
	Opening  int
	Closing  int
	ClosedOn time.Weekday
	Location *time.Location
	// Now overrides the wall clock; nil means time.Now.
	Now func() time.Time
}

func DefaultRules() Rules {
	return Rules{
		Opening:  10*60 + 30,
		Closing:  21*60 + 30,
		ClosedOn: time.Tuesday,
		Location: time.Local,
	}
}

func (r Rules) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

func (r Rules) now() time.Time {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	return now.In(r.location())
}

// Today is the restaurant's current calendar date.
func (r Rules) Today() string {
	return utils.FormatDate(r.now())
}
