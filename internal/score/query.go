package score

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidQuery is returned by Query.Validate.
var ErrInvalidQuery = errors.New("invalid query")

// Query is one user's travel preferences.
// MinDuration <= MaxDuration is not enforced.
type Query struct {
	// Budget: maximal total cost of the trip.
	Budget float64 `json:"budget" validate:"gt=0"`
	// MinDuration and MaxDuration: trip length range in days.
	MinDuration int `json:"min_duration" validate:"gte=1"`
	MaxDuration int `json:"max_duration" validate:"gte=1"`
	// Month: travel month 1..12.
	Month int `json:"month" validate:"gte=1,lte=12"`
	// Lodging: accommodation type; empty means no preference.
	Lodging string `json:"lodging,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func queryValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the query bounds. The returned error wraps ErrInvalidQuery.
func (q Query) Validate() error {
	err := queryValidator().Struct(q)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s=%s'", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidQuery, strings.Join(msgs, "; "))
}

// Features returns the query in catalog feature space:
// {budget, mean duration, month}.
func (q Query) Features() [3]float64 {
	return [3]float64{
		q.Budget,
		float64(q.MinDuration+q.MaxDuration) / 2,
		float64(q.Month),
	}
}

// HasLodging reports whether a lodging type was requested.
func (q Query) HasLodging() bool {
	return q.Lodging != ""
}
