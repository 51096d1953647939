package route

import (
	"errors"
	"fmt"

	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"
)

// ErrStopIsNotConstructed is returned when a Stop instance was not created
// through NewStop.
var ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop constructor")

// Stop is one visit on a route: a location plus its 1-based position in
// the driving order. Stop is a value object; Route enforces that the
// numbers of its stops are contiguous.
type Stop struct {
	// locationID identifies the location visited
	locationID kernel.UUID

	// number is the 1-based position within the route
	number int

	// isConstructed ensures the stop was created via NewStop
	isConstructed bool
}

// NewStop creates a Stop with validation. The number must be positive.
func NewStop(locationID kernel.UUID, number int) (Stop, error) {
	s := Stop{isConstructed: true}

	if err := errors.Join(
		s.setLocationID(locationID),
		s.setNumber(number),
	); err != nil {
		return Stop{}, err
	}

	return s, nil
}

// Validate ensures the Stop was constructed through NewStop.
func (s Stop) Validate() error {
	if !s.isConstructed {
		return ErrStopIsNotConstructed
	}

	return nil
}

// LocationID returns the visited location's identifier.
func (s Stop) LocationID() kernel.UUID {
	return s.locationID
}

// Number returns the 1-based position within the route.
func (s Stop) Number() int {
	return s.number
}

func (s *Stop) setLocationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.locationID = id
	return nil
}

func (s *Stop) setNumber(number int) error {
	if number < 1 {
		return errs.NewValueIsInvalidErrorWithCause("stop number is invalid",
			fmt.Errorf("%d is not greater than 0", number))
	}
	s.number = number
	return nil
}
