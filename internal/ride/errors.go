package ride

import "errors"

var (
	ErrRideNotFound        = errors.New("ride not found")
	ErrRideUnavailable     = errors.New("ride is no longer available")
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrNotRideParty        = errors.New("not a party to this ride")
	ErrNotAssignedDriver   = errors.New("only the assigned driver can update ride status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrRideNotCancellable  = errors.New("ride can no longer be cancelled")
	ErrRideNotCompleted    = errors.New("ride is not completed")
	ErrAlreadyRated        = errors.New("ride already rated")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNoActiveRide        = errors.New("no active ride")
)
