package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusPending, StatusAccepted},
		{StatusAccepted, StatusArrived},
		{StatusArrived, StatusStarted},
		{StatusStarted, StatusCompleted},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to string }{
		{StatusPending, StatusArrived},
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusStarted},
		{StatusAccepted, StatusCompleted},
		{StatusArrived, StatusCompleted},
		{StatusStarted, StatusArrived},
		{StatusCompleted, StatusStarted},
		{StatusCancelled, StatusAccepted},
		{StatusCompleted, StatusCompleted},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))

	for _, s := range []string{StatusPending, StatusAccepted, StatusArrived, StatusStarted} {
		assert.False(t, IsTerminal(s), s)
	}
}

func TestRideParties(t *testing.T) {
	r := &Ride{PassengerID: "p1", DriverID: "d1"}

	assert.True(t, r.IsParty("p1"))
	assert.True(t, r.IsParty("d1"))
	assert.False(t, r.IsParty("stranger"))

	assert.Equal(t, "d1", r.OtherParty("p1"))
	assert.Equal(t, "p1", r.OtherParty("d1"))

	unassigned := &Ride{PassengerID: "p1"}
	assert.Equal(t, "", unassigned.OtherParty("p1"))
}
