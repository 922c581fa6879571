package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_InitialState(t *testing.T) {
	b := New("events-api")
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
	assert.Equal(t, "events-api", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("events-api", WithFailureThreshold(3))

	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.IsOpen())

	assert.True(t, b.RecordFailure().Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("events-api", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	assert.False(t, b.RecordSuccess().Closed)
	assert.True(t, b.IsOpen())

	assert.True(t, b.RecordSuccess().Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("events-api", WithFailureThreshold(3))
	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_FailureWhileOpenResetsSuccessCount(t *testing.T) {
	b := New("events-api", WithFailureThreshold(1), WithSuccessThreshold(3))
	b.RecordFailure()

	b.RecordSuccess()
	b.RecordSuccess()
	change := b.RecordFailure()
	assert.False(t, change.Opened, "already open")
	assert.True(t, b.IsOpen())

	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_AllowProbesAfterCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New("events-api",
		WithFailureThreshold(1),
		WithCooldown(10*time.Second),
		WithClock(func() time.Time { return now }),
	)

	b.RecordFailure()
	assert.False(t, b.Allow())

	now = now.Add(10 * time.Second)
	assert.True(t, b.Allow())

	// a failed trial call restarts the window
	b.RecordFailure()
	assert.False(t, b.Allow())
}

func TestBreaker_AllowAdmitsOneCallPerCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New("events-api",
		WithFailureThreshold(1),
		WithCooldown(time.Second),
		WithClock(func() time.Time { return now }),
	)
	b.RecordFailure()
	now = now.Add(2 * time.Second)

	allowed := 0
	for range 10 {
		if b.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)

	now = now.Add(time.Second)
	assert.True(t, b.Allow(), "next window admits another call")
	assert.False(t, b.Allow())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("events-api", WithFailureThreshold(1))
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
}
