package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPLimiters_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiters(rate.Limit(1), 1, time.Minute)
	l.now = func() time.Time { return clock }

	a := l.get("10.0.0.1")
	l.get("10.0.0.2")
	assert.Equal(t, 2, l.size())

	clock = clock.Add(30 * time.Second)
	assert.Same(t, a, l.get("10.0.0.1"))

	// .2 has been idle past the TTL; .1 was seen 30s ago.
	clock = clock.Add(45 * time.Second)
	l.get("10.0.0.3")
	assert.Equal(t, 2, l.size())
	assert.Same(t, a, l.get("10.0.0.1"))

	clock = clock.Add(2 * time.Minute)
	l.get("10.0.0.4")
	assert.Equal(t, 1, l.size())
}

func TestIPLimiters_KeepsBucketState(t *testing.T) {
	l := newIPLimiters(rate.Limit(0.001), 1, time.Hour)

	assert.True(t, l.get("10.0.0.1").Allow())
	assert.False(t, l.get("10.0.0.1").Allow())
	assert.True(t, l.get("10.0.0.2").Allow())
}
