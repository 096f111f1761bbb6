package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKM(t *testing.T) {
	assert.InDelta(t, 0, DistanceKM(28.6, 77.2, 28.6, 77.2), 1e-9)

	// one degree of latitude along a meridian
	assert.InDelta(t, 111.195, DistanceKM(0, 0, 1, 0), 0.01)

	// New Delhi to Mumbai
	assert.InDelta(t, 1148, DistanceKM(28.6139, 77.2090, 19.0760, 72.8777), 5)

	// symmetric
	assert.InDelta(t, DistanceKM(10, 20, 30, 40), DistanceKM(30, 40, 10, 20), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 12.35, Round2(12.3456))
	assert.Equal(t, 0.0, Round2(0.001))
}
