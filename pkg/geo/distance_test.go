package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	t.Run("Same point is zero", func(t *testing.T) {
		assert.Zero(t, Distance(28.6139, 77.2090, 28.6139, 77.2090))
	})

	t.Run("Symmetric", func(t *testing.T) {
		d1 := Distance(28.6139, 77.2090, 19.0760, 72.8777)
		d2 := Distance(19.0760, 72.8777, 28.6139, 77.2090)
		assert.InDelta(t, d1, d2, 1e-9)
	})

	t.Run("Delhi to Mumbai roughly 1150km", func(t *testing.T) {
		d := Distance(28.6139, 77.2090, 19.0760, 72.8777)
		assert.InDelta(t, 1150, d, 20)
	})

	t.Run("One degree of latitude roughly 111km", func(t *testing.T) {
		d := Distance(0, 0, 1, 0)
		assert.InDelta(t, 111.19, d, 0.5)
	})
}
