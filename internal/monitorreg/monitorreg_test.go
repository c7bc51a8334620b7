package monitorreg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vel5id/vigil/internal/monitorreg"
)

func TestNewReturnsUsableRegistry(t *testing.T) {
	r := monitorreg.New()
	assert.NotNil(t, r)
}

func TestGetByIDRejectsNegativeAndOutOfRangeIDs(t *testing.T) {
	r := monitorreg.New()

	_, ok := r.GetByID(monitorreg.ID(-1))
	assert.False(t, ok, "negative ids are never valid regardless of how many displays are active")

	n := len(r.All())
	_, ok = r.GetByID(monitorreg.ID(n + 1000))
	assert.False(t, ok, "an id far past the active display count must not resolve")
}

func TestAllReturnsOneHandlePerActiveDisplay(t *testing.T) {
	r := monitorreg.New()
	handles := r.All()
	for i, h := range handles {
		assert.Equal(t, monitorreg.ID(i), h.ID)
	}
}
