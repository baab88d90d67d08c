package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "status %q", s)
	}

	assert.False(t, Status("Bogus").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("applied").IsValid(), "status matching is case-sensitive")
}
