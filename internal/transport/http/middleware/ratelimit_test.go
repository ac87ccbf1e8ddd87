package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiterBurstPerKey(t *testing.T) {
	l := NewKeyedLimiter(0.001, 2)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestNilKeyedLimiterAllowsEverything(t *testing.T) {
	l := NewKeyedLimiter(0, 5)
	assert.Nil(t, l)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("x"))
	}
}
