package timezone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("America/Sao_Paulo"))
	assert.True(t, IsValid("UTC"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Marte/Olympus"))
}

func TestResolve_FirstValidWins(t *testing.T) {
	assert.Equal(t, "America/Manaus", Resolve("", "invalido", "America/Manaus", "UTC").String())
	assert.Equal(t, DefaultTimezone, Resolve("", "x").String())
}
