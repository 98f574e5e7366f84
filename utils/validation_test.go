package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+15551234567"))
	assert.True(t, ValidatePhone("555-123-4567"))
	assert.True(t, ValidatePhone("(555) 123 4567"))
	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("not a phone"))
	assert.False(t, ValidatePhone("0123"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "15551234567", NormalizePhone("+1 (555) 123-4567"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestMakePortalKeyFromPhone(t *testing.T) {
	// Digits rotate around the midpoint, so the key is stable per phone but
	// not trivially the phone itself.
	assert.Equal(t, "pk_3456755512", MakePortalKeyFromPhone("555-123-4567"))
	assert.Equal(t, "", MakePortalKeyFromPhone(""))

	// Same phone in different formats yields the same key.
	a := MakePortalKeyFromPhone("(555) 123-4567")
	b := MakePortalKeyFromPhone("5551234567")
	assert.Equal(t, a, b)
}
