package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice@acme.com", NormalizeEmail("  Alice@Acme.COM "))
	assert.Equal(t, "bob@x.com", NormalizeEmail("bob@x.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
	assert.Equal(t, "", NormalizeEmail(""))
}

func TestContactActive(t *testing.T) {
	t.Parallel()

	assert.True(t, Contact{Status: "Active"}.Active())
	assert.True(t, Contact{Status: ""}.Active())
	assert.False(t, Contact{Status: ContactStatusLeft}.Active())
}
