package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ann Lee", User{ID: "u1", FirstName: "Ann", LastName: "Lee"}.DisplayName())
	assert.Equal(t, "Ann", User{ID: "u1", FirstName: "Ann"}.DisplayName())
	assert.Equal(t, "Lee", User{ID: "u1", LastName: "Lee"}.DisplayName())
	assert.Equal(t, "u1", User{ID: "u1"}.DisplayName())
}
