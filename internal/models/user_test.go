package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"customer", RoleCustomer, true},
		{"Customer", RoleCustomer, true},
		{"Service Provider", RoleProvider, true},
		{"provider", RoleProvider, true},
		{" admin ", RoleAdmin, true},
		{"owner", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
