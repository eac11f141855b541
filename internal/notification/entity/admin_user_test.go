package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user AdminUser
		want string
	}{
		{name: "full name", user: AdminUser{FirstName: "Ada", LastName: "Lovelace", Username: "ada"}, want: "Ada Lovelace"},
		{name: "first name only", user: AdminUser{FirstName: "Ada"}, want: "Ada"},
		{name: "username", user: AdminUser{Username: "sylius", Email: "sylius@example.com"}, want: "sylius"},
		{name: "email", user: AdminUser{Email: " sylius@example.com "}, want: "sylius@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}
