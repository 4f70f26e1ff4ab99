package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"user", "User"},
		{"created_at", "CreatedAt"},
		{"author_id", "AuthorId"},
		{"API_key", "APIKey"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pascal(tt.in), "Pascal(%q)", tt.in)
	}
}

func TestSnake(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"UserGroup", "user_group"},
		{"already_snake", "already_snake"},
		{"HTTPServer", "h_t_t_p_server"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snake(tt.in), "Snake(%q)", tt.in)
	}
}

func TestPluralize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"user", "users"},
		{"bus", "buses"},
		{"dish", "dishes"},
		{"match", "matches"},
		{"box", "boxes"},
		{"quiz", "quizes"},
		{"company", "companies"},
		{"day", "days"},
		{"key", "keys"},
		{"boy", "boys"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pluralize(tt.in), "Pluralize(%q)", tt.in)
	}
}
