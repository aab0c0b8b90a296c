package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/apperr"
)

type signup struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    string  `json:"phone" binding:"required,number,min=10,max=11"`
	Password *string `json:"password" binding:"omitnil,min=6"`
	Quantity int     `json:"quantity" binding:"min=0"`
	Internal string  `json:"-" binding:"required"`
}

func strPtr(s string) *string { return &s }

func TestValidateStructAccepts(t *testing.T) {
	assert.NoError(t, ValidateStruct(signup{Phone: "0123456789", Internal: "x"}))
	assert.NoError(t, ValidateStruct(signup{Email: strPtr(""), Phone: "01234567890", Internal: "x"}))
	assert.NoError(t, ValidateStruct(&signup{Email: strPtr("a@b.co"), Phone: "0123456789", Password: strPtr("secret1"), Internal: "x"}))
}

func TestValidateStructMessages(t *testing.T) {
	tests := []struct {
		name string
		in   signup
		want string
	}{
		{"missing phone", signup{Internal: "x"}, "phone is required"},
		{"letters in phone", signup{Phone: "01234abcde", Internal: "x"}, "phone must contain only digits"},
		{"short phone", signup{Phone: "012345", Internal: "x"}, "phone must contain at least 10 characters"},
		{"long phone", signup{Phone: "012345678901", Internal: "x"}, "phone must contain at most 11 characters"},
		{"bad email", signup{Email: strPtr("nope"), Phone: "0123456789", Internal: "x"}, "email is not valid"},
		{"empty password", signup{Phone: "0123456789", Password: strPtr(""), Internal: "x"}, "password must contain at least 6 characters"},
		{"negative quantity", signup{Phone: "0123456789", Quantity: -1, Internal: "x"}, "quantity must be at least 0"},
		{"field without json name", signup{Phone: "0123456789"}, "Internal is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			require.Error(t, err)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateStructJoinsFieldErrors(t *testing.T) {
	err := ValidateStruct(signup{Email: strPtr("nope"), Phone: "12"})
	require.Error(t, err)
	assert.Equal(t, "email is not valid; phone must contain at least 10 characters; Internal is required", err.Error())
}

func TestValidationErrorPassesOtherErrors(t *testing.T) {
	other := errors.New("boom")
	assert.Same(t, other, ValidationError(other))
	assert.NoError(t, ValidationError(nil))
}
