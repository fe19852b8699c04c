package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type climberForm struct {
	Name        string  `json:"name" validate:"min=2,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()
	dob := "01/02/1990"

	err := v.Struct(climberForm{Name: "A", Email: "not-an-email", DateOfBirth: &dob})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	fields, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, []FieldError{
		{Field: "name", Message: "must be at least 2 characters"},
		{Field: "email", Message: "must be a valid email address"},
		{Field: "dateOfBirth", Message: "must be a date in YYYY-MM-DD format"},
	}, fields)
}

func TestValidator_Struct_Valid(t *testing.T) {
	v := New()
	dob := "1990-02-01"

	assert.NoError(t, v.Struct(climberForm{Name: "Asha", Email: "asha@example.com", DateOfBirth: &dob}))
	assert.NoError(t, v.Struct(climberForm{Name: "Asha", Email: "asha@example.com"}))
}

func TestFields_NotValidationError(t *testing.T) {
	_, ok := Fields(errors.New("boom"))
	assert.False(t, ok)
}

func TestValidator_Var(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("email", "asha@example.com", "email"))

	err := v.Var("emails[2]", "asha", "email")
	fields, ok := Fields(err)
	require.True(t, ok)
	assert.Equal(t, []FieldError{{Field: "emails[2]", Message: "must be a valid email address"}}, fields)
}
