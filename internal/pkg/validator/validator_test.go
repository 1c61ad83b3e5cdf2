package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City string `json:"city" validate:"required"`
}

type sample struct {
	Email   string  `json:"email" validate:"required,email"`
	Role    string  `json:"role" validate:"omitempty,oneof=candidate facility"`
	Address address `json:"address"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Email: "nope", Role: "admin"})
	require.Error(t, err)

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)

	fields := map[string]string{}
	for _, f := range fe {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be one of: candidate facility", fields["role"])
	assert.Equal(t, "is required", fields["address.city"])
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.co", Address: address{City: "Leeds"}}))
}
