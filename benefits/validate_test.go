package benefits_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/benefits-engine/benefits"
)

func TestValidateEmployee_Valid(t *testing.T) {
	assert.NoError(t, benefits.ValidateEmployee(benefits.Employee{Name: "Alice"}))
	assert.NoError(t, benefits.ValidateEmployee(employee("Bob", "Carl")))
}

func TestValidateEmployee_BlankNames(t *testing.T) {
	// GIVEN: A blank employee name and a blank second dependent
	e := benefits.Employee{
		Name: "   ",
		Dependents: []benefits.Dependent{
			{Name: "Carl"},
			{Name: ""},
		},
	}

	// WHEN: Validating
	err := benefits.ValidateEmployee(e)

	// THEN: Both fields are reported, by JSON path
	require.Error(t, err)
	assert.ErrorIs(t, err, benefits.ErrInvalidEmployee)
	assert.True(t, benefits.IsClientError(err))

	var verr *benefits.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []benefits.FieldError{
		{Field: "name", Rule: "notblank"},
		{Field: "dependents[1].name", Rule: "notblank"},
	}, verr.Fields)
}
