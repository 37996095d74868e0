package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createForm struct {
	Title    string `json:"title" validate:"required"`
	Category string `json:"category" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Note     string `json:"note"`
}

func TestMissingFieldsUsesJSONNamesInOrder(t *testing.T) {
	err := Validate(createForm{Category: "tech"})
	require.Error(t, err)

	assert.Equal(t, []string{"title", "date"}, MissingFields(err))
}

func TestMissingFieldsEmptyOnValidStruct(t *testing.T) {
	err := Validate(createForm{Title: "Fest", Category: "campus", Date: "2026-09-01"})
	assert.NoError(t, err)
	assert.Nil(t, MissingFields(err))
}

func TestMissingFieldsIgnoresForeignErrors(t *testing.T) {
	assert.Nil(t, MissingFields(errors.New("boom")))
}

func TestMessageNamesFirstFailure(t *testing.T) {
	err := Validate(createForm{})
	require.Error(t, err)
	assert.Equal(t, ErrFieldRequired+": title", Message(err))

	assert.Equal(t, ErrUnknownValidation, Message(errors.New("boom")))
}
