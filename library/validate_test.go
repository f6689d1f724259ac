package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNewBookInput(t *testing.T) {
	require.NoError(t, ValidateInput(NewBookInput{
		ISBN:   "978-0132350884",
		Title:  "Clean Code",
		Author: "Robert C. Martin",
	}))

	require.NoError(t, ValidateInput(NewBookInput{
		ISBN:        "978-0132350884",
		Title:       "Clean Code",
		Author:      "Robert C. Martin",
		PublishedOn: "2008-08-01",
	}))

	err := ValidateInput(NewBookInput{Title: "Clean Code"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isbn is required")
	assert.Contains(t, err.Error(), "author is required")

	err = ValidateInput(NewBookInput{ISBN: "x", Title: "y", Author: "z", PublishedOn: "01/02/2008"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestValidateNewMemberInput(t *testing.T) {
	require.NoError(t, ValidateInput(NewMemberInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Tier:     "regular",
		Password: "pw",
	}))

	err := ValidateInput(NewMemberInput{Name: "Alice", Email: "not-an-email", Tier: "regular", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid email")

	err = ValidateInput(NewMemberInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
