package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-07-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("01/07/2021")
	assert.EqualError(t, err, "error.date_invalid")
}

func TestValidateUploadName(t *testing.T) {
	assert.NoError(t, ValidateUploadName("day.CSV"))
	assert.EqualError(t, ValidateUploadName(""), "error.upload_required")
	assert.EqualError(t, ValidateUploadName("day.xlsx"), "error.upload_not_csv")
}

func TestValidateStruct(t *testing.T) {
	type row struct {
		Weather int `validate:"min=1,max=4"`
	}
	assert.NoError(t, ValidateStruct(row{Weather: 2}))
	assert.Error(t, ValidateStruct(row{Weather: 5}))
}
