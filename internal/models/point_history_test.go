package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	kind, err := ParseTransactionType("USE")
	require.NoError(t, err)
	assert.Equal(t, Use, kind)

	_, err = ParseTransactionType("use")
	assert.Error(t, err)
}

func TestPointHistory_Signed(t *testing.T) {
	assert.Equal(t, int64(30), PointHistory{Amount: 30, Type: Charge}.Signed())
	assert.Equal(t, int64(-30), PointHistory{Amount: 30, Type: Use}.Signed())
}
