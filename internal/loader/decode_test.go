package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSubjects(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "D"}, DecodeSubjects("ABD"))
	assert.Equal(t, []string{"A", "B"}, DecodeSubjects(" A B A "))
	assert.Equal(t, []string{"Math", "Art"}, DecodeSubjects("Math, Art,"))
	assert.Nil(t, DecodeSubjects("  "))
}

func TestDecodeSlots(t *testing.T) {
	slots, err := DecodeSlots("135")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "5"}, slots)

	slots, err = DecodeSlots("10, 11")
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11"}, slots)

	slots, err = DecodeSlots("")
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = DecodeSlots("1a")
	assert.Error(t, err)
}
