package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudentID(t *testing.T) {
	id := NewStudentID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewStudentID())
}

func TestNewInvocationID(t *testing.T) {
	id := NewInvocationID()
	assert.Len(t, id, 8)
	assert.NotContains(t, id, "-")
}
