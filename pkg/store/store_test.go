package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", s.Get(KeyPCName))

	require.NoError(t, s.Set(KeyPCName, "POSTE-ATELIER"))
	assert.Equal(t, "POSTE-ATELIER", s.Get(KeyPCName))

	require.NoError(t, s.Set(KeyLastFilter, "stock"))
	assert.Equal(t, "stock", s.Get(KeyLastFilter))

	// Empty value clears the key.
	require.NoError(t, s.Set(KeyPCName, "  "))
	assert.Equal(t, "", s.Get(KeyPCName))

	require.NoError(t, s.Delete("missing"))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
