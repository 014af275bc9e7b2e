package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*Store, string) {
	path := filepath.Join(t.TempDir(), "kv.sqlite")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestGetMissing(t *testing.T) {
	s, _ := openStore(t)
	defer s.Close()
	v, found, err := s.Get(context.Background(), "photoLocations")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestSetOverwritesAndPersists(t *testing.T) {
	ctx := context.Background()
	s, path := openStore(t)
	require.NoError(t, s.Set(ctx, "photoLocations", []byte(`[{"id":"p1"}]`)))
	require.NoError(t, s.Set(ctx, "photoLocations", []byte(`[{"id":"p2"}]`)))
	require.NoError(t, s.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, found, err := s.Get(ctx, "photoLocations")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"p2"}]`, string(v))
}

func TestEmptyValueIsFound(t *testing.T) {
	ctx := context.Background()
	s, _ := openStore(t)
	defer s.Close()
	require.NoError(t, s.Set(ctx, "k", nil))
	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, v)
}
