package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "settings/pm.yaml")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Read(ctx, "settings/pm.yaml")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Write(ctx, "settings/pm.yaml", []byte("workspace_name: Nova PM\n")))
	require.NoError(t, s.Write(ctx, "settings/qa.yaml", []byte("default_severity: HIGH\n")))

	data, err := s.Read(ctx, "settings/pm.yaml")
	require.NoError(t, err)
	assert.Equal(t, "workspace_name: Nova PM\n", string(data))

	paths, err := s.List(ctx, "settings")
	require.NoError(t, err)
	assert.Equal(t, []string{"settings/pm.yaml", "settings/qa.yaml"}, paths)
}

func TestLocalStorageListMissingPrefix(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	paths, err := s.List(context.Background(), "testruns")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLocalStorageStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.yaml", []byte("x")))
	ok, err := s.Exists(ctx, "escape.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
}
