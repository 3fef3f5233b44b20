package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebox/pkg/adapters/memory"
	"github.com/aretw0/notebox/pkg/core"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStorage()
	require.NoError(t, s.Initialize(ctx))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrNotFound)

	payload := []byte("v1")
	require.NoError(t, s.Set(ctx, "k", payload))
	payload[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got), "Set must copy its input")

	got[0] = 'y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(again), "Get must return a copy")

	require.NoError(t, s.Set(ctx, "b", nil))
	assert.Equal(t, map[string]any{"keys": []string{"b", "k"}}, s.State())
	assert.Equal(t, "memory-storage", s.ComponentType())
}
