package callback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/callbackd/pkg/state"
)

func TestStaticSecretCheck(t *testing.T) {
	t.Parallel()

	t.Run("matches the configured secret", func(t *testing.T) {
		t.Parallel()

		check := NewStaticSecretCheck("424242")
		assert.True(t, check.Valid("424242"))
		assert.False(t, check.Valid("424243"))
		assert.False(t, check.Valid(""))
	})

	t.Run("unset secret matches nothing", func(t *testing.T) {
		t.Parallel()

		check := NewStaticSecretCheck("")
		assert.False(t, check.Valid(""))
		assert.False(t, check.Valid("anything"))
	})
}

func TestSingleUseCheck(t *testing.T) {
	t.Parallel()

	t.Run("passes vacuously while store is empty", func(t *testing.T) {
		t.Parallel()

		check := NewSingleUseCheck(state.NewMemoryStore())
		ok, known, err := check.Check(context.Background(), "424242")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, known)
	})

	t.Run("accepts an existing unused record", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

		check := NewSingleUseCheck(store)
		ok, known, err := check.Check(context.Background(), "555111")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, known)
	})

	t.Run("rejects an unknown state once bootstrapped", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111"}))

		check := NewSingleUseCheck(store)
		ok, _, err := check.Check(context.Background(), "999999")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects a consumed record", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		require.NoError(t, store.Put(context.Background(), &state.Record{ID: "555111", Used: true}))

		check := NewSingleUseCheck(store)
		ok, _, err := check.Check(context.Background(), "555111")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
