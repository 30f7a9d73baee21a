package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/nova/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState()
		state.CurrentStep = domain.StepEngagement
		state.Push(domain.StepIntro)
		state.HasEngaged = true
		state.Open = true

		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StepEngagement, loaded.CurrentStep)
		assert.Equal(t, []domain.StepName{domain.StepIntro}, loaded.History)
		assert.True(t, loaded.HasEngaged)
		assert.True(t, loaded.Open)
	})

	t.Run("Saved State Is Isolated", func(t *testing.T) {
		state := domain.NewState()
		state.CurrentStep = domain.StepIntro
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.Push(domain.StepFeedback)
		state.CurrentStep = domain.StepFeedback

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StepIntro, loaded.CurrentStep)
		assert.Empty(t, loaded.History)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewState()))
		require.NoError(t, store.Delete(ctx, sessionID))

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, domain.NewState()))
		require.NoError(t, store.Save(ctx, id2, domain.NewState()))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
