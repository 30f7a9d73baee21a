package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/nova/pkg/adapters/memory"
	"github.com/aretw0/nova/pkg/domain"
	"github.com/aretw0/nova/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_LoadedStateIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := domain.NewState()
	state.CurrentStep = domain.StepEngagement
	state.Push(domain.StepIntro)
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	loaded.Push(domain.StepEngagement)

	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []domain.StepName{domain.StepIntro}, again.History)
}

func TestMemoryStore_ListSorted(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, id, domain.NewState()))
	}

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
