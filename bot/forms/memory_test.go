package forms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(userID int64, formID string) *State {
	now := time.Now()
	return &State{
		FormID:           formID,
		UserID:           userID,
		ChatID:           userID,
		CurrentStepIndex: 1,
		Steps: []StepState{
			{
				StepID:     "contact",
				Data:       Data{"email": TextValue("a@b.co")},
				IsValid:    true,
				IsComplete: true,
				VisitedAt:  now,
			},
			{StepID: "job", Data: Data{}, VisitedAt: now},
		},
		AllData:       Data{"email": TextValue("a@b.co")},
		StartedAt:     now,
		LastUpdatedAt: now,
	}
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	st := sampleState(7, "intake")
	require.NoError(t, store.Save(ctx, st))

	loaded, err := store.Load(ctx, 7, "intake")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, st, loaded)

	missing, err := store.Load(ctx, 7, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStorageIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	st := sampleState(7, "intake")
	require.NoError(t, store.Save(ctx, st))

	// Mutating the saved value must not leak into the store.
	st.AllData["email"] = TextValue("hacked@example.com")
	loaded, err := store.Load(ctx, 7, "intake")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", loaded.AllData.GetText("email"))

	// Mutating a loaded value must not leak either.
	loaded.Steps[0].Data["email"] = TextValue("other@example.com")
	again, err := store.Load(ctx, 7, "intake")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", again.Steps[0].Data.GetText("email"))
}

func TestMemoryStorageDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.Save(ctx, sampleState(7, "intake")))
	require.NoError(t, store.Delete(ctx, 7, "intake"))

	loaded, err := store.Load(ctx, 7, "intake")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting a missing session is a no-op.
	assert.NoError(t, store.Delete(ctx, 7, "intake"))
}

func TestMemoryStorageClearIsScoped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	require.NoError(t, store.Save(ctx, sampleState(7, "intake")))
	require.NoError(t, store.Save(ctx, sampleState(7, "leave")))
	require.NoError(t, store.Save(ctx, sampleState(8, "intake")))

	require.NoError(t, store.Clear(ctx, 7))

	assert.Equal(t, 1, store.Len())
	loaded, err := store.Load(ctx, 8, "intake")
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestMemoryStorageAllActive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	active := sampleState(7, "intake")
	done := sampleState(7, "leave")
	done.IsComplete = true
	other := sampleState(8, "intake")

	require.NoError(t, store.Save(ctx, active))
	require.NoError(t, store.Save(ctx, done))
	require.NoError(t, store.Save(ctx, other))

	states, err := store.AllActive(ctx, 7)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "intake", states[0].FormID)
}
