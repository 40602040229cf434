package service

import (
	"context"
	"errors"
	"syllabus-buddy/internal/adapter"
	"syllabus-buddy/internal/cache"
	"syllabus-buddy/internal/domain"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = cache.NewStateKeys(cache.GlobalKeyPrefix)

func persistedLibrary() domain.Library {
	return domain.Library{
		{
			ID:         "01JABCDEF",
			Name:       "calc101.pdf",
			UploadDate: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
			Subjects: []domain.Subject{
				{
					ID:   "01JABCDEF-s0",
					Name: "Calculus",
					Chapters: []domain.Chapter{
						{
							ID:   "01JABCDEF-s0-c0",
							Name: "Limits",
							Topics: []domain.Topic{
								{ID: "01JABCDEF-s0-c0-t0", Name: "Epsilon-Delta", Questions: []domain.Question{}},
								{
									ID:                 "01JABCDEF-s0-c0-t1",
									Name:               "L'Hopital",
									QuestionsGenerated: true,
									Questions: []domain.Question{
										{ID: "topic-01JABCDEF-s0-c0-t1-0", Text: "lim sin(x)/x?", Type: domain.QuestionMultipleChoice, Options: []string{"0", "1"}, Hints: []string{"differentiate"}, Solution: "1"},
										{ID: "topic-01JABCDEF-s0-c0-t1-1", Text: "Explain the rule.", Type: domain.QuestionDescriptive, Hints: []string{}, Solution: "ratio of derivatives"},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func newFileBackedStateStore(t *testing.T) *StateStore {
	t.Helper()
	kv, err := adapter.NewFileStoreAdapter(afero.NewMemMapFs(), "/state")
	require.NoError(t, err)
	return NewStateStore(kv, testKeys)
}

func TestStateStore_LibraryRoundTrip(t *testing.T) {
	store := newFileBackedStateStore(t)
	ctx := context.Background()
	lib := persistedLibrary()

	require.NoError(t, store.SaveLibrary(ctx, lib))
	loaded, ok := store.LoadLibrary(ctx)

	require.True(t, ok)
	assert.Equal(t, lib, loaded)
}

func TestStateStore_EmptyLibraryRoundTripsThroughAbsent(t *testing.T) {
	kv := NewManualMockStore()
	store := NewStateStore(kv, testKeys)
	ctx := context.Background()

	require.NoError(t, store.SaveLibrary(ctx, persistedLibrary()))
	require.NoError(t, store.SaveLibrary(ctx, domain.Library{}))

	_, exists := kv.Raw(testKeys.Library)
	assert.False(t, exists)

	loaded, ok := store.LoadLibrary(ctx)
	assert.False(t, ok)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStateStore_CorruptSlotsAreAbsent(t *testing.T) {
	kv := NewManualMockStore()
	store := NewStateStore(kv, testKeys)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, testKeys.Library, `[{"id": 12`))
	require.NoError(t, kv.Set(ctx, testKeys.History, `{"not":"a list"}`))
	require.NoError(t, kv.Set(ctx, testKeys.Theme, `"sepia"`))
	require.NoError(t, kv.Set(ctx, testKeys.Region, `not json`))

	lib, ok := store.LoadLibrary(ctx)
	assert.False(t, ok)
	assert.Empty(t, lib)

	history, ok := store.LoadHistory(ctx)
	assert.False(t, ok)
	assert.Empty(t, history)

	_, ok = store.LoadTheme(ctx)
	assert.False(t, ok)

	_, ok = store.LoadRegion(ctx)
	assert.False(t, ok)
}

func TestStateStore_ReadFailureIsAbsent(t *testing.T) {
	kv := NewManualMockStore()
	kv.GetErr = errors.New("disk on fire")
	store := NewStateStore(kv, testKeys)

	lib, ok := store.LoadLibrary(context.Background())

	assert.False(t, ok)
	assert.Empty(t, lib)
}

func TestStateStore_HistoryAlwaysPersisted(t *testing.T) {
	kv := NewManualMockStore()
	store := NewStateStore(kv, testKeys)
	ctx := context.Background()

	require.NoError(t, store.SaveHistory(ctx, nil))

	raw, exists := kv.Raw(testKeys.History)
	require.True(t, exists)
	assert.Equal(t, `[]`, raw)

	history, ok := store.LoadHistory(ctx)
	assert.True(t, ok)
	assert.Empty(t, history)
}

func TestStateStore_Preferences(t *testing.T) {
	kv := NewManualMockStore()
	store := NewStateStore(kv, testKeys)
	ctx := context.Background()

	require.NoError(t, store.SaveTheme(ctx, domain.ThemeDark))
	require.NoError(t, store.SaveRegion(ctx, "India"))

	raw, _ := kv.Raw(testKeys.Theme)
	assert.Equal(t, `"dark"`, raw)

	theme, ok := store.LoadTheme(ctx)
	assert.True(t, ok)
	assert.Equal(t, domain.ThemeDark, theme)

	region, ok := store.LoadRegion(ctx)
	assert.True(t, ok)
	assert.Equal(t, "India", region)
}

func TestStateStore_SaveFailure(t *testing.T) {
	kv := NewManualMockStore()
	kv.SetErr = errors.New("read-only filesystem")
	store := NewStateStore(kv, testKeys)

	err := store.SaveHistory(context.Background(), []domain.SessionHistoryEntry{})

	require.Error(t, err)
	assert.Equal(t, domain.ErrInternal, domain.CodeOf(err))
	assert.ErrorIs(t, err, kv.SetErr)
}

func TestStateStore_ClearStudyData(t *testing.T) {
	kv := NewManualMockStore()
	store := NewStateStore(kv, testKeys)
	ctx := context.Background()

	require.NoError(t, store.SaveLibrary(ctx, persistedLibrary()))
	require.NoError(t, store.SaveHistory(ctx, []domain.SessionHistoryEntry{{ID: "h1", TotalQuestions: 1}}))
	require.NoError(t, store.SaveRegion(ctx, "Japan"))

	require.NoError(t, store.ClearStudyData(ctx))

	_, libExists := kv.Raw(testKeys.Library)
	assert.False(t, libExists)
	raw, _ := kv.Raw(testKeys.History)
	assert.Equal(t, `[]`, raw)
	region, _ := kv.Raw(testKeys.Region)
	assert.Equal(t, `"Japan"`, region)
}
