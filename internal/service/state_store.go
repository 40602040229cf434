package service

import (
	"context"
	"encoding/json"
	"errors"
	"syllabus-buddy/internal/cache"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/logger"

	"go.uber.org/zap"
)

// StateStore persists the four state slots as independent JSON values.
// Loads never fail: unreadable or corrupt slots are logged and reported as absent.
type StateStore struct {
	store domain.KeyValueStore
	keys  cache.StateKeys
}

// NewStateStore creates a StateStore over store using keys.
func NewStateStore(store domain.KeyValueStore, keys cache.StateKeys) *StateStore {
	return &StateStore{store: store, keys: keys}
}

// Keys returns the keys of the persisted slots.
func (s *StateStore) Keys() cache.StateKeys {
	return s.keys
}

func loadJSON[T any](ctx context.Context, store domain.KeyValueStore, key string) (T, bool) {
	var zero T
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			logger.Get().Warn("Failed to read persisted state, treating as absent", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		logger.Get().Warn("Persisted state is corrupt, treating as absent", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

func saveJSON(ctx context.Context, store domain.KeyValueStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Get().Error("Failed to marshal state", zap.String("key", key), zap.Error(err))
		return domain.NewInternalError("failed to marshal state for "+key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		logger.Get().Error("Failed to persist state", zap.String("key", key), zap.Error(err))
		return domain.NewInternalError("failed to persist state for "+key, err)
	}
	return nil
}

func (s *StateStore) clear(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Get().Error("Failed to clear persisted state", zap.String("key", key), zap.Error(err))
		return domain.NewInternalError("failed to clear state for "+key, err)
	}
	return nil
}

// LoadLibrary returns the stored library. An absent or corrupt slot yields an empty library.
func (s *StateStore) LoadLibrary(ctx context.Context) (domain.Library, bool) {
	lib, ok := loadJSON[domain.Library](ctx, s.store, s.keys.Library)
	if !ok || lib == nil {
		return domain.Library{}, false
	}
	return lib, true
}

// SaveLibrary stores lib, or removes the slot when lib is empty.
func (s *StateStore) SaveLibrary(ctx context.Context, lib domain.Library) error {
	if len(lib) == 0 {
		return s.clear(ctx, s.keys.Library)
	}
	return saveJSON(ctx, s.store, s.keys.Library, lib)
}

// LoadHistory returns the stored history, newest first.
func (s *StateStore) LoadHistory(ctx context.Context) ([]domain.SessionHistoryEntry, bool) {
	history, ok := loadJSON[[]domain.SessionHistoryEntry](ctx, s.store, s.keys.History)
	if !ok || history == nil {
		return []domain.SessionHistoryEntry{}, ok
	}
	return history, true
}

// SaveHistory stores history, including an empty list.
func (s *StateStore) SaveHistory(ctx context.Context, history []domain.SessionHistoryEntry) error {
	if history == nil {
		history = []domain.SessionHistoryEntry{}
	}
	return saveJSON(ctx, s.store, s.keys.History, history)
}

// LoadTheme returns the stored theme. Unknown values count as corrupt.
func (s *StateStore) LoadTheme(ctx context.Context) (domain.ThemeSetting, bool) {
	theme, ok := loadJSON[domain.ThemeSetting](ctx, s.store, s.keys.Theme)
	if !ok {
		return "", false
	}
	if !theme.IsValid() {
		logger.Get().Warn("Persisted theme is not a known setting, treating as absent", zap.String("theme", string(theme)))
		return "", false
	}
	return theme, true
}

func (s *StateStore) SaveTheme(ctx context.Context, theme domain.ThemeSetting) error {
	return saveJSON(ctx, s.store, s.keys.Theme, theme)
}

func (s *StateStore) LoadRegion(ctx context.Context) (string, bool) {
	return loadJSON[string](ctx, s.store, s.keys.Region)
}

func (s *StateStore) SaveRegion(ctx context.Context, region string) error {
	return saveJSON(ctx, s.store, s.keys.Region, region)
}

// ClearStudyData removes the library slot and stores an empty history. Preferences are kept.
func (s *StateStore) ClearStudyData(ctx context.Context) error {
	return errors.Join(
		s.SaveLibrary(ctx, nil),
		s.SaveHistory(ctx, nil),
	)
}

// Ping checks the backing store.
func (s *StateStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
