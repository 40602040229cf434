package service

import (
	"context"
	"errors"
	"sync"
	"syllabus-buddy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockClassifier ---
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, doc domain.Document) ([]domain.ClassifiedSubject, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassifiedSubject), args.Error(1)
}

// --- MockGenerator ---
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateQuestions(ctx context.Context, topicName, level, region string) ([]domain.GeneratedQuestion, error) {
	args := m.Called(ctx, topicName, level, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedQuestion), args.Error(1)
}

// ManualMockStore is a domain.KeyValueStore backed by a map, with injectable failures.
type ManualMockStore struct {
	mu       sync.Mutex
	data     map[string]string
	GetErr   error
	SetErr   error
	PingFunc func(ctx context.Context) error
}

func NewManualMockStore() *ManualMockStore {
	return &ManualMockStore{data: make(map[string]string)}
}

func (m *ManualMockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (m *ManualMockStore) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

func (m *ManualMockStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *ManualMockStore) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return errors.New("PingFunc not set")
}

// Raw returns the stored value and whether the key exists.
func (m *ManualMockStore) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
