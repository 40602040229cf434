// Package appearance provides OS dark-mode signal sources.
package appearance

import (
	"sync"
	"syllabus-buddy/internal/domain"
)

// broadcaster tracks the current preference and its subscribers.
// Callbacks run outside the lock so they may call back into the source.
type broadcaster struct {
	mu   sync.Mutex
	dark bool
	subs map[uint64]func(bool)
	next uint64
}

func newBroadcaster(dark bool) *broadcaster {
	return &broadcaster{dark: dark, subs: make(map[uint64]func(bool))}
}

func (b *broadcaster) PrefersDark() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dark
}

func (b *broadcaster) Subscribe(fn func(dark bool)) domain.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return &subscription{b: b, id: id}
}

// set stores dark and notifies subscribers when it changed.
func (b *broadcaster) set(dark bool) {
	b.mu.Lock()
	if b.dark == dark {
		b.mu.Unlock()
		return
	}
	b.dark = dark
	fns := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

func (b *broadcaster) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

type subscription struct {
	b    *broadcaster
	id   uint64
	once sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.b.mu.Lock()
		delete(s.b.subs, s.id)
		s.b.mu.Unlock()
	})
}
