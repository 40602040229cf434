package service

import (
	"context"
	"strings"
	"sync"
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultTheme  = domain.ThemeSystem
	DefaultRegion = "United States"
)

// DisplayObserver is notified with the resolved display mode whenever it changes.
type DisplayObserver func(mode domain.DisplayMode)

// Preferences is a snapshot of the user's preferences.
type Preferences struct {
	Theme       domain.ThemeSetting `json:"theme"`
	DisplayMode domain.DisplayMode  `json:"displayMode"`
	Region      string              `json:"region"`
}

// PreferenceService holds the theme and region preferences.
// While the theme is "system" it follows the appearance source; any other
// setting cancels that subscription.
type PreferenceService struct {
	mu            sync.Mutex
	store         *StateStore
	appearance    domain.AppearanceSource
	defaultRegion string

	theme   domain.ThemeSetting
	region  string
	display domain.DisplayMode

	sub    domain.Subscription
	subGen uint64

	observers    map[uint64]DisplayObserver
	nextObserver uint64
}

// NewPreferenceService creates a PreferenceService with default preferences. Call Start to load persisted ones.
func NewPreferenceService(store *StateStore, appearance domain.AppearanceSource, defaultRegion string) *PreferenceService {
	if strings.TrimSpace(defaultRegion) == "" {
		defaultRegion = DefaultRegion
	}
	return &PreferenceService{
		store:         store,
		appearance:    appearance,
		defaultRegion: defaultRegion,
		theme:         DefaultTheme,
		region:        defaultRegion,
		display:       domain.DisplayLight,
		observers:     make(map[uint64]DisplayObserver),
	}
}

// Start loads the persisted theme and region, falling back to defaults, and applies the theme.
func (p *PreferenceService) Start(ctx context.Context) {
	theme, ok := p.store.LoadTheme(ctx)
	if !ok {
		theme = DefaultTheme
	}
	region, ok := p.store.LoadRegion(ctx)
	if !ok || strings.TrimSpace(region) == "" {
		region = p.defaultRegion
	}

	p.mu.Lock()
	p.region = region
	notify := p.applyThemeLocked(theme)
	p.mu.Unlock()
	notify()

	logger.Get().Info("Preferences loaded", zap.String("theme", string(theme)), zap.String("region", region))
}

// Close cancels the appearance subscription, if any.
func (p *PreferenceService) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribeLocked()
}

// Preferences returns the current preferences.
func (p *PreferenceService) Preferences() Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Preferences{Theme: p.theme, DisplayMode: p.display, Region: p.region}
}

// DisplayMode returns the resolved display mode.
func (p *PreferenceService) DisplayMode() domain.DisplayMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}

// Region returns the saved region.
func (p *PreferenceService) Region() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.region
}

// SetTheme changes and persists the theme.
func (p *PreferenceService) SetTheme(ctx context.Context, theme domain.ThemeSetting) error {
	if !theme.IsValid() {
		return domain.NewInvalidInputError("unknown theme: " + string(theme))
	}

	p.mu.Lock()
	notify := p.applyThemeLocked(theme)
	err := p.store.SaveTheme(ctx, theme)
	p.mu.Unlock()

	notify()
	return err
}

// SetRegion changes and persists the region.
func (p *PreferenceService) SetRegion(ctx context.Context, region string) error {
	region = strings.TrimSpace(region)
	if region == "" {
		return domain.NewInvalidInputError("region is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.region = region
	return p.store.SaveRegion(ctx, region)
}

// Observe registers fn for display mode changes. The returned func removes it.
func (p *PreferenceService) Observe(fn DisplayObserver) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextObserver
	p.nextObserver++
	p.observers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
		})
	}
}

// applyThemeLocked sets theme, adjusts the subscription and re-resolves the display mode.
// The returned func notifies observers and must be called after unlocking.
func (p *PreferenceService) applyThemeLocked(theme domain.ThemeSetting) func() {
	p.theme = theme

	var mode domain.DisplayMode
	switch theme {
	case domain.ThemeSystem:
		if p.sub == nil {
			p.subGen++
			gen := p.subGen
			p.sub = p.appearance.Subscribe(func(dark bool) {
				p.onAppearanceChange(gen, dark)
			})
		}
		mode = domain.DisplayModeFor(p.appearance.PrefersDark())
	case domain.ThemeDark:
		p.unsubscribeLocked()
		mode = domain.DisplayDark
	default:
		p.unsubscribeLocked()
		mode = domain.DisplayLight
	}
	return p.setDisplayLocked(mode)
}

func (p *PreferenceService) unsubscribeLocked() {
	if p.sub == nil {
		return
	}
	p.sub.Unsubscribe()
	p.sub = nil
	p.subGen++
}

func (p *PreferenceService) onAppearanceChange(gen uint64, dark bool) {
	p.mu.Lock()
	// A callback from a cancelled subscription may still be in flight.
	if gen != p.subGen || p.theme != domain.ThemeSystem {
		p.mu.Unlock()
		return
	}
	notify := p.setDisplayLocked(domain.DisplayModeFor(dark))
	p.mu.Unlock()

	logger.Get().Debug("OS appearance changed", zap.Bool("dark", dark))
	notify()
}

func (p *PreferenceService) setDisplayLocked(mode domain.DisplayMode) func() {
	if p.display == mode {
		return func() {}
	}
	p.display = mode
	observers := make([]DisplayObserver, 0, len(p.observers))
	for _, fn := range p.observers {
		observers = append(observers, fn)
	}
	return func() {
		for _, fn := range observers {
			fn(mode)
		}
	}
}
