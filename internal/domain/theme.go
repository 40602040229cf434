package domain

// ThemeSetting is the user's chosen theme.
type ThemeSetting string

const (
	ThemeLight  ThemeSetting = "light"
	ThemeDark   ThemeSetting = "dark"
	ThemeSystem ThemeSetting = "system"
)

// IsValid reports whether s is a known theme setting.
func (s ThemeSetting) IsValid() bool {
	switch s {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// DisplayMode is the resolved, exclusive mode the UI renders in.
type DisplayMode string

const (
	DisplayLight DisplayMode = "light"
	DisplayDark  DisplayMode = "dark"
)

// DisplayModeFor maps an OS dark-mode signal to a display mode.
func DisplayModeFor(dark bool) DisplayMode {
	if dark {
		return DisplayDark
	}
	return DisplayLight
}

// Subscription is a handle to an active appearance subscription.
type Subscription interface {
	Unsubscribe()
}

// AppearanceSource is the OS-level dark-mode signal.
type AppearanceSource interface {
	// PrefersDark reports the current OS preference.
	PrefersDark() bool
	// Subscribe calls fn on every change until the returned Subscription is cancelled.
	Subscribe(fn func(dark bool)) Subscription
}
