package cache

import "strings"

const (
	GlobalKeyPrefix = "syllabus-buddy"
	stateNamespace  = "state"
)

// Persisted state slots. Each is stored as an independent JSON value.
const (
	SlotLibrary = "library"
	SlotHistory = "history"
	SlotTheme   = "theme"
	SlotRegion  = "region"
)

// GenerateCacheKey joins prefix and parts with ":". An empty prefix falls back to GlobalKeyPrefix.
func GenerateCacheKey(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = GlobalKeyPrefix
	}
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// StateKeys resolves the storage keys of the persisted state slots.
type StateKeys struct {
	Library string
	History string
	Theme   string
	Region  string
}

// NewStateKeys builds the state keys under prefix.
func NewStateKeys(prefix string) StateKeys {
	return StateKeys{
		Library: GenerateCacheKey(prefix, stateNamespace, SlotLibrary),
		History: GenerateCacheKey(prefix, stateNamespace, SlotHistory),
		Theme:   GenerateCacheKey(prefix, stateNamespace, SlotTheme),
		Region:  GenerateCacheKey(prefix, stateNamespace, SlotRegion),
	}
}

// All returns every state key in a stable order.
func (k StateKeys) All() []string {
	return []string{k.Library, k.History, k.Theme, k.Region}
}
