package appearance

// ManualSource is an appearance signal pushed by the client, e.g. a browser
// relaying prefers-color-scheme changes.
type ManualSource struct {
	*broadcaster
}

func NewManualSource(prefersDark bool) *ManualSource {
	return &ManualSource{broadcaster: newBroadcaster(prefersDark)}
}

// SetPrefersDark records the OS preference and notifies subscribers on change.
func (m *ManualSource) SetPrefersDark(dark bool) {
	m.set(dark)
}

// Subscribers reports the number of active subscriptions.
func (m *ManualSource) Subscribers() int {
	return m.subscribers()
}
