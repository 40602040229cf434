package util

// IntnFunc returns a uniformly distributed int in [0, n).
type IntnFunc func(n int) int

// Shuffle permutes items in place with an unbiased Fisher–Yates pass driven by intn.
func Shuffle[T any](items []T, intn IntnFunc) {
	for i := len(items) - 1; i > 0; i-- {
		j := intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
