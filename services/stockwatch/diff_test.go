package stockwatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func set(skus ...string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, sku := range skus {
		out[sku] = struct{}{}
	}
	return out
}

func TestDiff(t *testing.T) {
	testCases := []struct {
		name     string
		universe []string
		failed   map[string]struct{}
		previous map[string]struct{}
		current  map[string]struct{}
		expected []Change
	}{
		{
			name:     "mixed transitions",
			universe: []string{"A", "B", "C", "D"},
			failed:   set(),
			previous: set("A", "B"),
			current:  set("B", "C"),
			expected: []Change{
				{Sku: "A", Transition: TransitionRestocked},
				{Sku: "B", Transition: TransitionStillOutOfStock},
				{Sku: "C", Transition: TransitionNewlyOutOfStock},
			},
		},
		{
			name:     "first run is never still out of stock",
			universe: []string{"X", "Y"},
			failed:   set(),
			previous: set(),
			current:  set("X"),
			expected: []Change{
				{Sku: "X", Transition: TransitionNewlyOutOfStock},
			},
		},
		{
			name:     "failed probes are not classified",
			universe: []string{"A", "B"},
			failed:   set("A"),
			previous: set("A"),
			current:  set("B"),
			expected: []Change{
				{Sku: "B", Transition: TransitionNewlyOutOfStock},
			},
		},
		{
			name:     "in stock both runs is omitted",
			universe: []string{"A"},
			failed:   set(),
			previous: set(),
			current:  set(),
			expected: nil,
		},
		{
			name:     "previous skus no longer tracked are ignored",
			universe: []string{"B"},
			failed:   set(),
			previous: set("A", "B"),
			current:  set("B"),
			expected: []Change{
				{Sku: "B", Transition: TransitionStillOutOfStock},
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			changes := Diff(test.universe, test.failed, test.previous, test.current)
			require.Equal(t, test.expected, changes)
		})
	}
}

func TestDiffIdempotence(t *testing.T) {
	universe := []string{"A", "B", "C"}
	current := set("B", "C")

	// a second run with no real-world change only reports still-out
	changes := Diff(universe, set(), current, current)
	for _, change := range changes {
		require.Equal(t, TransitionStillOutOfStock, change.Transition)
	}
	require.Len(t, changes, 2)
}

func TestDiffPreservesInputOrder(t *testing.T) {
	universe := []string{"Z", "M", "A"}
	changes := Diff(universe, set(), set(), set("A", "M", "Z"))

	require.Equal(t, "Z", changes[0].Sku)
	require.Equal(t, "M", changes[1].Sku)
	require.Equal(t, "A", changes[2].Sku)
}
