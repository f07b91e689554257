// Package registry holds the static channel manifest table. A manifest
// describes how a channel type is presented: label, icon, accent color and
// the default config used when the channel is created. Manifests are
// compile-time data, registered at init and immutable afterwards.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Type identifies a channel type. The set of valid types is closed;
// anything outside it is rejected at registration and by Parse.
type Type string

const (
	Finance Type = "finance"
	Sports  Type = "sports"
	RSS     Type = "rss"
	Fantasy Type = "fantasy"
)

// validTypes is the closed enum Parse and Register validate against.
var validTypes = map[Type]struct{}{
	Finance: {},
	Sports:  {},
	RSS:     {},
	Fantasy: {},
}

// QuickStartSet is the recommended starter set created by quick start.
var QuickStartSet = []Type{Finance, Sports, RSS}

// Manifest describes how a channel type is rendered.
type Manifest struct {
	Type          Type
	Label         string
	Icon          string
	Color         string // ANSI 256 color for tabs and table accents
	Description   string
	DefaultConfig map[string]interface{}
}

var (
	mu        sync.RWMutex
	manifests = map[Type]Manifest{}
	order     []Type
)

// Register adds a manifest to the registry. Registration happens at init
// with compile-time data, so invalid input is a programming error and panics.
func Register(m Manifest) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := validTypes[m.Type]; !ok {
		panic(fmt.Sprintf("registry: unknown channel type %q", m.Type))
	}
	if _, ok := manifests[m.Type]; ok {
		panic(fmt.Sprintf("registry: duplicate manifest for %q", m.Type))
	}
	if m.Label == "" {
		panic(fmt.Sprintf("registry: manifest for %q has no label", m.Type))
	}

	manifests[m.Type] = m
	order = append(order, m.Type)
}

// Lookup returns the manifest for a channel type.
func Lookup(t Type) (Manifest, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := manifests[t]
	return m, ok
}

// Parse validates a raw channel-type string, typically from a tab query
// parameter or CLI argument. Unknown or unregistered values return false;
// callers coerce to their default rather than carrying a dangling value.
func Parse(raw string) (Type, bool) {
	t := Type(raw)
	mu.RLock()
	defer mu.RUnlock()
	_, ok := manifests[t]
	return t, ok
}

// All returns manifests in registration order.
func All() []Manifest {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Manifest, 0, len(order))
	for _, t := range order {
		out = append(out, manifests[t])
	}
	return out
}

// Types returns the registered types, sorted for stable output.
func Types() []Type {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Type, len(order))
	copy(out, order)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func init() {
	Register(Manifest{
		Type:        Finance,
		Label:       "Finance",
		Icon:        "▲",
		Color:       "42",
		Description: "Live stock and crypto tickers",
		DefaultConfig: map[string]interface{}{
			"symbols": []string{"AAPL", "GOOGL", "TSLA"},
		},
	})
	Register(Manifest{
		Type:        Sports,
		Label:       "Sports",
		Icon:        "●",
		Color:       "208",
		Description: "Live scores across major leagues",
		DefaultConfig: map[string]interface{}{
			"leagues": []string{"nfl", "nba", "mlb", "nhl"},
		},
	})
	Register(Manifest{
		Type:        RSS,
		Label:       "RSS",
		Icon:        "≡",
		Color:       "39",
		Description: "Headlines from followed feeds",
		DefaultConfig: map[string]interface{}{
			"feeds": []string{},
		},
	})
	Register(Manifest{
		Type:        Fantasy,
		Label:       "Fantasy",
		Icon:        "★",
		Color:       "135",
		Description: "Yahoo fantasy league matchups",
		DefaultConfig: map[string]interface{}{
			"leagues": []string{},
		},
	})
}
