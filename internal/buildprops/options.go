// SPDX-License-Identifier: MPL-2.0

package buildprops

import (
	"maps"
	"slices"
)

const (
	// FileKeyPrefix prefixes per-file metadata keys.
	FileKeyPrefix = "build_metadata.AdditionalFiles."
	// GlobalKeyPrefix prefixes build-wide property keys.
	GlobalKeyPrefix = "build_property."
)

type (
	// Options is a read-only key/value lookup.
	Options interface {
		Get(key string) (string, bool)
	}

	// Provider supplies the per-file and build-wide option stores.
	Provider interface {
		FileOptions(path string) Options
		GlobalOptions() Options
	}

	// MapOptions is an Options backed by a map.
	MapOptions map[string]string

	// StaticProvider is a Provider backed by fixed maps, keyed by file path.
	StaticProvider struct {
		Files  map[string]MapOptions
		Global MapOptions
	}

	// LayeredProvider consults its layers from last to first, so later layers
	// override earlier ones key by key.
	LayeredProvider []Provider

	layeredOptions []Options
)

// Get implements Options.
func (m MapOptions) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the map's keys in sorted order.
func (m MapOptions) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// FileOptions implements Provider. Unknown paths yield empty options.
func (p StaticProvider) FileOptions(path string) Options {
	if o, ok := p.Files[path]; ok {
		return o
	}
	return MapOptions(nil)
}

// GlobalOptions implements Provider.
func (p StaticProvider) GlobalOptions() Options {
	return p.Global
}

// FileOptions implements Provider.
func (l LayeredProvider) FileOptions(path string) Options {
	out := make(layeredOptions, 0, len(l))
	for _, p := range l {
		out = append(out, p.FileOptions(path))
	}
	return out
}

// GlobalOptions implements Provider.
func (l LayeredProvider) GlobalOptions() Options {
	out := make(layeredOptions, 0, len(l))
	for _, p := range l {
		out = append(out, p.GlobalOptions())
	}
	return out
}

func (l layeredOptions) Get(key string) (string, bool) {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i] == nil {
			continue
		}
		if v, ok := l[i].Get(key); ok {
			return v, true
		}
	}
	return "", false
}
