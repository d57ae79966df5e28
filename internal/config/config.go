// Package config loads engine tuning options from a TOML file, the same way
// the rest of the corpus keeps non-domain configuration out of flags.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Options holds the process-lifetime tunables that would otherwise be
// hard-coded constants: table sizes and the book file location.
type Options struct {
	Engine EngineOptions `toml:"engine"`
	Book   BookOptions   `toml:"book"`
}

// EngineOptions sizes the process-lifetime tables described in spec.md §3/§4.8.
type EngineOptions struct {
	TranspositionEntries int `toml:"transposition_entries"`
	AttackCacheBuckets   int `toml:"attack_cache_buckets"`
	PawnCacheBuckets     int `toml:"pawn_cache_buckets"`
	// DepthLimit caps iterative deepening at this ply depth if non-zero.
	DepthLimit uint `toml:"depth_limit"`
}

// BookOptions locates the opening book consumed at startup (spec.md §6).
type BookOptions struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is present or supplied.
func Default() Options {
	return Options{
		Engine: EngineOptions{
			TranspositionEntries: 1 << 20,
			AttackCacheBuckets:   1 << 16,
			PawnCacheBuckets:     1 << 14,
		},
		Book: BookOptions{
			Path: "book.txt",
		},
	}
}

// Load reads path as TOML, falling back to Default for any field absent from
// the file. A missing file is not an error: it simply yields the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return opts, nil
	}
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}
