package config

import (
	"os"
	"strings"
)

// defaultOffensiveWords is the built-in denylist checked against every
// submission. Order matters: scan results preserve this order.
var defaultOffensiveWords = []string{
	"idiota", "estúpido", "estupido", "pendejo", "tonto", "imbécil", "imbecil",
	"maldito", "odio", "puto", "pinche", "chinga", "chingar",
	"verga", "culero", "mamón", "mamon", "cabrón", "cabron",
	"joder", "mierda", "coño", "bastardo", "gilipollas",
}

// OffensiveWords returns the denylist for content scanning. A comma-separated
// OFFENSIVE_WORDS environment variable replaces the built-in list entirely.
// Call once at startup; the returned slice must be treated as immutable.
func OffensiveWords() []string {
	raw := os.Getenv("OFFENSIVE_WORDS")
	if raw == "" {
		return defaultOffensiveWords
	}

	var words []string
	for _, w := range strings.Split(raw, ",") {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return defaultOffensiveWords
	}
	return words
}
