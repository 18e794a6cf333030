package game

import (
	"math/rand/v2"
	"strings"
)

const maskGlyph = '_'

// Mask renders word for guessers: spaces and revealed rune indices are shown,
// everything else becomes '_'. The result has as many runes as word.
func Mask(word string, revealed map[int]bool) string {
	var sb strings.Builder
	i := 0
	for _, r := range word {
		if r == ' ' || revealed[i] {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(maskGlyph)
		}
		i++
	}
	return sb.String()
}

// revealOne marks one random unrevealed non-space rune index as revealed.
// It returns false when nothing is left to reveal.
func revealOne(word string, revealed map[int]bool, rng *rand.Rand) bool {
	var hidden []int
	i := 0
	for _, r := range word {
		if r != ' ' && !revealed[i] {
			hidden = append(hidden, i)
		}
		i++
	}
	if len(hidden) == 0 {
		return false
	}
	revealed[hidden[rng.IntN(len(hidden))]] = true
	return true
}
