package game

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMask(t *testing.T) {
	cases := []struct {
		word     string
		revealed map[int]bool
		want     string
	}{
		{"apple", nil, "_____"},
		{"apple", map[int]bool{0: true, 4: true}, "a___e"},
		{"ice cream", nil, "___ _____"},
		{"ice cream", map[int]bool{4: true}, "___ c____"},
		{"", nil, ""},
		{"café", map[int]bool{3: true}, "___é"},
	}
	for _, tc := range cases {
		got := Mask(tc.word, tc.revealed)
		assert.Equal(t, tc.want, got, "Mask(%q, %v)", tc.word, tc.revealed)
		assert.Equal(t, len([]rune(tc.word)), len([]rune(got)))
	}
}

func TestMaskIsIdempotent(t *testing.T) {
	revealed := map[int]bool{1: true, 2: true}
	assert.Equal(t, Mask("banana", revealed), Mask("banana", revealed))
}

func TestRevealOneSkipsSpacesAndRevealed(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	word := "a b c"
	revealed := map[int]bool{}

	for i := 0; i < 3; i++ {
		assert.True(t, revealOne(word, revealed, rng))
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true}, revealed)
	assert.Equal(t, word, Mask(word, revealed))

	assert.False(t, revealOne(word, revealed, rng))
	assert.Len(t, revealed, 3)
}

func TestRevealOneRevealsExactlyOne(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	revealed := map[int]bool{}
	revealOne("giraffe", revealed, rng)
	assert.Equal(t, 6, strings.Count(Mask("giraffe", revealed), "_"))
}
