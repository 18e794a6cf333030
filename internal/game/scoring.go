package game

import (
	"sort"
	"strings"
)

// GuessPoints is the reward for a correct guess with secondsLeft on the clock:
// ceil(secondsLeft/2)*10.
func GuessPoints(secondsLeft int) int {
	if secondsLeft <= 0 {
		return 0
	}
	return (secondsLeft + 1) / 2 * 10
}

func matchesWord(guess, word string) bool {
	if word == "" {
		return false
	}
	return strings.ToLower(strings.TrimSpace(guess)) == strings.ToLower(word)
}

// rank orders players by score, highest first. Ties keep roster order.
func rank(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
