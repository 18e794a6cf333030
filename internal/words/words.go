// Package words provides the word lists the game draws its secret words from.
package words

import (
	"bufio"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

//go:embed words.txt
var builtin string

// Embedded returns the built-in word list.
func Embedded() []string {
	return parse(bufio.NewScanner(strings.NewReader(builtin)))
}

// LoadFile reads a word list with one word or phrase per line. Blank lines and
// lines starting with '#' are skipped.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open word list %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	words := parse(scanner)
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error while reading word list %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s is empty", path)
	}
	return words, nil
}

func parse(scanner *bufio.Scanner) []string {
	var words []string
	seen := make(map[string]bool)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		words = append(words, w)
	}
	return words
}

// List hands out random distinct words. It is safe for concurrent use.
type List struct {
	mu    sync.Mutex
	words []string
	rng   *rand.Rand
}

// New builds a List over words. A zero seed picks a random one.
func New(words []string, seed uint64) *List {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &List{
		words: append([]string(nil), words...),
		rng:   rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Default is a List over the built-in words.
func Default() *List {
	return New(Embedded(), 0)
}

func (l *List) Len() int { return len(l.words) }

// Pick returns n distinct words in random order, or every word when the list
// is shorter than n.
func (l *List) Pick(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.words) {
		n = len(l.words)
	}
	out := make([]string, 0, n)
	for _, i := range l.rng.Perm(len(l.words))[:n] {
		out = append(out, l.words[i])
	}
	return out
}
