package format

import (
	"math/rand/v2"
	"sync"
)

const (
	letterAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet  = "0123456789"

	minNumberLength = 3
	maxNumberLength = 8
	maxLetterPrefix = 3
)

// NumberGenerator produces random invoice numbers: 3 to 8 characters, an
// uppercase letter prefix of 0 to 3 characters followed by digits.
type NumberGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewNumberGenerator returns a generator drawing from src. A nil src uses the
// process-wide random source.
func NewNumberGenerator(src rand.Source) *NumberGenerator {
	g := &NumberGenerator{}
	if src != nil {
		g.rnd = rand.New(src)
	}
	return g
}

// Generate returns a new invoice number. Collisions are not checked.
func (g *NumberGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	length := minNumberLength + g.intN(maxNumberLength-minNumberLength+1)
	letters := min(g.intN(maxLetterPrefix+1), length)

	out := make([]byte, length)
	for i := range out {
		if i < letters {
			out[i] = letterAlphabet[g.intN(len(letterAlphabet))]
			continue
		}
		out[i] = digitAlphabet[g.intN(len(digitAlphabet))]
	}
	return string(out)
}

func (g *NumberGenerator) intN(n int) int {
	if g.rnd == nil {
		return rand.IntN(n)
	}
	return g.rnd.IntN(n)
}

var defaultNumbers = NewNumberGenerator(nil)

// GenerateInvoiceNumber returns a number from the process-wide generator.
func GenerateInvoiceNumber() string {
	return defaultNumbers.Generate()
}
