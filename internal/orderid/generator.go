package orderid

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPrefix = "ORD-"
	// DefaultLength of base-36 characters gives ~62 bits of randomness.
	DefaultLength = 12
)

// Generator produces human-readable order ids: a fixed prefix followed by
// upper-case base-36 characters drawn from a random UUID.
type Generator struct {
	prefix string
	length int
	newID  func() uuid.UUID
}

func NewGenerator() *Generator {
	return &Generator{
		prefix: DefaultPrefix,
		length: DefaultLength,
		newID:  uuid.New,
	}
}

// NewGeneratorWith allows a custom prefix and suffix length. length is clamped
// to the 24 base-36 digits a UUIDv4 can fill.
func NewGeneratorWith(prefix string, length int) *Generator {
	g := NewGenerator()
	g.prefix = prefix
	g.length = max(1, min(length, 24))
	return g
}

func (g *Generator) Generate() string {
	id := g.newID()
	digits := strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
	if len(digits) < g.length {
		digits = strings.Repeat("0", g.length-len(digits)) + digits
	}
	return g.prefix + digits[len(digits)-g.length:]
}
