package booking

import (
	"context"
	"crypto/rand"
	"fmt"
)

// codeAlphabet contains the 32 symbols confirmation codes are drawn
// from.  Visually ambiguous characters (0/O, 1/I) are excluded so
// customers can read a code off a phone screen to staff without
// confusion.  The size being a power of two lets a masked random byte
// index it uniformly.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of a confirmation code.  32^8 is
// roughly 10^12 combinations, so collisions stay negligible for the
// lifetime of the system.
const CodeLength = 8

// maxCodeAttempts bounds EnsureUnique.  Exhausting it means the code
// space is effectively full or the exists check is broken; either way
// it is an internal fault, not a user-visible outcome.
const maxCodeAttempts = 100

// CodeGenerator mints confirmation codes.  It is stateless and keeps
// no memory between calls; uniqueness is the caller's concern,
// checked against persisted reservations via EnsureUnique.
type CodeGenerator struct{}

// NewCodeGenerator returns a CodeGenerator.
func NewCodeGenerator() *CodeGenerator { return &CodeGenerator{} }

// Generate returns one random code.  Bytes come from crypto/rand and
// are masked down to the alphabet size, so every symbol is equally
// likely.
func (g *CodeGenerator) Generate() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)&(len(codeAlphabet)-1)]
	}
	return string(out), nil
}

// EnsureUnique generates codes until exists reports one as unused,
// bounded by maxCodeAttempts.  The exists func is expected to check
// against all reservations ever created.
func (g *CodeGenerator) EnsureUnique(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := g.Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no unique confirmation code after %d attempts", maxCodeAttempts)
}
