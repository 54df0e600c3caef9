// Package sequence derives registration codes of the form AC-NNNN.
//
// The next code is computed from the code of the most recently inserted row,
// so generation is only safe inside the same transaction as the insert that
// consumes it. The unique constraint on registrations.code is the final guard.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	Prefix = "AC"
	Seed   = "AC-0001"
)

// Extract returns the numeric suffix of code, or 0 when code is not exactly
// two dash-separated parts with an integer second part.
func Extract(code string) int {
	parts := strings.Split(code, "-")
	if len(parts) != 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return n
}

// Format renders n zero-padded to four digits. Larger values widen.
func Format(n int) string {
	return fmt.Sprintf("%s-%04d", Prefix, n)
}

// Next returns the code that follows last, or Seed when there is none.
func Next(last string, found bool) string {
	if !found {
		return Seed
	}
	return Format(Extract(last) + 1)
}

// CodeSource reads the code of the highest-id registration.
type CodeSource interface {
	LastCode(ctx context.Context, db *gorm.DB) (string, bool, error)
}

type Generator struct {
	source CodeSource
}

func NewGenerator(source CodeSource) *Generator {
	return &Generator{source: source}
}

// Next reads the last issued code through tx and returns its successor.
func (g *Generator) Next(ctx context.Context, tx *gorm.DB) (string, error) {
	last, found, err := g.source.LastCode(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("read last code: %w", err)
	}
	return Next(last, found), nil
}
