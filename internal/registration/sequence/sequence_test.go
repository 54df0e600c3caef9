package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestExtract(t *testing.T) {
	cases := map[string]int{
		"AC-0007":     7,
		"AC-0001":     1,
		"AC-12345":    12345,
		"garbage":     0,
		"AC-07-extra": 0,
		"AC-abc":      0,
		"":            0,
		"AC-":         0,
	}

	for code, want := range cases {
		if got := Extract(code); got != want {
			t.Fatalf("Extract(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "AC-0001", Format(1))
	assert.Equal(t, "AC-0042", Format(42))
	assert.Equal(t, "AC-9999", Format(9999))
	assert.Equal(t, "AC-10000", Format(10000))
}

func TestNext(t *testing.T) {
	assert.Equal(t, Seed, Next("", false))
	assert.Equal(t, "AC-0008", Next("AC-0007", true))
	assert.Equal(t, "AC-10000", Next("AC-9999", true))
	// Unparsable codes restart the sequence at 1.
	assert.Equal(t, "AC-0001", Next("garbage", true))
	assert.Equal(t, "AC-0001", Next("AC-07-extra", true))
}

type sourceStub struct {
	code  string
	found bool
	err   error
}

func (s sourceStub) LastCode(ctx context.Context, db *gorm.DB) (string, bool, error) {
	return s.code, s.found, s.err
}

func TestGeneratorNext(t *testing.T) {
	ctx := context.Background()

	code, err := NewGenerator(sourceStub{}).Next(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, Seed, code)

	code, err = NewGenerator(sourceStub{code: "AC-0041", found: true}).Next(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, "AC-0042", code)
}

func TestGeneratorNextPropagatesQueryError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewGenerator(sourceStub{err: boom}).Next(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
