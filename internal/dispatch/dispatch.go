// Package dispatch hands a filled-in email template to the local mail client
// for the user to review and send. Nothing here sends mail on its own.
package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrTemplateNotFound    = errors.New("template_not_found")
	ErrPlatformUnavailable = errors.New("platform_unavailable")
	ErrHostAPI             = errors.New("host_api_error")
	ErrRender              = errors.New("render_failed")
	ErrOutbox              = errors.New("outbox_write_failed")
)

// Dispatcher opens the named template with every placeholder token replaced
// by its value. Placeholder keys are the literal tokens, e.g. "{{CODE}}".
type Dispatcher interface {
	Dispatch(ctx context.Context, templateName string, placeholders map[string]string) error
}

// Resolve returns templateName unchanged when it is absolute, otherwise its
// path inside dir.
func Resolve(dir, templateName string) string {
	if filepath.IsAbs(templateName) {
		return filepath.Clean(templateName)
	}
	return filepath.Join(dir, templateName)
}

// Substitute replaces every occurrence of each token in body. Longer tokens
// are matched first so a token never clobbers another that contains it.
func Substitute(body string, placeholders map[string]string) string {
	if len(placeholders) == 0 {
		return body
	}

	tokens := make([]string, 0, len(placeholders))
	for token := range placeholders {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})

	pairs := make([]string, 0, len(tokens)*2)
	for _, token := range tokens {
		pairs = append(pairs, token, placeholders[token])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// TokenName strips the braces from a placeholder token: "{{ CODE }}" -> "CODE".
func TokenName(token string) string {
	name := strings.TrimSpace(token)
	name = strings.TrimPrefix(name, "{{")
	name = strings.TrimSuffix(name, "}}")
	return strings.TrimSpace(name)
}

// NoopDispatcher accepts every template without doing anything.
type NoopDispatcher struct{}

func (NoopDispatcher) Dispatch(ctx context.Context, templateName string, placeholders map[string]string) error {
	return nil
}
