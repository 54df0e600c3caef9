package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/osteele/liquid"
	"go.uber.org/zap"
)

const liquidExt = ".liquid"

// FileDispatcher renders templates into draft files under an outbox
// directory. Templates ending in .liquid are rendered with the liquid engine
// using the token names as bindings; anything else gets plain token
// substitution.
type FileDispatcher struct {
	templateDir string
	outboxDir   string
	engine      *liquid.Engine
	log         *zap.Logger
	newID       func() string
}

func NewFile(templateDir, outboxDir string, log *zap.Logger) *FileDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileDispatcher{
		templateDir: templateDir,
		outboxDir:   outboxDir,
		engine:      liquid.NewEngine(),
		log:         log.Named("dispatch.file"),
		newID:       uuid.NewString,
	}
}

func (d *FileDispatcher) OutboxDir() string {
	return d.outboxDir
}

func (d *FileDispatcher) Dispatch(ctx context.Context, templateName string, placeholders map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := Resolve(d.templateDir, templateName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirErr(path) {
			d.log.Warn("template not found", zap.String("path", path))
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return fmt.Errorf("%w: read %s: %v", ErrRender, path, err)
	}

	body, err := d.render(path, string(raw), placeholders)
	if err != nil {
		d.log.Warn("failed to render template", zap.String("path", path), zap.Error(err))
		return err
	}

	if err := os.MkdirAll(d.outboxDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutbox, err)
	}

	draft := filepath.Join(d.outboxDir, d.draftName(path))
	if err := os.WriteFile(draft, []byte(body), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutbox, err)
	}

	d.log.Info("draft written", zap.String("template", path), zap.String("draft", draft))
	return nil
}

func (d *FileDispatcher) render(path, source string, placeholders map[string]string) (string, error) {
	if !strings.EqualFold(filepath.Ext(path), liquidExt) {
		return Substitute(source, placeholders), nil
	}

	bindings := make(map[string]any, len(placeholders))
	for token, value := range placeholders {
		if name := TokenName(token); name != "" {
			bindings[name] = value
		}
	}

	out, err := d.engine.ParseAndRenderString(source, bindings)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return out, nil
}

// draftName is "<template-slug>-<id><ext>", with a trailing .liquid dropped.
func (d *FileDispatcher) draftName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), liquidExt) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := filepath.Ext(base)
	stem := slug.Make(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "draft"
	}
	return stem + "-" + d.newID() + strings.ToLower(ext)
}

func isDirErr(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
