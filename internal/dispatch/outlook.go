package dispatch

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// OutlookDispatcher opens .oft templates in Outlook through COM automation.
// It only works on Windows; elsewhere every dispatch fails with
// ErrPlatformUnavailable once the template has been found.
type OutlookDispatcher struct {
	templateDir string
	log         *zap.Logger
}

func NewOutlook(templateDir string, log *zap.Logger) *OutlookDispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &OutlookDispatcher{
		templateDir: templateDir,
		log:         log.Named("dispatch.outlook"),
	}
}

func (d *OutlookDispatcher) TemplateDir() string {
	return d.templateDir
}

func (d *OutlookDispatcher) Dispatch(ctx context.Context, templateName string, placeholders map[string]string) error {
	path := Resolve(d.templateDir, templateName)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		d.log.Warn("template not found", zap.String("path", path))
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
	}

	if err := openInOutlook(path, placeholders); err != nil {
		d.log.Warn("failed to open template in outlook", zap.String("path", path), zap.Error(err))
		return err
	}

	d.log.Info("template opened for review", zap.String("path", path))
	return nil
}
