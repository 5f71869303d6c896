package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/servicedoc"
)

// Ensure LoggingBulletinRenderer implements servicedoc.BulletinRenderer.
var _ servicedoc.BulletinRenderer = (*LoggingBulletinRenderer)(nil)

// LoggingBulletinRenderer wraps a BulletinRenderer with logging.
type LoggingBulletinRenderer struct {
	next   servicedoc.BulletinRenderer
	logger *slog.Logger
}

// NewLoggingBulletinRenderer creates a new LoggingBulletinRenderer.
func NewLoggingBulletinRenderer(next servicedoc.BulletinRenderer, logger *slog.Logger) *LoggingBulletinRenderer {
	return &LoggingBulletinRenderer{next: next, logger: logger}
}

// RenderBulletin delegates to the wrapped renderer and logs the operation.
func (r *LoggingBulletinRenderer) RenderBulletin(ctx context.Context, w io.Writer, doc *servicedoc.BulletinDocument) (err error) {
	defer func(begin time.Time) {
		r.logger.Info("render bulletin",
			"serviceDate", doc.ServiceDate,
			"items", len(doc.Items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RenderBulletin(ctx, w, doc)
}

// Ensure LoggingSlideRenderer implements servicedoc.SlideRenderer.
var _ servicedoc.SlideRenderer = (*LoggingSlideRenderer)(nil)

// LoggingSlideRenderer wraps a SlideRenderer with logging.
type LoggingSlideRenderer struct {
	next   servicedoc.SlideRenderer
	logger *slog.Logger
}

// NewLoggingSlideRenderer creates a new LoggingSlideRenderer.
func NewLoggingSlideRenderer(next servicedoc.SlideRenderer, logger *slog.Logger) *LoggingSlideRenderer {
	return &LoggingSlideRenderer{next: next, logger: logger}
}

// RenderSlide delegates to the wrapped renderer and logs the operation.
func (r *LoggingSlideRenderer) RenderSlide(ctx context.Context, w io.Writer, template string, replacements map[string]string) (err error) {
	defer func(begin time.Time) {
		r.logger.Info("render slide",
			"template", template,
			"replacements", len(replacements),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.RenderSlide(ctx, w, template, replacements)
}

// SlideTemplates delegates to the wrapped renderer.
func (r *LoggingSlideRenderer) SlideTemplates(ctx context.Context) ([]string, error) {
	return r.next.SlideTemplates(ctx)
}
