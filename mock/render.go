package mock

import (
	"context"
	"io"

	"github.com/fwojciec/servicedoc"
)

var _ servicedoc.BulletinRenderer = (*BulletinRenderer)(nil)

// BulletinRenderer is a mock implementation of servicedoc.BulletinRenderer.
type BulletinRenderer struct {
	RenderBulletinFn func(ctx context.Context, w io.Writer, doc *servicedoc.BulletinDocument) error
}

func (r *BulletinRenderer) RenderBulletin(ctx context.Context, w io.Writer, doc *servicedoc.BulletinDocument) error {
	return r.RenderBulletinFn(ctx, w, doc)
}

var _ servicedoc.SlideRenderer = (*SlideRenderer)(nil)

// SlideRenderer is a mock implementation of servicedoc.SlideRenderer.
type SlideRenderer struct {
	RenderSlideFn    func(ctx context.Context, w io.Writer, template string, replacements map[string]string) error
	SlideTemplatesFn func(ctx context.Context) ([]string, error)
}

func (r *SlideRenderer) RenderSlide(ctx context.Context, w io.Writer, template string, replacements map[string]string) error {
	return r.RenderSlideFn(ctx, w, template, replacements)
}

func (r *SlideRenderer) SlideTemplates(ctx context.Context) ([]string, error) {
	return r.SlideTemplatesFn(ctx)
}
