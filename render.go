package servicedoc

import (
	"context"
	"io"
)

// BulletinDocument is the input to a bulletin renderer.
type BulletinDocument struct {
	Items       []BulletinItem `json:"bulletinData"`
	ServiceDate string         `json:"serviceDate"`
	Filename    string         `json:"filename"`
}

// BulletinRenderer writes a printable bulletin.
type BulletinRenderer interface {
	RenderBulletin(ctx context.Context, w io.Writer, doc *BulletinDocument) error
}

// SlideRenderer fills a slide deck template.
type SlideRenderer interface {
	// RenderSlide loads the named deck template, replaces every {key}
	// placeholder with its value and writes the deck to w.
	// Returns ENOTFOUND if the template does not exist.
	RenderSlide(ctx context.Context, w io.Writer, template string, replacements map[string]string) error

	// SlideTemplates lists the names of the available deck templates.
	SlideTemplates(ctx context.Context) ([]string, error)
}

// Well-known slide deck templates.
const (
	SlideWelcome      = "welcome"
	SlideBenediction  = "benediction"
	SlidePostlude     = "postlude"
	SlideDoxology     = "doxology"
	SlideGloriaPatri  = "gloria-patri"
	SlideShellBlowing = "shell-blowing"
)
