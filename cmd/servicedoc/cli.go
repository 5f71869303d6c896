package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/servicedoc"
	"github.com/fwojciec/servicedoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Now       func() time.Time
	DB        *sqlite.DB
	Cache     *sqlite.ParseCache
	Templates servicedoc.TemplateService
	Personnel servicedoc.PersonnelService
	Parser    servicedoc.BulletinParser
	Bulletins servicedoc.BulletinRenderer
	Slides    servicedoc.SlideRenderer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool   `short:"v" help:"Log operations to stderr"`
	SlidesDir string `name:"slides-dir" default:"templates" env:"SERVICEDOC_TEMPLATES_DIR" help:"Directory holding PPTX slide templates"`

	Serve    ServeCmd    `cmd:"" help:"Run the HTTP API"`
	Parse    ParseCmd    `cmd:"" help:"Parse a planning export into bulletin items"`
	Bulletin BulletinCmd `cmd:"" help:"Render a DOCX bulletin from parsed items"`
	Slide    SlideCmd    `cmd:"" help:"Fill or list slide templates"`
	Template TemplateCmd `cmd:"" help:"Manage stored service templates"`
	Roster   RosterCmd   `cmd:"" help:"Manage the personnel roster"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr           string        `default:":8000" env:"SERVICEDOC_ADDR" help:"Listen address"`
	Port           int           `env:"PORT" help:"Listen port; overrides the port of --addr"`
	AllowedOrigins []string      `name:"allowed-origins" env:"SERVICEDOC_ALLOWED_ORIGINS" help:"CORS origins (comma-separated); defaults to the hosted front ends"`
	TrustProxy     bool          `name:"trust-proxy" env:"SERVICEDOC_TRUST_PROXY" help:"Take client addresses from X-Forwarded-For (only behind a trusted proxy)"`
	RateLimit      float64       `name:"rate-limit" default:"2" help:"Requests per second per client on upload routes; 0 disables"`
	RateBurst      int           `name:"rate-burst" default:"10" help:"Burst size for --rate-limit"`
	CacheTTL       time.Duration `name:"cache-ttl" default:"720h" help:"Drop cached parse results older than this at startup; 0 keeps all"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	File      string   `arg:"" type:"existingfile" help:"Planning export HTML file"`
	Template  string   `short:"t" help:"Name of the stored template to match against"`
	Templates string   `type:"existingfile" help:"JSON or YAML file with templates to use instead of the stored ones"`
	Personnel []string `short:"p" help:"Personnel name in priority order (repeatable); defaults to the stored roster"`
	Text      bool     `help:"Print bulletin lines instead of JSON"`
}

// BulletinCmd is the "bulletin" subcommand.
type BulletinCmd struct {
	Input  string `arg:"" type:"existingfile" help:"JSON output of 'servicedoc parse' or a list of items"`
	Output string `short:"o" help:"Output path; defaults to bulletin_<date>.docx"`
	Date   string `help:"Service date (YYYY-MM-DD); defaults to today"`
}

// SlideCmd groups the slide subcommands.
type SlideCmd struct {
	Render SlideRenderCmd `cmd:"" help:"Fill a slide template"`
	List   SlideListCmd   `cmd:"" help:"List slide templates"`
}

// SlideRenderCmd is the "slide render" subcommand.
type SlideRenderCmd struct {
	Template string            `arg:"" help:"Slide template name"`
	Set      map[string]string `short:"s" help:"Placeholder value as key=value (repeatable)"`
	Output   string            `short:"o" help:"Output path; defaults to <template>.pptx"`
}

// SlideListCmd is the "slide list" subcommand.
type SlideListCmd struct{}

// TemplateCmd groups the template subcommands.
type TemplateCmd struct {
	Add    TemplateAddCmd    `cmd:"" help:"Store templates from a JSON or YAML file"`
	List   TemplateListCmd   `cmd:"" help:"List stored templates"`
	Delete TemplateDeleteCmd `cmd:"" help:"Delete a stored template"`
}

// TemplateAddCmd is the "template add" subcommand.
type TemplateAddCmd struct {
	File  string `arg:"" type:"existingfile" help:"JSON or YAML file holding a template or a list of templates"`
	Force bool   `short:"f" help:"Replace templates with the same name"`
}

// TemplateListCmd is the "template list" subcommand.
type TemplateListCmd struct{}

// TemplateDeleteCmd is the "template delete" subcommand.
type TemplateDeleteCmd struct {
	Name  string `arg:"" help:"Template name"`
	Force bool   `help:"Confirm deletion"`
}

// RosterCmd groups the roster subcommands.
type RosterCmd struct {
	Set  RosterSetCmd  `cmd:"" help:"Replace the roster"`
	Show RosterShowCmd `cmd:"" help:"Print the roster"`
}

// RosterSetCmd is the "roster set" subcommand.
type RosterSetCmd struct {
	Names []string `arg:"" help:"Names in priority order"`
}

// RosterShowCmd is the "roster show" subcommand.
type RosterShowCmd struct{}
