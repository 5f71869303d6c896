// Package slog provides logging decorators for servicedoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/servicedoc"
)

// Ensure LoggingBulletinParser implements servicedoc.BulletinParser.
var _ servicedoc.BulletinParser = (*LoggingBulletinParser)(nil)

// LoggingBulletinParser wraps a BulletinParser with logging.
type LoggingBulletinParser struct {
	next   servicedoc.BulletinParser
	logger *slog.Logger
}

// NewLoggingBulletinParser creates a new LoggingBulletinParser.
func NewLoggingBulletinParser(next servicedoc.BulletinParser, logger *slog.Logger) *LoggingBulletinParser {
	return &LoggingBulletinParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs item and match counts.
func (p *LoggingBulletinParser) Parse(ctx context.Context, req *servicedoc.ParseRequest) (res *servicedoc.ParseResult, err error) {
	defer func(begin time.Time) {
		var items, matched, hymns int
		if res != nil {
			items = len(res.Data)
			for _, item := range res.Data {
				if item.WasMatched {
					matched++
				}
			}
			hymns = len(res.SlideData.Hymns)
		}
		p.logger.Info("parse bulletin",
			"filename", req.Filename,
			"templates", len(req.Templates),
			"personnel", len(req.Personnel),
			"items", items,
			"matched", matched,
			"hymns", hymns,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(ctx, req)
}
