package mock

import (
	"context"

	"github.com/fwojciec/servicedoc"
)

var _ servicedoc.BulletinParser = (*BulletinParser)(nil)

// BulletinParser is a mock implementation of servicedoc.BulletinParser.
type BulletinParser struct {
	ParseFn func(ctx context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error)
}

func (p *BulletinParser) Parse(ctx context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error) {
	return p.ParseFn(ctx, req)
}

var _ servicedoc.ParseCache = (*ParseCache)(nil)

// ParseCache is a mock implementation of servicedoc.ParseCache.
type ParseCache struct {
	FindParseResultFn func(ctx context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error)
	SaveParseResultFn func(ctx context.Context, req *servicedoc.ParseRequest, res *servicedoc.ParseResult) error
}

func (c *ParseCache) FindParseResult(ctx context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error) {
	return c.FindParseResultFn(ctx, req)
}

func (c *ParseCache) SaveParseResult(ctx context.Context, req *servicedoc.ParseRequest, res *servicedoc.ParseResult) error {
	return c.SaveParseResultFn(ctx, req, res)
}
