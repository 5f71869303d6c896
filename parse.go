package servicedoc

import "context"

// ParseRequest holds the inputs of one parse.
type ParseRequest struct {
	// HTML is the decoded planning-tool export.
	HTML string

	// Templates are candidate templates; the base template is chosen by
	// BaseTemplate. May be empty.
	Templates []*Template

	// Personnel is the roster used to find who leads each item, in
	// priority order. May be empty.
	Personnel []string

	// Filename is echoed in the result.
	Filename string
}

// ParseResult is the bulletin and slide data extracted from one export.
type ParseResult struct {
	Success   bool           `json:"success"`
	Data      []BulletinItem `json:"data"`
	SlideData SlideData      `json:"slideData"`
	Filename  string         `json:"filename"`
}

// BulletinParser turns an export into bulletin items and slide data.
type BulletinParser interface {
	Parse(ctx context.Context, req *ParseRequest) (*ParseResult, error)
}

var _ BulletinParser = (*Parser)(nil)

// Parser implements BulletinParser on top of an HTMLParser.
//
// Parsing is synchronous and uses no state shared between calls, so a
// Parser is safe for concurrent use.
type Parser struct {
	html  HTMLParser
	rules []SlideRule
}

// NewParser creates a Parser using the default slide rules.
func NewParser(html HTMLParser) *Parser {
	return &Parser{html: html, rules: DefaultSlideRules()}
}

// WithSlideRules replaces the slide rules and returns p.
func (p *Parser) WithSlideRules(rules ...SlideRule) *Parser {
	p.rules = rules
	return p
}

// Parse extracts items, matches them against the base template and
// gathers slide data. Only malformed markup is an error; heuristics never
// fail.
func (p *Parser) Parse(ctx context.Context, req *ParseRequest) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := p.html.ParseHTML(req.HTML)
	if err != nil {
		return nil, err
	}

	spans := TitleSpans(root)
	items := ExtractItems(spans)

	return &ParseResult{
		Success:   true,
		Data:      Match(items, BaseTemplate(req.Templates), req.Personnel),
		SlideData: ApplySlideRules(NewSlideSpans(spans), p.rules),
		Filename:  req.Filename,
	}, nil
}

// ParseCache stores parse results keyed by the request's content.
// The filename is not part of the key.
type ParseCache interface {
	// FindParseResult returns a stored result.
	// Returns ENOTFOUND if none is stored for the request's content.
	FindParseResult(ctx context.Context, req *ParseRequest) (*ParseResult, error)

	// SaveParseResult stores res for the request's content.
	SaveParseResult(ctx context.Context, req *ParseRequest, res *ParseResult) error
}

var _ BulletinParser = (*CachedParser)(nil)

// CachedParser serves repeated parses of identical input from a ParseCache.
// Parsing is deterministic, so a cached result equals a fresh one.
type CachedParser struct {
	next  BulletinParser
	cache ParseCache
}

// NewCachedParser wraps next with cache.
func NewCachedParser(next BulletinParser, cache ParseCache) *CachedParser {
	return &CachedParser{next: next, cache: cache}
}

// Parse returns the cached result when present, otherwise parses and stores.
func (p *CachedParser) Parse(ctx context.Context, req *ParseRequest) (*ParseResult, error) {
	res, err := p.cache.FindParseResult(ctx, req)
	if err == nil {
		res.Filename = req.Filename
		return res, nil
	}
	if ErrorCode(err) != ENOTFOUND {
		return nil, err
	}

	res, err = p.next.Parse(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := p.cache.SaveParseResult(ctx, req, res); err != nil {
		return nil, err
	}
	return res, nil
}
