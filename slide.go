package servicedoc

import (
	"regexp"
	"strings"
)

// SlideData is structured content for the slide decks, gathered from title
// spans independently of template matching. Missing fields stay nil/empty.
type SlideData struct {
	CallToWorship *CallToWorship `json:"callToWorship"`
	Hymns         []Hymn         `json:"hymns"`
	Scripture     *Scripture     `json:"scripture"`
	LeadPastor    *string        `json:"lead_pastor"`
}

// CallToWorship is the responsive reading that opens the service.
type CallToWorship struct {
	Text      string  `json:"text"`
	Reference *string `json:"reference"`
}

// Hymn identifies a hymn by hymnal and number.
type Hymn struct {
	Title  string `json:"title"`
	Number string `json:"number"`
	Hymnal string `json:"hymnal"`
}

// Scripture is the scripture reading.
type Scripture struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Version   string `json:"version"`
}

// DefaultScriptureVersion is used when the title names no translation.
const DefaultScriptureVersion = "NRSVUE"

// SlideSpan is the view of one title span that slide rules inspect.
type SlideSpan struct {
	// Text is the trimmed title text.
	Text string

	// Description is the text of the first description element inside the
	// span's parent, or empty.
	Description string
}

// SlideRule extracts one kind of slide field from a span.
type SlideRule interface {
	// Name identifies the rule in logs and tests.
	Name() string

	// Apply inspects span and updates data when the span matches.
	Apply(span SlideSpan, data *SlideData)
}

// DefaultSlideRules returns the rules applied by ExtractSlideData.
func DefaultSlideRules() []SlideRule {
	return []SlideRule{
		CallToWorshipRule{},
		HymnRule{},
		ScriptureRule{},
		LeadPastorRule{},
	}
}

// NewSlideSpans builds slide spans from title span nodes. Every span is
// included, section headers and empty spans too.
func NewSlideSpans(spans []Node) []SlideSpan {
	out := make([]SlideSpan, 0, len(spans))
	for _, span := range spans {
		s := SlideSpan{Text: span.Text()}
		if parent := span.Parent(); parent != nil {
			if desc := parent.FindClass(ClassDescription); desc != nil {
				s.Description = desc.Text()
			}
		}
		out = append(out, s)
	}
	return out
}

// ExtractSlideData applies the default rules to the title spans.
func ExtractSlideData(spans []Node) SlideData {
	return ApplySlideRules(NewSlideSpans(spans), DefaultSlideRules())
}

// ApplySlideRules runs every rule over every span in order.
func ApplySlideRules(spans []SlideSpan, rules []SlideRule) SlideData {
	data := SlideData{Hymns: []Hymn{}}
	for _, span := range spans {
		for _, rule := range rules {
			rule.Apply(span, &data)
		}
	}
	return data
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

var umhRefRe = regexp.MustCompile(`(?i)UMH\s+(\d+)`)

// CallToWorshipRule captures the call to worship text and its hymnal
// reference. The last matching span wins.
type CallToWorshipRule struct{}

// Name returns the rule's identifier.
func (CallToWorshipRule) Name() string { return "call-to-worship" }

// Apply implements SlideRule.
func (CallToWorshipRule) Apply(span SlideSpan, data *SlideData) {
	if !containsFold(span.Text, "call to worship") {
		return
	}
	cw := &CallToWorship{Text: span.Description}
	if m := umhRefRe.FindStringSubmatch(span.Text); m != nil {
		ref := "UMH " + m[1]
		cw.Reference = &ref
	}
	data.CallToWorship = cw
}

var hymnRe = regexp.MustCompile(`(?i)["“”]([^"“”]+)["“”].*?(UMH|FWS)\s*(\d+[a-z]?)`)

// HymnRule appends every hymn whose title is quoted and followed by a UMH
// or FWS number.
type HymnRule struct{}

// Name returns the rule's identifier.
func (HymnRule) Name() string { return "hymn" }

// Apply implements SlideRule.
func (HymnRule) Apply(span SlideSpan, data *SlideData) {
	if !containsFold(span.Text, "hymn") {
		return
	}
	m := hymnRe.FindStringSubmatch(span.Text)
	if m == nil {
		return
	}
	data.Hymns = append(data.Hymns, Hymn{
		Title:  strings.TrimSpace(m[1]),
		Number: strings.TrimSpace(m[3]),
		Hymnal: strings.ToUpper(m[2]),
	})
}

var (
	scriptureVersionRe = regexp.MustCompile(`(?i)SCRIPTURE:\s*(.+?)\s*\(?(NRSVUE|NRSVue|TMB|ESV|NIV|KJV)\)?`)
	scriptureRe        = regexp.MustCompile(`(?i)SCRIPTURE:\s*(.+?)\s*$`)
)

// ScriptureRule captures the reading's reference and translation. The last
// matching span wins.
type ScriptureRule struct{}

// Name returns the rule's identifier.
func (ScriptureRule) Name() string { return "scripture" }

// Apply implements SlideRule.
func (ScriptureRule) Apply(span SlideSpan, data *SlideData) {
	if !containsFold(span.Text, "scripture") {
		return
	}
	if m := scriptureVersionRe.FindStringSubmatch(span.Text); m != nil {
		data.Scripture = &Scripture{
			Reference: strings.TrimSpace(m[1]),
			Text:      span.Description,
			Version:   strings.ToUpper(m[2]),
		}
		return
	}
	if m := scriptureRe.FindStringSubmatch(span.Text); m != nil {
		data.Scripture = &Scripture{
			Reference: strings.TrimSpace(m[1]),
			Text:      span.Description,
			Version:   DefaultScriptureVersion,
		}
	}
}

var pastorRe = regexp.MustCompile(`(Rev\.|Pastor|Dr\.)\s+([^,\n]+)`)

// LeadPastorRule takes the first titled name found in the description of a
// greeting or benediction. Later candidates are ignored.
type LeadPastorRule struct{}

// Name returns the rule's identifier.
func (LeadPastorRule) Name() string { return "lead-pastor" }

// Apply implements SlideRule.
func (LeadPastorRule) Apply(span SlideSpan, data *SlideData) {
	if data.LeadPastor != nil {
		return
	}
	if !containsFold(span.Text, "greeting") && !containsFold(span.Text, "benediction") {
		return
	}
	if span.Description == "" {
		return
	}
	if m := pastorRe.FindString(span.Description); m != "" {
		pastor := strings.TrimSpace(m)
		data.LeadPastor = &pastor
	}
}
