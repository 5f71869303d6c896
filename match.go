package servicedoc

import (
	"regexp"
	"strings"
)

// BulletinItem is one row of the printed order of service.
type BulletinItem struct {
	// Text is the scraped title, kept verbatim for display.
	Text string `json:"Text"`

	// Name is the matched template item name, or empty when unmatched.
	Name string `json:"Name"`

	Description string `json:"Description"`
	Personnel   string `json:"Personnel"`
	Standing    bool   `json:"Standing"`
	WasMatched  bool   `json:"wasMatched"`
}

// shellExpansion replaces the "(PU)" abbreviation in the shell-blowing item.
const shellExpansion = "(pu in Hawaiian, kele'a in Tongan)"

// Section labels that steer hymn placement.
const (
	SectionGathering    = "GATHERING"
	SectionSendingForth = "SENDING FORTH"
)

// Match assigns each raw item to at most one unused slot of tmpl.
//
// Rules are tried in order and the first success wins: keyword special
// cases, the slot at the item's own position, then every unused slot in
// definition order. The output has one item per input item in the same
// order. With a nil template every item is emitted unmatched.
func Match(items []RawItem, tmpl *Template, roster []string) []BulletinItem {
	out := make([]BulletinItem, 0, len(items))

	if tmpl == nil {
		for _, item := range items {
			out = append(out, unmatchedItem(item, roster))
		}
		return out
	}

	state := newMatchState(tmpl.Items)
	for idx, item := range items {
		lower := strings.ToLower(item.Text)
		if strings.Contains(lower, "blowing of the shell") && strings.Contains(lower, "(pu)") {
			item.Text = strings.ReplaceAll(item.Text, "(PU)", shellExpansion)
		}

		m, ok := state.matchKeyword(lower, item)
		if !ok {
			m, ok = state.matchPosition(idx, item.Text)
		}
		if !ok {
			m, ok = state.matchAny(item.Text)
		}
		if !ok {
			out = append(out, unmatchedItem(item, roster))
			continue
		}

		state.use(m.index)
		out = append(out, matchedItem(item, m, roster))
	}

	return out
}

// slotMatch records which slot matched and the alias or keyword that did it.
type slotMatch struct {
	index int
	item  TemplateItem
	alias string
}

// matchState tracks slot usage for a single Match call.
type matchState struct {
	slots []TemplateItem
	used  map[int]bool
}

func newMatchState(slots []TemplateItem) *matchState {
	return &matchState{slots: slots, used: make(map[int]bool, len(slots))}
}

func (s *matchState) use(index int) {
	s.used[index] = true
}

// findSlot returns the first unused slot whose lower-cased name satisfies pred.
func (s *matchState) findSlot(pred func(name string) bool, alias string) (slotMatch, bool) {
	for i, slot := range s.slots {
		if s.used[i] {
			continue
		}
		if pred(strings.ToLower(slot.ItemName)) {
			return slotMatch{index: i, item: slot, alias: alias}, true
		}
	}
	return slotMatch{}, false
}

func nameContains(fragment string) func(string) bool {
	return func(name string) bool { return strings.Contains(name, fragment) }
}

// matchKeyword applies the planning-tool naming conventions. lower is the
// lower-cased text as scraped, before any expansion.
func (s *matchState) matchKeyword(lower string, item RawItem) (slotMatch, bool) {
	switch {
	case strings.Contains(lower, "offering prayer"):
		return s.findSlot(nameContains("prayer of dedication"), "offering prayer")
	case lower == "offering":
		return s.findSlot(nameContains("offertory"), "offering")
	case lower == "greeting":
		return s.findSlot(nameContains("welcome"), "greeting")
	case strings.Contains(lower, "hymn"):
		return s.matchHymn(item)
	}
	return slotMatch{}, false
}

// matchHymn places a hymn as opening, closing or middle hymn from its
// section and ordinal.
func (s *matchState) matchHymn(item RawItem) (slotMatch, bool) {
	switch {
	case item.HymnPosition == 1 || item.Section == SectionGathering:
		return s.findSlot(nameContains("opening hymn"), "opening hymn")
	case item.Section == SectionSendingForth || item.HymnPosition >= 3:
		return s.findSlot(nameContains("closing hymn"), "closing hymn")
	default:
		return s.findSlot(func(name string) bool { return name == "hymn" }, "hymn")
	}
}

// matchPosition tries the slot whose index equals the item's index.
func (s *matchState) matchPosition(idx int, text string) (slotMatch, bool) {
	if idx >= len(s.slots) || s.used[idx] {
		return slotMatch{}, false
	}
	return s.matchSlot(idx, normalize(text))
}

// matchAny scans every unused slot in definition order.
func (s *matchState) matchAny(text string) (slotMatch, bool) {
	normalized := normalize(text)
	for i := range s.slots {
		if s.used[i] {
			continue
		}
		if m, ok := s.matchSlot(i, normalized); ok {
			return m, true
		}
	}
	return slotMatch{}, false
}

// matchSlot tests the slot's aliases, then its name.
func (s *matchState) matchSlot(i int, normalized string) (slotMatch, bool) {
	slot := s.slots[i]
	for _, alias := range slot.ItemAliases {
		if overlaps(normalized, normalize(alias)) {
			return slotMatch{index: i, item: slot, alias: alias}, true
		}
	}
	if overlaps(normalized, normalize(slot.ItemName)) {
		return slotMatch{index: i, item: slot}, true
	}
	return slotMatch{}, false
}

func normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// overlaps reports whether a and b are equal or one contains the other.
// An empty string is contained in everything.
func overlaps(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

var leadingColonRe = regexp.MustCompile(`^:\s*`)

// matchedItem resolves description and personnel for a matched item.
func matchedItem(item RawItem, m slotMatch, roster []string) BulletinItem {
	description, personnel := resolveDescription(item, roster)

	title := titleFragment(item.Text, m.alias)
	final := title
	if final == "" {
		final = description
	}
	if final == "SHARING OF" {
		final = ""
	}

	if personnel == "" {
		personnel = m.item.DefaultPerson
	}

	return BulletinItem{
		Text:        item.Text,
		Name:        m.item.ItemName,
		Description: final,
		Personnel:   personnel,
		Standing:    m.item.StandIndicator,
		WasMatched:  true,
	}
}

func unmatchedItem(item RawItem, roster []string) BulletinItem {
	description, personnel := resolveDescription(item, roster)
	return BulletinItem{
		Text:        item.Text,
		Description: description,
		Personnel:   personnel,
	}
}

// resolveDescription cleans personnel out of the description and reports
// the person found there, or failing that, in the item text.
func resolveDescription(item RawItem, roster []string) (description, personnel string) {
	description = item.Description
	if description != "" {
		description, personnel = ExtractPersonnel(description, roster)
	}
	if personnel == "" {
		_, personnel = ExtractPersonnel(item.Text, roster)
	}
	return description, personnel
}

// titleFragment derives the per-service title from the scraped text, e.g.
// "Amazing Grace" from "HYMN: Amazing Grace". It strips the matched alias
// when present, otherwise takes everything after the first colon.
func titleFragment(text, alias string) string {
	if alias != "" {
		if title, ok := removeFold(text, alias); ok {
			return strings.TrimSpace(leadingColonRe.ReplaceAllString(strings.TrimSpace(title), ""))
		}
	}
	if i := strings.Index(text, ":"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return ""
}

// removeFold deletes every case-insensitive occurrence of substr from s and
// reports whether there was one.
func removeFold(s, substr string) (string, bool) {
	var b strings.Builder
	found := false
	for {
		start, end := indexFold(s, substr)
		if start < 0 {
			break
		}
		found = true
		b.WriteString(s[:start])
		s = s[end:]
	}
	b.WriteString(s)
	return b.String(), found
}
