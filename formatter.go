package servicedoc

import "strings"

// Fixed display text for items the planning tool abbreviates.
const (
	shellBlowingDisplay  = "BLOWING OF THE SHELL (pu in Hawaiian, kele'a in Tongan)"
	faithInActionDisplay = "FAITH IN ACTION STEPS AND INTRODUCTION OF OFFERING"
)

// ChildrenReleaseLine follows the message for all generations.
const ChildrenReleaseLine = "Children are released to Sunday School. The teacher today is ????????"

// personnelRequired lists item names that must name a leader.
var personnelRequired = []string{
	"opening prayer",
	"scripture",
	"sermon",
	"message for all generations",
	"sharing of joys",
	"prayer of dedication",
	"benediction",
	"call to worship",
}

// BulletinLine is the printed form of one bulletin item.
type BulletinLine struct {
	Display     string
	Description string
	Personnel   string

	// NeedsPersonnel marks a matched item that should name a leader but
	// does not. Renderers highlight it.
	NeedsPersonnel bool

	// ChildrenRelease requests ChildrenReleaseLine after this line.
	ChildrenRelease bool
}

// NewBulletinLine computes the printed form of item.
func NewBulletinLine(item BulletinItem) BulletinLine {
	text := strings.TrimSpace(item.Text)
	name := strings.TrimSpace(item.Name)
	description := strings.TrimSpace(item.Description)
	personnel := strings.TrimSpace(item.Personnel)

	var display string
	if item.WasMatched && name != "" {
		switch strings.ToLower(name) {
		case "opening hymn", "hymn":
			display = "HYMN"
		case "closing hymn":
			display = "CLOSING HYMN"
		default:
			display = strings.ToUpper(name)
		}
	} else {
		display = text
		if i := strings.Index(text, ":"); i >= 0 && description != "" {
			display = strings.TrimSpace(text[:i])
		}
	}

	upperText := strings.ToUpper(text)
	switch {
	case strings.Contains(strings.ToUpper(display), "BLOWING OF THE SHELL"):
		display = shellBlowingDisplay
		description = ""
	case strings.Contains(upperText, "FAITH") && strings.Contains(upperText, "HOPE"):
		display = faithInActionDisplay
	}

	if strings.Contains(description, "SHARING OF") && strings.Contains(text, "SHARING OF") {
		description = ""
	}
	if strings.EqualFold(description, "none") {
		description = ""
	}

	if item.Standing {
		display = "*" + display
	}

	line := BulletinLine{
		Display:         display,
		Description:     description,
		Personnel:       personnel,
		ChildrenRelease: strings.Contains(strings.ToUpper(display), "MESSAGE FOR ALL GENERATIONS"),
	}
	if personnel == "" && item.WasMatched {
		lowerName := strings.ToLower(name)
		for _, required := range personnelRequired {
			if strings.Contains(lowerName, required) {
				line.NeedsPersonnel = true
				break
			}
		}
	}
	return line
}

// String renders the line with tab-separated columns. The description
// column is omitted when empty.
func (l BulletinLine) String() string {
	if l.Description == "" {
		return l.Display + "\t" + l.Personnel
	}
	return l.Display + "\t" + l.Description + "\t" + l.Personnel
}

// FormatBulletin renders items as plain text, one line per item, adding the
// children release line where it belongs.
func FormatBulletin(items []BulletinItem) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		line := NewBulletinLine(item)
		lines = append(lines, line.String())
		if line.ChildrenRelease {
			lines = append(lines, ChildrenReleaseLine)
		}
	}
	return strings.Join(lines, "\n")
}
