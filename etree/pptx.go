package etree

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/servicedoc"
)

// templateExt is the file extension of deck templates.
const templateExt = ".pptx"

var (
	slidePartRe    = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	templateNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

var _ servicedoc.SlideRenderer = (*SlideRenderer)(nil)

// SlideRenderer fills {key} placeholders in PPTX templates stored in a
// directory. Template "welcome" is read from "<dir>/welcome.pptx".
type SlideRenderer struct {
	dir string
}

// NewSlideRenderer creates a SlideRenderer reading templates from dir.
func NewSlideRenderer(dir string) *SlideRenderer {
	return &SlideRenderer{dir: dir}
}

// SlideTemplates lists the template names found in the directory, sorted.
func (r *SlideRenderer) SlideTemplates(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list slide templates: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != templateExt {
			continue
		}
		name := strings.TrimSuffix(e.Name(), templateExt)
		if templateNameRe.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// RenderSlide writes a copy of the named template to w with placeholders
// replaced in every slide. Parts without placeholders are copied unchanged.
func (r *SlideRenderer) RenderSlide(ctx context.Context, w io.Writer, template string, replacements map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !templateNameRe.MatchString(template) {
		return servicedoc.Errorf(servicedoc.EINVALID, "invalid slide template name %q", template)
	}

	path := filepath.Join(r.dir, template+templateExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return servicedoc.Errorf(servicedoc.ENOTFOUND, "slide template %q not found", template)
	}
	if err != nil {
		return fmt.Errorf("failed to read slide template: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to open slide template %q: %w", template, err)
	}

	zw := zip.NewWriter(w)
	for _, f := range zr.File {
		if !slidePartRe.MatchString(f.Name) {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}
		doc, err := readPart(f)
		if err != nil {
			return err
		}
		if FillPlaceholders(doc, replacements) == 0 {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}
		if err := writePart(zw, f.Name, doc); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish slide deck: %w", err)
	}
	return nil
}

func readPart(f *zip.File) (*etree.Document, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
	}
	return doc, nil
}

// FillPlaceholders replaces "{key}" with its value in every DrawingML
// paragraph of doc and reports how many paragraphs changed.
//
// PowerPoint often splits a placeholder across runs ("{", "lead_pastor",
// "}"). A placeholder held by one run is replaced inside that run so the
// other runs keep their formatting. Otherwise the paragraph text is joined
// into its first run and the remaining runs are emptied.
func FillPlaceholders(doc *etree.Document, replacements map[string]string) int {
	if len(replacements) == 0 {
		return 0
	}

	changed := 0
	for _, p := range doc.FindElements("//a:p") {
		var texts []*etree.Element
		for _, run := range p.SelectElements("a:r") {
			if t := run.SelectElement("a:t"); t != nil {
				texts = append(texts, t)
			}
		}
		if len(texts) == 0 {
			continue
		}

		var full strings.Builder
		for _, t := range texts {
			full.WriteString(t.Text())
		}
		replaced := replacePlaceholders(full.String(), replacements)
		if replaced == full.String() {
			continue
		}
		changed++

		if fillRuns(texts, replacements) {
			continue
		}
		texts[0].SetText(replaced)
		for _, t := range texts[1:] {
			t.SetText("")
		}
	}
	return changed
}

// fillRuns replaces placeholders run by run and reports whether no
// placeholder remains split across runs.
func fillRuns(texts []*etree.Element, replacements map[string]string) bool {
	updated := make([]string, len(texts))
	var joined strings.Builder
	for i, t := range texts {
		updated[i] = replacePlaceholders(t.Text(), replacements)
		joined.WriteString(updated[i])
	}
	if replacePlaceholders(joined.String(), replacements) != joined.String() {
		return false
	}
	for i, t := range texts {
		t.SetText(updated[i])
	}
	return true
}

func replacePlaceholders(s string, replacements map[string]string) string {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s = strings.ReplaceAll(s, "{"+k+"}", replacements[k])
	}
	return s
}
