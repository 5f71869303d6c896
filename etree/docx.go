// Package etree renders Office Open XML documents (DOCX bulletins and PPTX
// slide decks) with github.com/beevik/etree.
package etree

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/servicedoc"
)

// WordprocessingML namespaces.
const (
	nsW             = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Layout, in twentieths of a point unless noted.
const (
	twipsPerInch = 1440

	centerTab = 3.1 * twipsPerInch
	rightTab  = 6.2 * twipsPerInch

	marginVertical   = 1 * twipsPerInch
	marginHorizontal = 1.1 * twipsPerInch

	pageWidth  = 8.5 * twipsPerInch
	pageHeight = 11 * twipsPerInch

	bulletinFont = "Trade Gothic Next Cond"

	footerLines = 15
)

// Paragraph style IDs.
const (
	styleHeader     = "HeaderStyle"
	styleBody       = "BodyStyle"
	styleSmallEmpty = "SmallEmpty"
)

// headerLines open every bulletin.
var headerLines = []string{" ", " ", "* Please rise as you are able in body and/or spirit.", " "}

var _ servicedoc.BulletinRenderer = (*BulletinRenderer)(nil)

// BulletinRenderer writes the order of worship as a DOCX document.
type BulletinRenderer struct {
	// Now returns the creation timestamp written to the document properties.
	Now func() time.Time
}

// NewBulletinRenderer creates a new BulletinRenderer.
func NewBulletinRenderer() *BulletinRenderer {
	return &BulletinRenderer{Now: time.Now}
}

// RenderBulletin writes doc to w as a DOCX package.
func (r *BulletinRenderer) RenderBulletin(ctx context.Context, w io.Writer, doc *servicedoc.BulletinDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"[Content_Types].xml", bulletinContentTypes()},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", coreProperties(doc.ServiceDate, r.Now())},
		{"word/_rels/document.xml.rels", documentRels()},
		{"word/styles.xml", bulletinStyles()},
		{"word/document.xml", bulletinBody(doc.Items)},
	}

	zw := zip.NewWriter(w)
	for _, part := range parts {
		if err := writePart(zw, part.name, part.doc); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bulletin: %w", err)
	}
	return nil
}

// writePart serializes doc into a new deflated zip entry.
func writePart(zw *zip.Writer, name string, doc *etree.Document) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := doc.WriteTo(fw); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func bulletinContentTypes() *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	for _, d := range []struct{ ext, contentType string }{
		{"rels", "application/vnd.openxmlformats-package.relationships+xml"},
		{"xml", "application/xml"},
	} {
		def := types.CreateElement("Default")
		def.CreateAttr("Extension", d.ext)
		def.CreateAttr("ContentType", d.contentType)
	}

	for _, o := range []struct{ part, contentType string }{
		{"/word/document.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
		{"/word/styles.xml", "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
	} {
		override := types.CreateElement("Override")
		override.CreateAttr("PartName", o.part)
		override.CreateAttr("ContentType", o.contentType)
	}
	return doc
}

func packageRels() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRelationships)
	addRelationship(rels, "rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument", "word/document.xml")
	addRelationship(rels, "rId2", "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties", "docProps/core.xml")
	return doc
}

func documentRels() *etree.Document {
	doc := newXMLDocument()
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRelationships)
	addRelationship(rels, "rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles", "styles.xml")
	return doc
}

func addRelationship(rels *etree.Element, id, relType, target string) {
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
}

func coreProperties(serviceDate string, now time.Time) *etree.Document {
	doc := newXMLDocument()
	props := doc.CreateElement("cp:coreProperties")
	props.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	props.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	props.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	props.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	title := "Order of Worship"
	if serviceDate != "" {
		title += " " + serviceDate
	}
	props.CreateElement("dc:title").SetText(title)

	created := props.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(now.UTC().Format(time.RFC3339))
	return doc
}

// paragraphStyle describes one custom paragraph style.
type paragraphStyle struct {
	id          string
	halfPoints  int
	italic      bool
	centered    bool
	spaceAfter  int
	spaceBefore int
}

var bulletinParagraphStyles = []paragraphStyle{
	{id: styleHeader, halfPoints: 20, italic: true, centered: true},
	{id: styleBody, halfPoints: 24, spaceAfter: 43},
	{id: styleSmallEmpty, halfPoints: 12},
}

func bulletinStyles() *etree.Document {
	doc := newXMLDocument()
	styles := doc.CreateElement("w:styles")
	styles.CreateAttr("xmlns:w", nsW)

	for _, s := range bulletinParagraphStyles {
		style := styles.CreateElement("w:style")
		style.CreateAttr("w:type", "paragraph")
		style.CreateAttr("w:customStyle", "1")
		style.CreateAttr("w:styleId", s.id)
		style.CreateElement("w:name").CreateAttr("w:val", s.id)
		style.CreateElement("w:qFormat")

		pPr := style.CreateElement("w:pPr")
		spacing := pPr.CreateElement("w:spacing")
		spacing.CreateAttr("w:before", fmt.Sprint(s.spaceBefore))
		spacing.CreateAttr("w:after", fmt.Sprint(s.spaceAfter))
		if s.centered {
			pPr.CreateElement("w:jc").CreateAttr("w:val", "center")
		}

		rPr := style.CreateElement("w:rPr")
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", bulletinFont)
		fonts.CreateAttr("w:hAnsi", bulletinFont)
		fonts.CreateAttr("w:cs", bulletinFont)
		if s.italic {
			rPr.CreateElement("w:i")
		}
		rPr.CreateElement("w:sz").CreateAttr("w:val", fmt.Sprint(s.halfPoints))
		rPr.CreateElement("w:szCs").CreateAttr("w:val", fmt.Sprint(s.halfPoints))
	}
	return doc
}

func bulletinBody(items []servicedoc.BulletinItem) *etree.Document {
	doc := newXMLDocument()
	document := doc.CreateElement("w:document")
	document.CreateAttr("xmlns:w", nsW)
	document.CreateAttr("xmlns:r", nsR)
	body := document.CreateElement("w:body")

	for _, text := range headerLines {
		addParagraph(body, styleHeader, text)
	}

	for _, item := range items {
		addBulletinLine(body, servicedoc.NewBulletinLine(item))
	}

	for range footerLines {
		addParagraph(body, styleSmallEmpty, " ")
	}

	addSection(body)
	return doc
}

func addParagraph(body *etree.Element, style, text string) *etree.Element {
	p := body.CreateElement("w:p")
	p.CreateElement("w:pPr").CreateElement("w:pStyle").CreateAttr("w:val", style)
	addRun(p, text, false, false)
	return p
}

// addBulletinLine writes one item with dotted-leader tab stops: a single
// right stop when there is no description, centre and right stops otherwise.
func addBulletinLine(body *etree.Element, line servicedoc.BulletinLine) {
	p := body.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	pPr.CreateElement("w:pStyle").CreateAttr("w:val", styleBody)

	tabs := pPr.CreateElement("w:tabs")
	if line.Description != "" {
		addTab(tabs, "center", centerTab)
	}
	addTab(tabs, "right", rightTab)

	addRun(p, line.String(), false, line.NeedsPersonnel)

	if line.ChildrenRelease {
		release := body.CreateElement("w:p")
		releasePr := release.CreateElement("w:pPr")
		releasePr.CreateElement("w:pStyle").CreateAttr("w:val", styleBody)
		releasePr.CreateElement("w:jc").CreateAttr("w:val", "center")
		addRun(release, servicedoc.ChildrenReleaseLine, true, false)
	}
}

func addTab(tabs *etree.Element, align string, pos float64) {
	tab := tabs.CreateElement("w:tab")
	tab.CreateAttr("w:val", align)
	tab.CreateAttr("w:leader", "dot")
	tab.CreateAttr("w:pos", fmt.Sprint(int(pos)))
}

// addRun appends a run to p. Tab characters become w:tab elements.
func addRun(p *etree.Element, text string, italic, highlight bool) {
	r := p.CreateElement("w:r")
	if italic || highlight {
		rPr := r.CreateElement("w:rPr")
		if italic {
			rPr.CreateElement("w:i")
		}
		if highlight {
			rPr.CreateElement("w:highlight").CreateAttr("w:val", "yellow")
		}
	}
	for i, segment := range strings.Split(text, "\t") {
		if i > 0 {
			r.CreateElement("w:tab")
		}
		if segment == "" {
			continue
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(segment)
	}
}

func addSection(body *etree.Element) {
	sectPr := body.CreateElement("w:sectPr")

	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", fmt.Sprint(int(pageWidth)))
	pgSz.CreateAttr("w:h", fmt.Sprint(int(pageHeight)))

	pgMar := sectPr.CreateElement("w:pgMar")
	pgMar.CreateAttr("w:top", fmt.Sprint(int(marginVertical)))
	pgMar.CreateAttr("w:bottom", fmt.Sprint(int(marginVertical)))
	pgMar.CreateAttr("w:left", fmt.Sprint(int(marginHorizontal)))
	pgMar.CreateAttr("w:right", fmt.Sprint(int(marginHorizontal)))
	pgMar.CreateAttr("w:header", "720")
	pgMar.CreateAttr("w:footer", "720")
	pgMar.CreateAttr("w:gutter", "0")
}
