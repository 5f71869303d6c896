package servicedoc_test

import (
	"testing"

	"github.com/fwojciec/servicedoc"
	"github.com/fwojciec/servicedoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleSpans(t *testing.T) {
	t.Parallel()

	t.Run("returns only span elements marked as title", func(t *testing.T) {
		t.Parallel()

		root := table(
			row("PRELUDE", ""),
			mock.Element("tr", "", mock.TextElement("div", "title", "not a span")),
			row("GREETING", ""),
		)

		spans := servicedoc.TitleSpans(root)

		require.Len(t, spans, 2)
		assert.Equal(t, "PRELUDE", spans[0].Text())
		assert.Equal(t, "GREETING", spans[1].Text())
	})

	t.Run("returns nil for nil root", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, servicedoc.TitleSpans(nil))
	})
}

func TestExtractItems(t *testing.T) {
	t.Parallel()

	t.Run("extracts text and description in document order", func(t *testing.T) {
		t.Parallel()

		root := table(
			row("PRELUDE", "Jane Smith, piano"),
			row("GREETING", ""),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 2)
		assert.Equal(t, servicedoc.RawItem{Text: "PRELUDE", Description: "Jane Smith, piano"}, items[0])
		assert.Equal(t, servicedoc.RawItem{Text: "GREETING"}, items[1])
	})

	t.Run("skips empty titles without advancing hymn count", func(t *testing.T) {
		t.Parallel()

		root := table(
			row("   ", ""),
			row("HYMN: Amazing Grace", ""),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].HymnPosition)
	})

	t.Run("section headers set a sticky upper-cased section and are not emitted", func(t *testing.T) {
		t.Parallel()

		root := table(
			row("PRELUDE", ""),
			header("Gathering"),
			row("GREETING", ""),
			row("CALL TO WORSHIP", ""),
			header("Sending Forth"),
			row("BENEDICTION", ""),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 4)
		assert.Empty(t, items[0].Section)
		assert.Equal(t, "GATHERING", items[1].Section)
		assert.Equal(t, "GATHERING", items[2].Section)
		assert.Equal(t, "SENDING FORTH", items[3].Section)
	})

	t.Run("counts hymns case-insensitively", func(t *testing.T) {
		t.Parallel()

		root := table(
			row("Opening hymn", ""),
			row("PRAYER", ""),
			row("HYMN OF PREPARATION", ""),
			row("closing Hymn", ""),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 4)
		assert.Equal(t, 1, items[0].HymnPosition)
		assert.Equal(t, 0, items[1].HymnPosition)
		assert.Equal(t, 2, items[2].HymnPosition)
		assert.Equal(t, 3, items[3].HymnPosition)
	})

	t.Run("finds description in a following sibling", func(t *testing.T) {
		t.Parallel()

		root := table(
			mock.Element("tr", "",
				mock.Element("td", "", mock.TextElement("span", "title", "SCRIPTURE")),
				mock.TextElement("td", "", "spacer"),
				mock.TextElement("td", "item--description", "John 3:16"),
			),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 1)
		assert.Equal(t, "John 3:16", items[0].Description)
	})

	t.Run("finds description nested in a following sibling", func(t *testing.T) {
		t.Parallel()

		root := table(
			mock.Element("tr", "",
				mock.Element("td", "", mock.TextElement("span", "title", "SERMON")),
				mock.Element("td", "", mock.TextElement("p", "item--description", "Rev. Ann Lee")),
			),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 1)
		assert.Equal(t, "Rev. Ann Lee", items[0].Description)
	})

	t.Run("first description wins", func(t *testing.T) {
		t.Parallel()

		root := table(
			mock.Element("tr", "",
				mock.Element("td", "",
					mock.TextElement("span", "title", "SERMON"),
					mock.TextElement("div", "item--description", "first"),
				),
				mock.TextElement("td", "item--description", "second"),
			),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 1)
		assert.Equal(t, "first", items[0].Description)
	})

	t.Run("header without header cell keeps previous section", func(t *testing.T) {
		t.Parallel()

		root := table(
			header("Gathering"),
			mock.Element("tr", "header-wrapper",
				mock.Element("td", "", mock.TextElement("span", "title", "Untitled")),
			),
			row("GREETING", ""),
		)

		items := servicedoc.ExtractItems(servicedoc.TitleSpans(root))

		require.Len(t, items, 1)
		assert.Equal(t, "GATHERING", items[0].Section)
	})
}

func TestIsHymn(t *testing.T) {
	t.Parallel()

	assert.True(t, servicedoc.IsHymn("Closing HYMN"))
	assert.True(t, servicedoc.IsHymn("hymnal reading"))
	assert.False(t, servicedoc.IsHymn("Anthem"))
}
