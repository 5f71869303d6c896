package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/servicedoc"
	"github.com/fwojciec/servicedoc/fs"
)

// Run executes the bulletin command.
func (c *BulletinCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	items, err := decodeBulletinItems(data)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	doc := &servicedoc.BulletinDocument{Items: items, ServiceDate: c.Date}
	if doc.ServiceDate == "" {
		doc.ServiceDate = deps.Now().Format("2006-01-02")
	}
	doc.Filename = c.Output
	if doc.Filename == "" {
		doc.Filename = fmt.Sprintf("bulletin_%s.docx", doc.ServiceDate)
	}

	if err := fs.WriteFile(doc.Filename, func(w io.Writer) error {
		return deps.Bulletins.RenderBulletin(deps.Ctx, w, doc)
	}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%d items)\n", doc.Filename, len(items))
	return nil
}

// decodeBulletinItems accepts a parse result or a bare list of items.
func decodeBulletinItems(data []byte) ([]servicedoc.BulletinItem, error) {
	var items []servicedoc.BulletinItem
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}
	var res servicedoc.ParseResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, servicedoc.Errorf(servicedoc.EINVALID, "invalid bulletin JSON: %v", err)
	}
	return res.Data, nil
}
