package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/servicedoc"
	"gopkg.in/yaml.v3"
)

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if !utf8.Valid(content) {
		fmt.Fprintf(deps.Stderr, "error: %s is not UTF-8 encoded\n", c.File)
		return servicedoc.Errorf(servicedoc.EINVALID, "%s is not UTF-8 encoded", c.File)
	}

	templates, err := c.templates(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	personnel := c.Personnel
	if len(personnel) == 0 {
		personnel, err = deps.Personnel.Roster(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
			return err
		}
	}

	res, err := deps.Parser.Parse(deps.Ctx, &servicedoc.ParseRequest{
		HTML:      string(content),
		Templates: templates,
		Personnel: personnel,
		Filename:  filepath.Base(c.File),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	if c.Text {
		if out := servicedoc.FormatBulletin(res.Data); out != "" {
			fmt.Fprintln(deps.Stdout, out)
		}
		return nil
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// templates resolves the candidate templates: a named stored template, a
// JSON file, or every stored template.
func (c *ParseCmd) templates(deps *Dependencies) ([]*servicedoc.Template, error) {
	switch {
	case c.Template != "":
		found, err := deps.Templates.FindTemplates(deps.Ctx, servicedoc.TemplateFilter{Name: &c.Template, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, servicedoc.Errorf(servicedoc.ENOTFOUND, "template %q not found. Use 'servicedoc template list' to see stored templates.", c.Template)
		}
		return found, nil
	case c.Templates != "":
		return readTemplates(c.Templates)
	default:
		return deps.Templates.FindTemplates(deps.Ctx, servicedoc.TemplateFilter{})
	}
}

// readTemplates reads a JSON or YAML file holding one template or a list
// of them.
func readTemplates(path string) ([]*servicedoc.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeOneOrMany[*servicedoc.Template](data, yaml.Unmarshal)
	default:
		return decodeOneOrMany[*servicedoc.Template](data, json.Unmarshal)
	}
}

// decodeOneOrMany decodes a list of T or a single T.
func decodeOneOrMany[T any](data []byte, unmarshal func([]byte, any) error) ([]T, error) {
	var many []T
	if err := unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one T
	if err := unmarshal(data, &one); err != nil {
		return nil, servicedoc.Errorf(servicedoc.EINVALID, "invalid template file: %v", err)
	}
	return []T{one}, nil
}
