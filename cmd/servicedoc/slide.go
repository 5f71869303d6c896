package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/servicedoc"
	"github.com/fwojciec/servicedoc/fs"
)

// Run executes the slide render command.
func (c *SlideRenderCmd) Run(deps *Dependencies) error {
	output := c.Output
	if output == "" {
		output = c.Template + ".pptx"
	}

	replacements := c.Set
	if replacements == nil {
		replacements = map[string]string{}
	}

	if err := fs.WriteFile(output, func(w io.Writer) error {
		return deps.Slides.RenderSlide(deps.Ctx, w, c.Template, replacements)
	}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", output)
	return nil
}

// Run executes the slide list command.
func (c *SlideListCmd) Run(deps *Dependencies) error {
	names, err := deps.Slides.SlideTemplates(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(deps.Stdout, "No slide templates found. Add .pptx files to the --slides-dir directory.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
