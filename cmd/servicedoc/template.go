package main

import (
	"fmt"

	"github.com/fwojciec/servicedoc"
)

// Run executes the template add command.
func (c *TemplateAddCmd) Run(deps *Dependencies) error {
	templates, err := readTemplates(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	for _, tmpl := range templates {
		if tmpl == nil {
			continue
		}

		// Force mode: delete existing template first
		if c.Force {
			existing, err := deps.Templates.FindTemplates(deps.Ctx, servicedoc.TemplateFilter{Name: &tmpl.Name})
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
				return err
			}
			for _, e := range existing {
				if err := deps.Templates.DeleteTemplate(deps.Ctx, e.ID); err != nil {
					fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
					return err
				}
			}
		}

		if err := deps.Templates.CreateTemplate(deps.Ctx, tmpl); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Added template %q (%s)\n", tmpl.Name, tmpl.ID)
	}

	return nil
}

// Run executes the template list command.
func (c *TemplateListCmd) Run(deps *Dependencies) error {
	templates, err := deps.Templates.FindTemplates(deps.Ctx, servicedoc.TemplateFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	if len(templates) == 0 {
		fmt.Fprintln(deps.Stdout, "No templates found. Use 'servicedoc template add' to create one.")
		return nil
	}

	for _, t := range templates {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d items\n", t.ID, t.Name, len(t.Items))
	}

	return nil
}

// Run executes the template delete command.
func (c *TemplateDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return servicedoc.Errorf(servicedoc.EINVALID, "use --force to confirm deletion")
	}

	templates, err := deps.Templates.FindTemplates(deps.Ctx, servicedoc.TemplateFilter{Name: &c.Name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	if len(templates) == 0 {
		fmt.Fprintf(deps.Stderr, "error: template %q not found. Use 'servicedoc template list' to see stored templates.\n", c.Name)
		return servicedoc.Errorf(servicedoc.ENOTFOUND, "template %q not found", c.Name)
	}

	template := templates[0]
	if err := deps.Templates.DeleteTemplate(deps.Ctx, template.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", servicedoc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted template %q\n", template.Name)
	return nil
}
