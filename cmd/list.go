package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/initializ/modelcatalog/selector"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var selected string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the model catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			client, err := newCatalogClient(cfg, opts.logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			adopted := ""
			props := selector.Props{
				SelectedModel: selected,
				OnModelChange: func(id string) { adopted = id },
			}

			sel := selector.New(client, cfg.APIBaseURL, selector.WithLogger(opts.logger))
			sel.Load(ctx, props)

			current := selected
			if adopted != "" {
				current = adopted
			}
			return writeDirective(cmd.OutOrStdout(), sel.Directive(current), adopted != "")
		},
	}

	cmd.Flags().StringVar(&selected, "selected", "", "currently selected model id")
	return cmd
}

// writeDirective prints d as a plain list. A failed load is returned as an
// error instead.
func writeDirective(w io.Writer, d selector.Directive, adopted bool) error {
	switch d.Kind {
	case selector.ShowError:
		return errors.New(d.Message)
	case selector.ShowBusy:
		_, err := fmt.Fprintln(w, d.Message)
		return err
	case selector.ShowEmpty:
		_, err := fmt.Fprintf(w, "%s\n  %s\n", color.New(color.Bold).Sprint(d.Label), d.Message)
		return err
	}

	bold := color.New(color.Bold)
	active := color.New(color.FgGreen, color.Bold)
	faint := color.New(color.Faint)

	if _, err := fmt.Fprintln(w, bold.Sprint(d.Label)); err != nil {
		return err
	}
	for _, opt := range d.Options {
		marker, label := " ", opt.Label
		if opt.ID == d.Selected {
			marker, label = active.Sprint("●"), active.Sprint(opt.Label)
		}
		line := fmt.Sprintf("  %s %s", marker, label)
		if ann := opt.AnnotationText(); ann != "" {
			line += " " + faint.Sprint(ann)
		}
		if opt.Label != opt.ID {
			line += " " + faint.Sprint(opt.ID)
		}
		if adopted && opt.ID == d.Selected {
			line += " " + faint.Sprint("[default]")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
