package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/initializ/modelcatalog/internal/tui"
	"github.com/initializ/modelcatalog/internal/tui/steps"
	"github.com/initializ/modelcatalog/selector"
)

var errNoSelection = errors.New("no model selected")

func newPickCmd(opts *rootOptions) *cobra.Command {
	var (
		selected string
		theme    string
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a model interactively and print its id",
		Long: "Fetch the model catalog and show an interactive picker. The chosen " +
			"model id is printed to stdout; the picker itself draws on stderr.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("pick requires an interactive terminal; use 'modelcatalog list' instead")
			}

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

			styles := tui.NewStyleSet(tui.DetectTheme(theme))
			sel := selector.New(client, cfg.APIBaseURL, selector.WithLogger(opts.logger))
			picker := tui.NewPicker(styles, steps.NewModelStep(styles, sel), selected)

			prog := tea.NewProgram(picker, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("running picker: %w", err)
			}

			if !picker.Confirmed() {
				return errNoSelection
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), picker.Selected())
			return err
		},
	}

	cmd.Flags().StringVar(&selected, "selected", "", "currently selected model id")
	cmd.Flags().StringVar(&theme, "theme", "", "color theme: dark or light (default: detect)")
	return cmd
}
