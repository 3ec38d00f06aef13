package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/surf-terminal/internal/ui"
)

type globalFlags struct {
	configPath  string
	metricsAddr string
}

// RootCommand creates the root command. Run without a subcommand it starts the TUI.
func RootCommand() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "surf-terminal",
		Short:         "Browse surf spots, forecasts and reviews from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to surf-terminal.yaml")
	cmd.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(
		LoginCommand(flags),
		LogoutCommand(flags),
		SpotsCommand(flags),
	)
	return cmd
}

func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	a, err := newApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	stop := a.serveMetrics()
	defer stop()

	m := ui.NewModel(ui.Deps{
		Gateway:     a.client,
		Identity:    a.identity,
		Logger:      a.logger,
		ReviewLimit: a.cfg.UI.ReviewLimit,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	unbind := m.Bind(p.Send)
	defer unbind()

	if _, err := p.Run(); err != nil {
		a.logger.Error("program exited", "error", err)
		return err
	}
	return nil
}
