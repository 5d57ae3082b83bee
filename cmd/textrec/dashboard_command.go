package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"textrec/internal/tui"
)

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard [corpus files...]",
		Short: "Open the interactive recommendation dashboard",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			closer, err := initLogging(cfg, true)
			if err != nil {
				return err
			}
			defer closer.Close()

			c, err := loadCorpus(cfg, args)
			if err != nil {
				return err
			}
			svc := newService(cfg, c)
			m := tui.New(svc, tui.Options{
				InputField:   cfg.Corpus.InputField,
				OutputFields: cfg.Corpus.OutputFields,
				TopN:         cfg.Recommender.TopN,
				Timeout:      time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second,
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}
