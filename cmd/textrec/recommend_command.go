package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"textrec/internal/domain"
	"textrec/internal/httpapi"
)

type recommendFlags struct {
	query     string
	newQuery  bool
	topN      int
	input     string
	outputs   []string
	exclusion string
	json      bool
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	flags := &recommendFlags{}
	cmd := &cobra.Command{
		Use:   "recommend [corpus files...]",
		Short: "Print the most similar items for one query",
		Long: "Print the most similar items for one query. Without --query the first corpus row is used.\n" +
			"With --new the query is added to a working copy of the corpus before ranking.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("top") {
				cfg.Recommender.TopN = flags.topN
			}
			if flags.input != "" {
				cfg.Corpus.InputField = flags.input
				if !cmd.Flags().Changed("output") {
					cfg.Corpus.OutputFields = []string{flags.input}
				}
			}
			if len(flags.outputs) > 0 {
				cfg.Corpus.OutputFields = flags.outputs
			}
			if flags.exclusion != "" {
				cfg.Recommender.SelfExclusion = flags.exclusion
			}
			closer, err := initLogging(cfg, false)
			if err != nil {
				return err
			}
			defer closer.Close()

			c, err := loadCorpus(cfg, args)
			if err != nil {
				return err
			}
			svc := newService(cfg, c)

			var query *string
			if cmd.Flags().Changed("query") {
				query = &flags.query
			}
			req := svc.Request(query, flags.newQuery)
			req.TopN = cfg.Recommender.TopN
			res, err := svc.Recommend(context.Background(), req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, httpapi.ToJSON(res))
			}
			return printResult(out, res, cfg.Corpus.OutputFields, cfg.Recommender.TopN)
		},
	}
	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "Query text (default: first corpus row)")
	cmd.Flags().BoolVar(&flags.newQuery, "new", false, "Treat the query as a new item rather than an existing row")
	cmd.Flags().IntVarP(&flags.topN, "top", "n", 0, "Number of recommendations, 2 to 19 (default from config)")
	cmd.Flags().StringVar(&flags.input, "input", "", "Input field holding the text to compare")
	cmd.Flags().StringSliceVar(&flags.outputs, "output", nil, "Output fields to display")
	cmd.Flags().StringVar(&flags.exclusion, "self-exclusion", "", "How the query row is excluded: index or first_ranked")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Write JSON instead of a table")
	return cmd
}

func printResult(out io.Writer, res *domain.Result, outputs []string, topN int) error {
	fmt.Fprintf(out, "Top %d Recommendations for %q\n", topN, res.Query)
	fmt.Fprintln(out, resultTable(res, outputs, isTerminal(out)))
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
