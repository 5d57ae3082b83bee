package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"textrec/internal/config"
	"textrec/internal/corpus"
	"textrec/internal/domain"
	"textrec/internal/logging"
	"textrec/internal/ranker"
	"textrec/internal/service"
	"textrec/internal/summarizer"
)

type commandContext struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	root := &cobra.Command{
		Use:           "textrec",
		Short:         "Recommend similar text items with TF-IDF and cosine similarity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&ctx.configPath, "config", "", "Path to YAML or TOML config (default ./config.yaml, then ~/.config/textrec/config.yaml)")
	root.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error, disabled)")
	root.PersistentFlags().StringVar(&ctx.logFormat, "log-format", "", "Log format override (json, console)")

	dashboard := newDashboardCommand(ctx)
	root.AddCommand(dashboard)
	root.AddCommand(newRecommendCommand(ctx))
	root.AddCommand(newServeCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))

	// Bare "textrec [files...]" opens the dashboard.
	root.Args = dashboard.Args
	root.RunE = dashboard.RunE
	return root
}

func (c *commandContext) loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if c.configPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(c.configPath)
	}
	if err != nil {
		return nil, err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if c.logFormat != "" {
		cfg.Logging.Format = c.logFormat
	}
	return cfg, nil
}

// initLogging configures the global logger. With quiet set, logs only go to the
// configured file, since the terminal belongs to the dashboard.
func initLogging(cfg *config.AppConfig, quiet bool) (io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	} else if quiet {
		out = io.Discard
	}
	format := cfg.Logging.Format
	if cfg.Logging.File != "" {
		format = "json"
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: format, Output: out})
	return closer, nil
}

// loadCorpus reads the corpus from args, falling back to the configured paths and
// then to the built-in example.
func loadCorpus(cfg *config.AppConfig, args []string) (*domain.Corpus, error) {
	paths := args
	if len(paths) == 0 {
		paths = cfg.Corpus.Paths
	}
	if len(paths) == 0 {
		logging.Info().Msg("no corpus files given, using the built-in example")
		return corpus.Example(), nil
	}
	c, err := corpus.Load(paths, corpus.LoadOptions{
		Field:            cfg.Corpus.InputField,
		Split:            cfg.Corpus.Split,
		SentencesPerRow:  cfg.Corpus.SentencesPerRow,
		OverlapSentences: cfg.Corpus.OverlapSentences,
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Int("rows", c.Len()).Strs("columns", c.Columns).Msg("corpus loaded")
	return c, nil
}

func newService(cfg *config.AppConfig, c *domain.Corpus) *service.RecommendService {
	return service.NewRecommendService(c, summarizer.NewFrequencySummarizer(), service.Options{
		InputField:          cfg.Corpus.InputField,
		OutputFields:        cfg.Corpus.OutputFields,
		TopN:                cfg.Recommender.TopN,
		Exclusion:           ranker.ExclusionPolicy(cfg.Recommender.SelfExclusion),
		CacheSize:           cfg.Recommender.CacheSize,
		SummaryMaxSentences: cfg.Recommender.SummarySentences,
	})
}
