package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// CorpusConfig selects the corpus files and how plain text is split into rows.
type CorpusConfig struct {
	Paths            []string `yaml:"paths" toml:"paths"`
	InputField       string   `yaml:"input_field" toml:"input_field" validate:"required"`
	OutputFields     []string `yaml:"output_fields" toml:"output_fields"`
	Split            string   `yaml:"split" toml:"split" validate:"oneof=line sentence"`
	SentencesPerRow  int      `yaml:"sentences_per_row" toml:"sentences_per_row" validate:"min=1"`
	OverlapSentences int      `yaml:"overlap_sentences" toml:"overlap_sentences" validate:"min=0,ltfield=SentencesPerRow"`
}

// RecommenderConfig configures ranking.
type RecommenderConfig struct {
	TopN             int    `yaml:"top_n" toml:"top_n" validate:"min=2,max=19"`
	SelfExclusion    string `yaml:"self_exclusion" toml:"self_exclusion" validate:"oneof=index first_ranked"`
	CacheSize        int    `yaml:"cache_size" toml:"cache_size" validate:"min=0"`
	SummarySentences int    `yaml:"summary_sentences" toml:"summary_sentences" validate:"min=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string `yaml:"addr" toml:"addr" validate:"required"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs" toml:"request_timeout_secs" validate:"min=1"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" toml:"rate_limit_per_minute" validate:"min=0"`
	// CORSOrigins enables CORS for the listed origins; empty disables it.
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `yaml:"format" toml:"format" validate:"oneof=json console"`
	File   string `yaml:"file" toml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus      CorpusConfig      `yaml:"corpus" toml:"corpus"`
	Recommender RecommenderConfig `yaml:"recommender" toml:"recommender"`
	Server      ServerConfig      `yaml:"server" toml:"server"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
}

// Load reads a config from path, YAML or TOML by extension. A missing file yields
// the defaults. Environment overrides are applied and the result validated.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml, ./config.toml, then ~/.config/textrec/config.yaml.
// If none exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	for _, p := range []string{"config.yaml", "config.toml"} {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, defaultConfig()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns a fresh default configuration.
func Default() *AppConfig { return defaultConfig() }

// DefaultUserConfigPath returns ~/.config/textrec/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textrec", "config.yaml"), nil
}

func unmarshal(path string, data []byte, cfg *AppConfig) error {
	if isTOML(path) {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{
			InputField:      "texts",
			OutputFields:    []string{"texts"},
			Split:           "line",
			SentencesPerRow: 1,
		},
		Recommender: RecommenderConfig{TopN: 5, SelfExclusion: "index", SummarySentences: 2},
		Server:      ServerConfig{Addr: ":8080", RequestTimeoutSecs: 10, RateLimitPerMinute: 120},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Split == "" {
		cfg.Corpus.Split = "line"
	}
	if cfg.Corpus.SentencesPerRow == 0 {
		cfg.Corpus.SentencesPerRow = 1
	}
	if len(cfg.Corpus.OutputFields) == 0 && cfg.Corpus.InputField != "" {
		cfg.Corpus.OutputFields = []string{cfg.Corpus.InputField}
	}
	if cfg.Recommender.SelfExclusion == "" {
		cfg.Recommender.SelfExclusion = "index"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

// applyEnvOverrides applies TEXTREC_* variables on top of file values.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("TEXTREC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("TEXTREC_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("TEXTREC_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TEXTREC_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Recommender.TopN = n
		}
	}
	if v := os.Getenv("TEXTREC_CORPUS"); v != "" {
		cfg.Corpus.Paths = strings.Split(v, string(os.PathListSeparator))
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg and reports every failing field.
func Validate(cfg *AppConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.ActualTag()+paramSuffix(fe.Param()), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}
