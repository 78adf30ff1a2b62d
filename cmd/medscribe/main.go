// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medscribe CLI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medscribe/internal/pipeline"
	"github.com/pdiddy/medscribe/internal/secrets"
	"github.com/pdiddy/medscribe/internal/sentiment"
	"github.com/pdiddy/medscribe/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is replaced with a development logger when --verbose is set.
var logger = zap.NewNop()

// rootCmd is the base command for the medscribe CLI.
var rootCmd = &cobra.Command{
	Use:   "medscribe",
	Short: "Turn doctor-patient transcripts into structured clinical notes",
	Long: `medscribe analyzes free-text transcripts of medical consultations. It
produces a structured summary of the patient's condition, a sentiment and
intent label for patient utterances, and a SOAP note.

Transcripts are plain text with "Physician:" / "Patient:" speaker labels and
optional YAML frontmatter (patient, exam). Results are printed as JSON, or
YAML with --yaml, and can be saved to a local SQLite archive with --save.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./medscribe.yaml or ~/.config/medscribe/medscribe.yaml)")
	pf.String("secrets-dir", ".secrets/", "directory of API key files")
	pf.BoolP("verbose", "v", false, "log pipeline decisions to stderr")
	pf.Bool("yaml", false, "print results as YAML instead of JSON")
	pf.String("backend", "", "sentiment backend: lexicon, claude, gemini, or none")
	pf.String("keywords", "", "keyword strategy: auto, yake, or chunks")
	pf.String("archive-dir", "", "archive directory holding medscribe.db")

	_ = viper.BindPFlag("sentiment.backend", pf.Lookup("backend"))
	_ = viper.BindPFlag("keywords.strategy", pf.Lookup("keywords"))
	_ = viper.BindPFlag("archive.dir", pf.Lookup("archive-dir"))

	setConfigDefaults(types.DefaultPipelineConfig())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medscribe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medscribe"))
		}
	}

	viper.SetEnvPrefix("MEDSCRIBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setConfigDefaults(d types.PipelineConfig) {
	viper.SetDefault("keywords.strategy", string(d.Keywords.Strategy))
	viper.SetDefault("keywords.top_k", d.Keywords.TopK)
	viper.SetDefault("keywords.max_ngram", d.Keywords.MaxNGram)
	viper.SetDefault("sentiment.backend", string(d.Sentiment.Backend))
	viper.SetDefault("sentiment.model", d.Sentiment.Model)
	viper.SetDefault("sentiment.max_retries", d.Sentiment.MaxRetries)
	viper.SetDefault("sentiment.timeout", d.Sentiment.Timeout)
	viper.SetDefault("sentiment.user_agent", d.Sentiment.UserAgent)
	viper.SetDefault("sentiment.max_chars", d.Sentiment.MaxChars)
	viper.SetDefault("archive.dir", d.Archive.Dir)
	viper.SetDefault("archive.max_results", d.Archive.MaxResults)
	viper.SetDefault("convert.runtime", d.Convert.Runtime)
	viper.SetDefault("convert.image", d.Convert.Image)
	viper.SetDefault("convert.output_dir", d.Convert.OutputDir)
}

// loadConfig assembles the pipeline configuration from defaults, the
// config file, MEDSCRIBE_* environment variables and flags.
func loadConfig() types.PipelineConfig {
	d := types.DefaultPipelineConfig()

	cfg := types.PipelineConfig{
		Keywords: types.KeywordConfig{
			Strategy: types.KeywordStrategy(stringOr("keywords.strategy", string(d.Keywords.Strategy))),
			TopK:     viper.GetInt("keywords.top_k"),
			MaxNGram: viper.GetInt("keywords.max_ngram"),
		},
		Sentiment: types.SentimentConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("sentiment.model"),
				APIKey:     viper.GetString("sentiment.api_key"),
				MaxRetries: viper.GetInt("sentiment.max_retries"),
			},
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("sentiment.timeout"),
				UserAgent: viper.GetString("sentiment.user_agent"),
			},
			Backend:  types.SentimentBackend(stringOr("sentiment.backend", string(d.Sentiment.Backend))),
			MaxChars: viper.GetInt("sentiment.max_chars"),
		},
		Archive: types.ArchiveConfig{
			Dir:        stringOr("archive.dir", d.Archive.Dir),
			MaxResults: viper.GetInt("archive.max_results"),
		},
		Convert: types.ConvertConfig{
			Runtime:   viper.GetString("convert.runtime"),
			Image:     stringOr("convert.image", d.Convert.Image),
			OutputDir: stringOr("convert.output_dir", d.Convert.OutputDir),
		},
	}
	cfg.Sentiment.APIKey = secrets.Lookup(loadedSecrets, secrets.KeyFor(cfg.Sentiment.Backend), cfg.Sentiment.APIKey)
	return cfg
}

// stringOr returns the viper value for key, or fallback when it is empty.
func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

// newPipeline builds a Pipeline from the loaded configuration.
func newPipeline(ctx context.Context) (*pipeline.Pipeline, types.PipelineConfig, error) {
	cfg := loadConfig()
	classifier, err := sentiment.New(ctx, cfg.Sentiment)
	switch {
	case errors.Is(err, sentiment.ErrUnknownBackend):
		return nil, cfg, err
	case err != nil:
		logger.Warn("sentiment backend unavailable, reporting neutral",
			zap.String("backend", string(cfg.Sentiment.Backend)), zap.Error(err))
		classifier = nil
	}
	logger.Debug("pipeline configured",
		zap.String("keywords", string(cfg.Keywords.Strategy)),
		zap.String("sentiment", string(cfg.Sentiment.Backend)))
	p, err := pipeline.New(cfg, classifier, logger)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}

// writeOutput prints v as indented JSON, or YAML when --yaml is set.
func writeOutput(cmd *cobra.Command, v any) error {
	asYAML, _ := cmd.Flags().GetBool("yaml")
	return encode(cmd.OutOrStdout(), v, asYAML)
}

func encode(w io.Writer, v any, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
