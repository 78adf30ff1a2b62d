// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/internal/container"
	"github.com/pdiddy/medscribe/internal/convert"
	"github.com/pdiddy/medscribe/internal/transcript"
	"github.com/pdiddy/medscribe/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <document>...",
	Short: "Convert PDF, DOCX or HTML transcripts to plain text",
	Long: `Convert runs each document through the markitdown container image and
writes <name>.txt to the output directory (default "transcripts"), with the
source recorded in frontmatter. Existing outputs are skipped unless --force
is given.

summarize, soap and sentiment --transcript also accept documents directly;
they convert in memory without writing a file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	outDir, _ := cmd.Flags().GetString("output")

	cfg := loadConfig().Convert
	if outDir == "" {
		outDir = cfg.OutputDir
	}

	conv, err := newConverter(cfg)
	if err != nil {
		return err
	}

	result := convert.ConvertBatch(cmd.Context(), conv, args,
		convert.Options{OutputDir: outDir, Force: force}, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

func newConverter(cfg types.ConvertConfig) (convert.Converter, error) {
	rt, err := container.DetectRuntime(cfg.Runtime)
	if err != nil {
		return nil, err
	}
	logger.Debug("container runtime detected", zap.String("runtime", rt.Name()))
	return convert.NewMarkitdownConverter(rt, cfg.Image)
}

// loadTranscript reads a transcript file, converting documents on the fly.
func loadTranscript(ctx context.Context, path string) (*transcript.Transcript, error) {
	if !convert.NeedsConversion(path) {
		return transcript.Load(path)
	}
	conv, err := newConverter(loadConfig().Convert)
	if err != nil {
		return nil, fmt.Errorf("%s needs conversion: %w", path, err)
	}
	return convert.Load(ctx, conv, path)
}

func init() {
	convertCmd.Flags().String("output", "", "output directory (default from convert.output_dir)")
	convertCmd.Flags().Bool("force", false, "re-convert documents whose output exists")

	rootCmd.AddCommand(convertCmd)
}
