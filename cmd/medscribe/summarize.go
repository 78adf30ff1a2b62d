// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/medscribe/internal/archive"
	"github.com/pdiddy/medscribe/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <transcript>",
	Short: "Produce a structured medical summary from a transcript",
	Long: `Summarize extracts the patient name, symptoms, diagnosis, treatment,
current status, prognosis and top keywords from a transcript file ("-" reads
stdin).

--patient overrides the name found in the transcript or its frontmatter.
--save stores the summary, SOAP note and sentiment in the archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	patient, _ := cmd.Flags().GetString("patient")
	save, _ := cmd.Flags().GetBool("save")

	t, err := loadTranscript(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, cfg, err := newPipeline(ctx)
	if err != nil {
		return err
	}

	if !save {
		if patient == "" {
			patient = t.Meta.Patient
		}
		return writeOutput(cmd, p.Summarize(ctx, t.Body, patient))
	}

	rec := p.Process(ctx, t, patient, "")
	if err := saveRecord(cmd, cfg.Archive, &rec); err != nil {
		return err
	}
	return writeOutput(cmd, rec.Report)
}

// saveRecord stores rec in the archive and reports the ID on stderr so
// stdout stays machine-readable.
func saveRecord(cmd *cobra.Command, cfg types.ArchiveConfig, rec *types.Record) error {
	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	updated, err := store.Save(cmd.Context(), rec)
	if err != nil {
		return err
	}
	verb := "saved"
	if updated {
		verb = "updated"
	}
	logger.Info("archived record", zap.String("id", rec.ID), zap.Bool("updated", updated))
	fmt.Fprintf(os.Stderr, "%s record %s in %s\n", verb, rec.ID, store.Dir())
	return nil
}

func init() {
	summarizeCmd.Flags().String("patient", "", "patient name (overrides the extracted name)")
	summarizeCmd.Flags().Bool("save", false, "store the result in the archive")

	rootCmd.AddCommand(summarizeCmd)
}
