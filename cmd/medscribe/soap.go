// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var soapCmd = &cobra.Command{
	Use:   "soap <transcript>",
	Short: "Generate a SOAP note from a transcript",
	Long: `SOAP maps the fields extracted from a transcript into Subjective,
Objective, Assessment and Plan sections. Sections the transcript does not
cover are filled with conservative defaults.

--exam supplies the physical exam finding; otherwise the transcript's
frontmatter "exam" value is used, then a default.`,
	Args: cobra.ExactArgs(1),
	RunE: runSOAP,
}

func runSOAP(cmd *cobra.Command, args []string) error {
	exam, _ := cmd.Flags().GetString("exam")
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
		if exam == "" {
			exam = t.Meta.Exam
		}
		return writeOutput(cmd, p.GenerateSOAP(ctx, t.Body, exam))
	}

	rec := p.Process(ctx, t, "", exam)
	if err := saveRecord(cmd, cfg.Archive, &rec); err != nil {
		return err
	}
	return writeOutput(cmd, rec.SOAP)
}

func init() {
	soapCmd.Flags().String("exam", "", "physical exam finding for the Objective section")
	soapCmd.Flags().Bool("save", false, "store the result in the archive")

	rootCmd.AddCommand(soapCmd)
}
