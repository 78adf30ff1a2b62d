// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medscribe/internal/transcript"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in sample consultation through every output",
	Long: `Demo prints a structured summary, a sentiment and intent label, and a
SOAP note for a built-in whiplash follow-up consultation. Use --full for the
long transcript; the default is a condensed version.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	full, _ := cmd.Flags().GetBool("full")

	text, patient, exam := transcript.SampleBrief, transcript.SampleBriefPatient, ""
	if full {
		text, exam = transcript.SampleConsultation, transcript.SampleExam
	}

	ctx := cmd.Context()
	p, _, err := newPipeline(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Structured summary:")
	if err := writeOutput(cmd, p.Summarize(ctx, text, patient)); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nSentiment & Intent:")
	if err := writeOutput(cmd, p.SentimentAndIntent(ctx, transcript.SampleUtterance)); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nSOAP:")
	return writeOutput(cmd, p.GenerateSOAP(ctx, text, exam))
}

func init() {
	demoCmd.Flags().Bool("full", false, "use the full-length sample consultation")

	rootCmd.AddCommand(demoCmd)
}
