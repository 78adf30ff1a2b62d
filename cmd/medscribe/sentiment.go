// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [text...]",
	Short: "Classify the sentiment and intent of a patient utterance",
	Long: `Sentiment labels patient text as Anxious, Neutral or Reassured and
detects its intent (Seeking reassurance, Reporting symptoms, Reassured, Other).

Text comes from the arguments, from --file, or from the patient turns of a
transcript given with --transcript. The backend is chosen with --backend or
the sentiment.backend config key.`,
	RunE: runSentiment,
}

func runSentiment(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	transcriptPath, _ := cmd.Flags().GetString("transcript")

	var text string
	switch {
	case transcriptPath != "":
		t, err := loadTranscript(cmd.Context(), transcriptPath)
		if err != nil {
			return err
		}
		text = t.PatientText()
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		text = string(data)
	default:
		text = strings.Join(args, " ")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text: pass it as arguments, --file, or --transcript")
	}

	ctx := cmd.Context()
	p, _, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	return writeOutput(cmd, p.SentimentAndIntent(ctx, text))
}

func init() {
	sentimentCmd.Flags().String("file", "", "read the utterance from a file")
	sentimentCmd.Flags().String("transcript", "", "classify the patient turns of a transcript file")
	sentimentCmd.MarkFlagsMutuallyExclusive("file", "transcript")

	rootCmd.AddCommand(sentimentCmd)
}
