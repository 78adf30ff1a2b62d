// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medscribe/internal/archive"
	"github.com/pdiddy/medscribe/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived consultations (list, show, export, import, delete)",
	Long: `Archive manages the local SQLite archive of processed consultations.
Records are added with "summarize --save" or "soap --save" and keyed by a
hash of the transcript, so re-processing a transcript updates its record.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List archived consultations, optionally filtered",
	Long: `List prints archived consultations, newest first. A query matches the
transcript or patient name; --patient, --diagnosis, --keyword and --symptom
narrow the results further.`,
	RunE: runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	records, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if len(records) == 0 && !jsonOutput && !opts.IsEmpty() {
		fmt.Fprintln(cmd.OutOrStdout(), "No records match the query.")
		return nil
	}
	return formatListOutput(cmd.OutOrStdout(), records, jsonOutput)
}

func formatListOutput(w io.Writer, records []types.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []types.Record{}
		}
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-20s  %-16s  %-24s  %-10s  %s\n",
		"ID", "Date", "Patient", "Diagnosis", "Sentiment", "Keywords")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range records {
		fmt.Fprintf(w, "%-12s  %-20s  %-16s  %-24s  %-10s  %s\n",
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			clip(r.Patient, 16),
			clip(r.Report.Diagnosis, 24),
			r.Sentiment.Sentiment,
			clip(strings.Join(r.Report.Keywords, ", "), 30))
	}

	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived consultation",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	part, _ := cmd.Flags().GetString("part")
	switch part {
	case "", "all":
		return writeOutput(cmd, rec)
	case "summary":
		return writeOutput(cmd, rec.Report)
	case "soap":
		return writeOutput(cmd, rec.SOAP)
	case "sentiment":
		return writeOutput(cmd, rec.Sentiment)
	default:
		return fmt.Errorf("unknown part %q: use all, summary, soap, or sentiment", part)
	}
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export the archive to YAML or JSON",
	Long: `Export writes every archived record (or a filtered subset) to
export.yaml or export.json in the archive directory. Supports the same
filter flags as list.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
	return nil
}

// --- import subcommand ---

var archiveImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load records from a YAML or JSON export",
	Long: `Import reads an export file and stores its records. Records already in
the archive with the same timestamp are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runArchiveImport,
}

func runArchiveImport(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Import(cmd.Context(), args[0], cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed to import", summary.Failed)
	}
	return nil
}

// --- delete subcommand ---

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an archived consultation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "deleted", args[0])
		return nil
	},
}

// --- shared helpers ---

func openArchive() (*archive.Store, error) {
	return archive.NewStore(loadConfig().Archive)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	patient, _ := cmd.Flags().GetString("patient")
	diagnosis, _ := cmd.Flags().GetString("diagnosis")
	keyword, _ := cmd.Flags().GetString("keyword")
	symptom, _ := cmd.Flags().GetString("symptom")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		Patient:    patient,
		Diagnosis:  diagnosis,
		Keyword:    keyword,
		Symptom:    symptom,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "substring of the transcript or patient name")
	cmd.Flags().String("patient", "", "filter by patient name substring")
	cmd.Flags().String("diagnosis", "", "filter by diagnosis")
	cmd.Flags().String("keyword", "", "filter by extracted keyword")
	cmd.Flags().String("symptom", "", "filter by extracted symptom")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	addFilterFlags(archiveListCmd)
	archiveListCmd.Flags().Bool("json", false, "output results as JSON")

	archiveShowCmd.Flags().String("part", "all", "section to print: all, summary, soap, or sentiment")

	addFilterFlags(archiveExportCmd)
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archiveImportCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	rootCmd.AddCommand(archiveCmd)
}
