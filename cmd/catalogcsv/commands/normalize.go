package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"catalogcsv/internal/csvio"
	"catalogcsv/internal/formatter"
	"catalogcsv/internal/normalizer"
	"catalogcsv/pkg/checksum"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var (
		file   string
		dryRun bool
		backup bool
	)

	cmd := &cobra.Command{
		Use:   "normalize [--file export.csv] [--dry-run] [--backup]",
		Short: "Pads or truncates every row of an export CSV to the header width, in place.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("file") {
				a.cfg.Normalize.File = file
			}

			if flags.Changed("dry-run") {
				a.cfg.Normalize.DryRun = dryRun
			}

			if flags.Changed("backup") {
				a.cfg.Output.CreateBackup = backup
			}

			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runNormalize()
		},
	}

	cmd.Flags().StringVar(&file, "file", "export.csv", "CSV file to repair in place")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report repairs without writing")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep the previous file as <file>.bak")

	return cmd
}

func (a *app) runNormalize() error {
	path := a.cfg.Normalize.File
	log := a.log.With("file", path)

	rows, raw, err := csvio.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := normalizer.NewProcessor(log).Process(rows)
	if errors.Is(err, normalizer.ErrEmptyInput) {
		log.Info("No rows found in CSV, nothing written")
		return nil
	}

	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	data, err := csvio.Encode(result.Rows, csvio.EncodeOptions{CRLF: a.cfg.Output.CRLF()})
	if err != nil {
		return err
	}

	before, after := checksum.Sum(raw), checksum.Sum(data)
	written := false

	switch {
	case a.cfg.Normalize.DryRun:
		log.Info("Dry run, file not written", "padded", result.Padded(), "truncated", result.Truncated())
	case before == after:
		log.Info("File already normalized, not rewritten", "sha256", checksum.Short(before))
	default:
		opts := csvio.WriteOptions{Backup: a.cfg.Output.CreateBackup}
		if err := csvio.WriteFileAtomic(path, data, opts); err != nil {
			return err
		}

		written = true

		log.Info(fmt.Sprintf("CSV fixed! All %d rows now have exactly %d columns", len(result.Rows), result.Width),
			"padded", result.Padded(),
			"truncated", result.Truncated(),
			"sha256", checksum.Short(after),
		)
	}

	return a.writeReport(normalizeReport(path, result, before, after, written))
}

func normalizeReport(path string, result *normalizer.Result, before, after string, written bool) formatter.Report {
	rows := make([][]string, 0, len(result.Events))
	for _, e := range result.Events {
		rows = append(rows, []string{
			strconv.Itoa(e.Row),
			string(e.Kind),
			strconv.Itoa(e.From),
			strconv.Itoa(e.To),
		})
	}

	return formatter.Report{
		Title: "Normalize " + path,
		Summary: []formatter.Field{
			{Name: "Rows", Value: strconv.Itoa(len(result.Rows))},
			{Name: "Columns", Value: strconv.Itoa(result.Width)},
			{Name: "Padded", Value: strconv.Itoa(result.Padded())},
			{Name: "Truncated", Value: strconv.Itoa(result.Truncated())},
			{Name: "Written", Value: strconv.FormatBool(written)},
			{Name: "SHA-256 before", Value: before},
			{Name: "SHA-256 after", Value: after},
		},
		Columns: []string{"Row", "Change", "From", "To"},
		Rows:    rows,
		Empty:   "All rows already match the header width.",
	}
}
