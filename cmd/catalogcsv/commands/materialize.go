package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"catalogcsv/internal/catalog"
	"catalogcsv/internal/csvio"
	"catalogcsv/internal/export"
	"catalogcsv/internal/formatter"
	"catalogcsv/internal/materializer"
	"catalogcsv/internal/schema"
	"catalogcsv/pkg/checksum"
)

func newMaterializeCmd(a *app) *cobra.Command {
	var (
		catalogPath string
		out         string
		sqlitePath  string
		backup      bool
	)

	cmd := &cobra.Command{
		Use:   "materialize --catalog products.yaml [--out export.csv] [--sqlite products.sqlite]",
		Short: "Regenerates the export CSV from partial product records, filling defaults.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("catalog") {
				a.cfg.Materialize.Catalog = catalogPath
			}

			if flags.Changed("out") {
				a.cfg.Materialize.Output = out
			}

			if flags.Changed("sqlite") {
				a.cfg.Output.SQLitePath = sqlitePath
			}

			if flags.Changed("backup") {
				a.cfg.Output.CreateBackup = backup
			}

			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMaterialize(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "products.yaml", "YAML or JSON file with the partial product records")
	cmd.Flags().StringVar(&out, "out", "export.csv", "CSV file to write")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also write the table to this SQLite database")
	cmd.Flags().BoolVar(&backup, "backup", false, "Keep the previous file as <out>.bak")

	return cmd
}

func (a *app) runMaterialize(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := a.cfg.Materialize
	log := a.log.With("catalog", cfg.Catalog, "out", cfg.Output)

	records, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return err
	}

	log.Info("catalog loaded", "products", len(records))

	s := schema.Product()

	result, err := materializer.New(s, materializer.DefaultRules(), log).Run(records)
	if err != nil {
		return fmt.Errorf("materialization failed, %s not written: %w", cfg.Output, err)
	}

	data, err := csvio.Encode(result.Rows, csvio.EncodeOptions{CRLF: a.cfg.Output.CRLF()})
	if err != nil {
		return err
	}

	// The snapshot is built first and moved into place only after the CSV,
	// so a failed run changes neither file.
	var snap *export.Snapshot

	if path := a.cfg.Output.SQLitePath; path != "" {
		snap, err = export.BuildSQLite(ctx, path, export.DefaultTable, result.Rows)
		if err != nil {
			return fmt.Errorf("sqlite snapshot failed, %s not written: %w", cfg.Output, err)
		}
		defer snap.Discard()
	}

	if err := csvio.WriteFileAtomic(cfg.Output, data, csvio.WriteOptions{Backup: a.cfg.Output.CreateBackup}); err != nil {
		return err
	}

	if snap != nil {
		if err := snap.Commit(); err != nil {
			return fmt.Errorf("%s written but sqlite snapshot not replaced: %w", cfg.Output, err)
		}

		log.Info("sqlite snapshot written", "path", snap.Path(), "table", export.DefaultTable)
	}

	sum := checksum.Sum(data)
	log.Info(fmt.Sprintf("CSV recreated successfully with %d products and %d columns", result.Records(), s.Len()),
		"backfilled", len(result.Fills),
		"sha256", checksum.Short(sum),
	)

	return a.writeReport(materializeReport(cfg.Output, s.Len(), result, sum))
}

func materializeReport(path string, columns int, result *materializer.Result, sum string) formatter.Report {
	counts := result.FillCounts()

	fields := make([]string, 0, len(counts))
	for f := range counts {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f, strconv.Itoa(counts[f])})
	}

	return formatter.Report{
		Title: "Materialize " + path,
		Summary: []formatter.Field{
			{Name: "Products", Value: strconv.Itoa(result.Records())},
			{Name: "Columns", Value: strconv.Itoa(columns)},
			{Name: "Backfilled values", Value: strconv.Itoa(len(result.Fills))},
			{Name: "SHA-256", Value: sum},
		},
		Columns: []string{"Field", "Records backfilled"},
		Rows:    rows,
		Empty:   "No defaults were needed.",
	}
}
