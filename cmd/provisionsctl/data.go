package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dukerupert/provisions/internal/database"
	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/store"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the document as indented JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			data, err := docs.ExportJSON()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = fmt.Fprintln(opts.out, string(data))
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(opts.out, "exported %s to %s\n", docs.FormattedDataSize(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the document with an exported JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := docs.ImportData(data); err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "imported %s (%d items)\n", inPath, docs.ExportData().ItemCount())
			return nil
		},
	}
	cmd.Flags().StringVarP(&inPath, "in", "i", "", "exported JSON file (required)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newRangeCmd(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Summarize the dates with items between --from and --to",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := grocery.ValidateRange(from, to); err != nil {
				return err
			}
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			days, err := docs.GetDataInRange(from, to)
			if err != nil {
				return err
			}
			if len(days) == 0 {
				fmt.Fprintln(opts.out, "no data in range")
				return nil
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tHOTELS\tSECTIONS\tITEMS")
			total := 0
			for _, d := range days {
				fmt.Fprintf(tw, "%s\t%v\t%d\t%d\n", d.Date, d.Hotels, d.Sections, d.TotalItems)
				total += d.TotalItems
			}
			fmt.Fprintf(tw, "total\t\t\t%d\n", total)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

var errNotConfirmed = errors.New("cleanup not confirmed: re-run with --yes")

func newCleanupCmd(opts *options) *cobra.Command {
	var from, to string
	var yes bool
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every date between --from and --to",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := grocery.ValidateRange(from, to); err != nil {
				return err
			}
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if !yes {
				preview, err := docs.PreviewCleanup(from, to)
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.out, "would delete %d items on %d dates\n",
					preview.DeletedItems, preview.DeletedDates)
				return errNotConfirmed
			}

			result, err := docs.CleanupDataInRange(from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "deleted %d items on %d dates (%s to %s)\n",
				result.DeletedItems, result.DeletedDates, result.FromDate, result.ToDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (required)")
	cmd.Flags().BoolVar(&yes, "yes", false, "delete without asking")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newSizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Print the stored document size",
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, db, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(opts.out, "%s (%d bytes)\n", docs.FormattedDataSize(), docs.DataSize())
			return nil
		},
	}
}

// newKeysCmd lists the storage keys in the database. It does not initialize
// a document, so it is safe to point at an unfamiliar file.
func newKeysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the storage keys in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(opts.dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			keys, err := store.NewKVStore(db).Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				marker := " "
				if k == opts.storageKey {
					marker = "*"
				}
				fmt.Fprintf(opts.out, "%s %s\n", marker, k)
			}
			return nil
		},
	}
}
