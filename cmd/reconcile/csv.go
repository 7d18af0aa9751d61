package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/reconlab/ingest/internal/ingest"
)

type csvFlags struct {
	File   string
	Format string
}

func newCSVCmd(logger *slog.Logger) *cobra.Command {
	flags := &csvFlags{}

	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Normalize a transaction CSV file",
		Long: `Normalize a free-form transaction CSV into canonical records.

Columns are inferred from the header row, so exports from different systems
work without a fixed template. Rows that cannot be normalized are listed
with the reason they were dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCSV(cmd, logger, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "Path to the CSV file (required)")
	cmd.Flags().StringVar(&flags.Format, "format", string(ingest.FormatMMDDYYYY), "Date format used in the file")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runCSV(cmd *cobra.Command, logger *slog.Logger, flags *csvFlags) error {
	format, err := ingest.ParseDateFormat(flags.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(flags.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", flags.File, err)
	}

	orch := ingest.NewOrchestrator(logger)
	batch, err := orch.IngestCSV(cmd.Context(), filepath.Base(flags.File), data, format)
	if err != nil {
		// An all-rows-dropped batch still has diagnostics worth showing.
		if batch != nil {
			renderBatch(batch)
		}
		return errors.New(ingest.FormatUserError(err))
	}

	renderBatch(batch)
	return nil
}

// renderBatch prints the batch summary, accepted records, and per-row
// rejection reasons.
func renderBatch(batch *ingest.Batch) {
	pterm.Info.Printf("Rows: %d total, %d accepted, %d dropped\n\n",
		batch.TotalInputRows, batch.AcceptedCount, batch.DroppedCount)

	if len(batch.Records) > 0 {
		data := pterm.TableData{
			{"ID", "Number", "Amount", "Date", "Due", "Status", "Contact"},
		}
		for _, rec := range batch.Records {
			data = append(data, []string{
				rec.ID,
				rec.TransactionNumber,
				rec.Amount.StringFixed(2),
				rec.Date,
				rec.DueDate,
				rec.Status,
				rec.ContactName,
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	if len(batch.Errors) > 0 {
		pterm.Println()
		pterm.Warning.Printf("%d rows dropped:\n", batch.DroppedCount)
		data := pterm.TableData{
			{"Row", "Reason"},
		}
		for _, re := range batch.Errors {
			data = append(data, []string{fmt.Sprint(re.Row), re.Reason})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}

	if batch.AcceptedCount > 0 {
		pterm.Println()
		pterm.Success.Printf("%d records ready for matching\n", batch.AcceptedCount)
	}
}
