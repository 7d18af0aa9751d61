// Command reconcile is the terminal front end for the ingestion pipeline.
// It normalizes a CSV file or a contact's provider invoices and prints the
// resulting batch, making it easy to inspect why rows were dropped before
// handing data to the matcher.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	// .env keeps provider credentials out of shell history
	_ = godotenv.Load()

	// Only warnings and errors; the batch summary is the CLI's real output.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	rootCmd := &cobra.Command{
		Use:           "reconcile",
		Short:         "Normalize transaction data for reconciliation",
		Long:          "reconcile ingests free-form transaction CSVs and accounting provider invoices, normalizing both into a canonical record set.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newCSVCmd(logger))
	rootCmd.AddCommand(newProviderCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
