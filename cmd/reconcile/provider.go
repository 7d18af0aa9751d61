package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reconlab/ingest/internal/ingest"
	"github.com/reconlab/ingest/internal/provider"
)

type providerFlags struct {
	Contact string
	BaseURL string
	Timeout time.Duration
}

func newProviderCmd(logger *slog.Logger) *cobra.Command {
	flags := &providerFlags{}

	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Fetch and normalize a contact's provider invoices",
		Long: `Fetch a contact's invoices from the configured accounting provider and
normalize them into canonical records.

The provider credential is read from the PROVIDER_TOKEN environment
variable (a .env file in the working directory is also honored).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvider(cmd, logger, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Contact, "contact", "c", "", "Contact name to fetch invoices for (required)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", os.Getenv("PROVIDER_BASE_URL"), "Provider API base URL")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 30*time.Second, "Per-request timeout")
	cmd.MarkFlagRequired("contact")

	return cmd
}

func runProvider(cmd *cobra.Command, logger *slog.Logger, flags *providerFlags) error {
	if flags.BaseURL == "" {
		return errors.New("no provider base URL: pass --base-url or set PROVIDER_BASE_URL")
	}
	token := os.Getenv("PROVIDER_TOKEN")
	if token == "" {
		return errors.New("no provider credential: set PROVIDER_TOKEN")
	}

	client := provider.NewClient(flags.BaseURL, token, flags.Timeout)

	orch := ingest.NewOrchestrator(logger)
	batch, err := orch.IngestProvider(cmd.Context(), client, flags.Contact)
	if err != nil {
		if batch != nil {
			renderBatch(batch)
		}
		return errors.New(ingest.FormatUserError(err))
	}

	renderBatch(batch)
	return nil
}
