package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	tokenUsecase "github.com/privacyhub/privacy-gateway/internal/token/usecase"
)

// RunPurgeExpiredTokens deletes token mappings that expired more than the
// specified number of days ago. Supports dry-run mode to preview the deletion
// count and both text/JSON output formats.
func RunPurgeExpiredTokens(
	ctx context.Context,
	store tokenUsecase.TokenStore,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	logger.Info("purging expired token mappings",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)

	count, err := store.PurgeExpired(ctx, cutoff, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge expired token mappings: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputPurgeJSON(out, count, days, dryRun)
	} else {
		outputPurgeText(out, count, days, dryRun)
	}

	logger.Info("purge completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputPurgeText outputs the result in human-readable text format.
func outputPurgeText(out io.Writer, count int64, days int, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired mapping(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired mapping(s) older than %d day(s)\n", count, days)
	}
}

// outputPurgeJSON outputs the result in JSON format for machine consumption.
func outputPurgeJSON(out io.Writer, count int64, days int, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}
