package gateway

import (
	"context"
	"time"

	"github.com/privacyhub/privacy-gateway/internal/metrics"
)

// gatewayWithMetrics decorates Gateway with metrics instrumentation.
type gatewayWithMetrics struct {
	next    Gateway
	metrics metrics.BusinessMetrics
}

// NewGatewayWithMetrics wraps a Gateway with metrics recording.
func NewGatewayWithMetrics(g Gateway, m metrics.BusinessMetrics) Gateway {
	return &gatewayWithMetrics{
		next:    g,
		metrics: m,
	}
}

// Protect records metrics for protect operations.
func (g *gatewayWithMetrics) Protect(ctx context.Context, text string) (*ProtectResult, error) {
	start := time.Now()
	result, err := g.next.Protect(ctx, text)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "privacy", "protect", status)
	g.metrics.RecordDuration(ctx, "privacy", "protect", time.Since(start), status)

	return result, err
}

// Restore records metrics for restore operations.
func (g *gatewayWithMetrics) Restore(
	ctx context.Context,
	text string,
	tokenIDs []string,
) (*RestoreResult, error) {
	start := time.Now()
	result, err := g.next.Restore(ctx, text, tokenIDs)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "privacy", "restore", status)
	g.metrics.RecordDuration(ctx, "privacy", "restore", time.Since(start), status)

	return result, err
}

// Status records metrics for status operations.
func (g *gatewayWithMetrics) Status(ctx context.Context) (*Status, error) {
	start := time.Now()
	result, err := g.next.Status(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "privacy", "status", status)
	g.metrics.RecordDuration(ctx, "privacy", "status", time.Since(start), status)

	return result, err
}
