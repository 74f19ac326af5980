package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Metrics provides methods for recording observability metrics.
// A nil *Metrics is valid and records nothing, so callers never need to
// guard their recording calls.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Harvest metrics
	messagesHarvestedTotal metric.Int64Counter
	messagesDegradedTotal  metric.Int64Counter

	// Organize metrics
	attachmentsOrganizedTotal metric.Int64Counter
	organizeProcessed         metric.Int64Gauge
	organizeTotal             metric.Int64Gauge

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// Google API Metrics
	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	// Harvest Metrics
	m.messagesHarvestedTotal, err = meter.Int64Counter(
		"messages_harvested_total",
		metric.WithDescription("Total number of messages harvested with full details"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_harvested_total counter: %w", err)
	}

	m.messagesDegradedTotal, err = meter.Int64Counter(
		"messages_degraded_total",
		metric.WithDescription("Total number of messages dropped because their detail fetch failed"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create messages_degraded_total counter: %w", err)
	}

	// Organize Metrics
	m.attachmentsOrganizedTotal, err = meter.Int64Counter(
		"attachments_organized_total",
		metric.WithDescription("Total number of attachment upload attempts by status"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachments_organized_total counter: %w", err)
	}

	m.organizeProcessed, err = meter.Int64Gauge(
		"organize_progress_processed",
		metric.WithDescription("Upload attempts finished in the current organize run"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create organize_progress_processed gauge: %w", err)
	}

	m.organizeTotal, err = meter.Int64Gauge(
		"organize_progress_total",
		metric.WithDescription("Total attachments in the current organize run"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create organize_progress_total gauge: %w", err)
	}

	// MCP Tool Metrics
	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, drive)
//   - operation: Operation type (search, get, upload, create_folder, etc.)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMessagesHarvested records the outcome of one harvest: how many
// messages yielded full details and how many were dropped.
func (m *Metrics) RecordMessagesHarvested(ctx context.Context, harvested, degraded int64) {
	if m == nil || m.messagesHarvestedTotal == nil || m.messagesDegradedTotal == nil {
		return // Instrumentation not initialized
	}

	m.messagesHarvestedTotal.Add(ctx, harvested)
	if degraded > 0 {
		m.messagesDegradedTotal.Add(ctx, degraded)
	}
}

// RecordAttachmentOrganized records one attachment upload attempt.
// Status should be one of: "success", "error"
func (m *Metrics) RecordAttachmentOrganized(ctx context.Context, status string) {
	if m == nil || m.attachmentsOrganizedTotal == nil {
		return // Instrumentation not initialized
	}

	m.attachmentsOrganizedTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordOrganizeProgress records the progress counters of the current
// organize run.
func (m *Metrics) RecordOrganizeProgress(ctx context.Context, processed, total int64) {
	if m == nil || m.organizeProcessed == nil || m.organizeTotal == nil {
		return // Instrumentation not initialized
	}

	m.organizeProcessed.Record(ctx, processed)
	m.organizeTotal.Record(ctx, total)
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
//
// Parameters:
//   - toolName: Name of the MCP tool (e.g., "mail_search_attachments")
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the tool execution
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithAccount records an MCP tool invocation with account info.
// The account label is only added when detailedLabels is enabled, to keep
// metric cardinality bounded.
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
