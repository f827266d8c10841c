package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// Business metrics
	OrganizationOps metric.Int64Counter
	MemberOps       metric.Int64Counter
	GradeOps        metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/classdesk/organization-service")

	organizationOps, err := meter.Int64Counter(
		"organization_operations_total",
		metric.WithDescription("Total number of organization operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	memberOps, err := meter.Int64Counter(
		"member_operations_total",
		metric.WithDescription("Total number of membership operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	gradeOps, err := meter.Int64Counter(
		"grade_operations_total",
		metric.WithDescription("Total number of grade operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		OrganizationOps:   organizationOps,
		MemberOps:         memberOps,
		GradeOps:          gradeOps,
		AuthFailuresTotal: authFailuresTotal,
	}, nil
}

// RecordAuthFailure records an authentication failure with its reason.
// Satisfies the auth package's MetricsRecorder interface.
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordOrganizationOp records an organization operation by name.
func (m *Metrics) RecordOrganizationOp(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.OrganizationOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
