package database

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
)

const (
	facilitiesTable = "facilities"
	reviewsTable    = "facility_reviews"
)

// Postgres error codes surfaced by the store's constraints.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

var dialect = goqu.Dialect("postgres")

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func timed(ctx context.Context, metrics *observability.Metrics, operation string) func() {
	start := time.Now()
	return func() {
		observability.RecordDBMetric(ctx, metrics, operation, time.Since(start))
	}
}
