package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/entities"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/domain/repositories"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/clients/postgres"
	"github.com/JamesKof/ghana-health-connect-sub000/internal/infrastructure/observability"
	apperrors "github.com/JamesKof/ghana-health-connect-sub000/pkg/errors"
)

var facilityColumns = []interface{}{
	"id", "name", "category", "region", "latitude", "longitude",
	"services", "phone_number", "address",
}

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client  *postgres.Client
	metrics *observability.Metrics
}

// NewFacilityAdapter creates a new facility adapter. metrics may be nil.
func NewFacilityAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.FacilityRepository {
	return &FacilityAdapter{
		client:  client,
		metrics: metrics,
	}
}

// List returns every facility ordered by name
func (a *FacilityAdapter) List(ctx context.Context) ([]entities.Facility, error) {
	defer timed(ctx, a.metrics, "facilities.list")()

	query, args, err := dialect.From(facilitiesTable).
		Select(facilityColumns...).
		Order(goqu.C("name").Asc(), goqu.C("id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	facilities := []entities.Facility{}
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating facilities", err)
	}

	return facilities, nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	defer timed(ctx, a.metrics, "facilities.get")()

	query, args, err := dialect.From(facilitiesTable).
		Prepared(true).
		Select(facilityColumns...).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}

	return &facility, nil
}

// Upsert inserts or replaces a facility
func (a *FacilityAdapter) Upsert(ctx context.Context, facility *entities.Facility) error {
	if err := facility.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	defer timed(ctx, a.metrics, "facilities.upsert")()

	record := goqu.Record{
		"id":           facility.ID,
		"name":         facility.Name,
		"category":     facility.Category,
		"region":       string(facility.Region),
		"latitude":     facility.Location.Latitude,
		"longitude":    facility.Location.Longitude,
		"services":     pq.Array(facility.Services),
		"phone_number": nullString(facility.PhoneNumber),
		"address":      nullString(facility.Address),
	}

	query, args, err := dialect.Insert(facilitiesTable).
		Prepared(true).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"name":         goqu.L("EXCLUDED.name"),
			"category":     goqu.L("EXCLUDED.category"),
			"region":       goqu.L("EXCLUDED.region"),
			"latitude":     goqu.L("EXCLUDED.latitude"),
			"longitude":    goqu.L("EXCLUDED.longitude"),
			"services":     goqu.L("EXCLUDED.services"),
			"phone_number": goqu.L("EXCLUDED.phone_number"),
			"address":      goqu.L("EXCLUDED.address"),
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build facility upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert facility", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFacility(row rowScanner) (entities.Facility, error) {
	var (
		f        entities.Facility
		region   string
		services []string
		phone    sql.NullString
		address  sql.NullString
	)
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Category,
		&region,
		&f.Location.Latitude,
		&f.Location.Longitude,
		pq.Array(&services),
		&phone,
		&address,
	)
	if err != nil {
		return entities.Facility{}, err
	}
	f.Region = entities.Region(region)
	f.Services = services
	if f.Services == nil {
		f.Services = []string{}
	}
	f.PhoneNumber = phone.String
	f.Address = address.String
	return f, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
