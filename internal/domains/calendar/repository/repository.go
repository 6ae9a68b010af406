package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"roost/infras/otel"
	"roost/infras/postgres"
	"roost/internal/domains/calendar/model"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/logger"
	gRepo "roost/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Calendar interface {
	Upsert(ctx context.Context, overrides []model.Override) error
	GetRange(ctx context.Context, propertyID string, from, to time.Time) ([]model.Override, error)
	GetRangeTx(ctx context.Context, tx *sqlx.Tx, propertyID string, from, to time.Time) ([]model.Override, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Override, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Override]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Calendar {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Override](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Upsert writes the overrides, replacing any existing row for the same
// (property, date) pair so the one-override-per-date invariant holds.
func (repo *repositoryImpl) Upsert(ctx context.Context, overrides []model.Override) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability_override.Upsert")
	defer scope.End()

	query := fmt.Sprintf(`INSERT INTO %s (id, property_id, date, available, price, min_stay, created_by, modified_by)
		VALUES (:id, :property_id, :date, :available, :price, :min_stay, :created_by, :modified_by)
		ON CONFLICT (property_id, date) DO UPDATE SET
			available = EXCLUDED.available,
			price = EXCLUDED.price,
			min_stay = EXCLUDED.min_stay,
			modified_at = NOW(),
			modified_by = EXCLUDED.modified_by`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.NamedExecContext(ctx, query, overrides)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to upsert data (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) GetRange(ctx context.Context, propertyID string, from, to time.Time) ([]model.Override, error) {
	return repo.getRange(ctx, repo.db.Read, propertyID, from, to)
}

// GetRangeTx reads the overrides inside the caller's transaction so the
// availability decision and the booking insert share one isolation boundary.
func (repo *repositoryImpl) GetRangeTx(ctx context.Context, tx *sqlx.Tx, propertyID string, from, to time.Time) ([]model.Override, error) {
	return repo.getRange(ctx, tx, propertyID, from, to)
}

type namedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

func (repo *repositoryImpl) getRange(ctx context.Context, preparer namedPreparer, propertyID string, from, to time.Time) ([]model.Override, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability_override.getRange")
	defer scope.End()

	query := fmt.Sprintf(`SELECT id, property_id, date, available, price, min_stay, created_by, modified_by
		FROM %s
		WHERE property_id = :property_id AND date >= :from AND date < :to
		ORDER BY date ASC`, model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"property_id": propertyID,
		"from":        from,
		"to":          to,
	}

	prepare, err := preparer.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var overrides []model.Override

	err = prepare.SelectContext(ctx, &overrides, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	return overrides, nil
}
