package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"roost/infras/otel"
	"roost/infras/postgres"
	"roost/internal/domains/booking/model"
	"roost/shared/constant"
	gDto "roost/shared/dto"
	"roost/shared/logger"
	gRepo "roost/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking) error
	FindBlocking(ctx context.Context, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error)
	FindBlockingTx(ctx context.Context, tx *sqlx.Tx, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error)
	NextSequenceTx(ctx context.Context, tx *sqlx.Tx, numberPrefix string) (int, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter gDto.FilterGroup) error
	UpdateWhereStatus(ctx context.Context, fields map[string]any, id string, from model.Status) (int64, error)
	FindDueCompletion(ctx context.Context, before time.Time) ([]model.Booking, error)
	Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Transact runs fn inside a serializable transaction. The availability check,
// booking-number allocation, and insert must share one isolation boundary or
// two concurrent creates can both pass the check.
func (repo *repositoryImpl) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return repo.db.Transact(ctx, sql.LevelSerializable, fn) //nolint:wrapcheck
}

func (repo *repositoryImpl) FindBlocking(ctx context.Context, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	return repo.findBlocking(ctx, repo.db.Read, propertyID, checkIn, checkOut, excludeID)
}

func (repo *repositoryImpl) FindBlockingTx(ctx context.Context, tx *sqlx.Tx, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	return repo.findBlocking(ctx, tx, propertyID, checkIn, checkOut, excludeID)
}

type namedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// blockingBookingsQuery builds the half-open overlap query. The exclusion
// predicate is only appended when a booking id is given: id is a uuid column,
// so binding an empty string would fail to parse server-side.
func blockingBookingsQuery(columns []string, excludeID string) string {
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE property_id = :property_id
			AND status = ANY(:statuses)
			AND check_in < :check_out
			AND check_out > :check_in`, strings.Join(columns, ", "), model.TableName)

	if excludeID != constant.Empty {
		query += `
			AND id <> :exclude_id`
	}

	return query + `
		ORDER BY check_in ASC`
}

// findBlocking returns bookings in a blocking status whose [check_in,
// check_out) interval overlaps the requested one.
func (repo *repositoryImpl) findBlocking(ctx context.Context, preparer namedPreparer, propertyID string, checkIn, checkOut time.Time, excludeID string) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.findBlocking")
	defer scope.End()

	query := blockingBookingsQuery(repo.InsertColumns, excludeID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	statuses := make([]string, len(model.BlockingStatuses))
	for i, status := range model.BlockingStatuses {
		statuses[i] = string(status)
	}

	args := map[string]any{
		"property_id": propertyID,
		"statuses":    pq.Array(statuses),
		"check_in":    checkIn,
		"check_out":   checkOut,
	}
	if excludeID != constant.Empty {
		args["exclude_id"] = excludeID
	}

	prepare, err := preparer.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var bookings []model.Booking

	err = prepare.SelectContext(ctx, &bookings, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find blocking bookings: %w", err)
	}

	return bookings, nil
}

// nextSequenceQuery scans the highest numeric suffix under the prefix. The
// suffix is the segment after the last dash, so a dash inside the configured
// number prefix cannot shift it. Needs PostgreSQL 14+ for the negative
// SPLIT_PART index.
func nextSequenceQuery() string {
	return fmt.Sprintf(`SELECT COALESCE(MAX(CAST(SPLIT_PART(booking_number, '-', -1) AS INTEGER)), 0) + 1
		FROM %s WHERE booking_number LIKE :prefix`, model.TableName)
}

// NextSequenceTx allocates the next per-year sequence number by scanning the
// highest suffix under the year prefix. Safe only inside the serializable
// create transaction, with the unique booking_number constraint as backstop.
func (repo *repositoryImpl) NextSequenceTx(ctx context.Context, tx *sqlx.Tx, numberPrefix string) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.NextSequenceTx")
	defer scope.End()

	query := nextSequenceQuery()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var sequence int

	err = prepare.GetContext(ctx, &sequence, map[string]any{"prefix": numberPrefix + "%"})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to allocate booking number: %w", err)
	}

	return sequence, nil
}

// UpdateWhereStatus applies the fields only while the booking is still in the
// expected status and reports the number of rows touched. Zero rows means the
// booking moved on and the caller lost the race.
func (repo *repositoryImpl) UpdateWhereStatus(ctx context.Context, fields map[string]any, id string, from model.Status) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateWhereStatus")
	defer scope.End()

	updateField := make([]string, 0, len(fields))
	for col := range fields {
		updateField = append(updateField, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND status = :from_status",
		model.TableName, strings.Join(updateField, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"id":          id,
		"from_status": string(from),
	}
	for col, value := range fields {
		args[col] = value
	}

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read affected rows (%s): %w", model.EntityName, err)
	}

	return affected, nil
}

// FindDueCompletion lists checked-out bookings whose check-out date has
// passed, candidates for the completion sweep.
func (repo *repositoryImpl) FindDueCompletion(ctx context.Context, before time.Time) ([]model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindDueCompletion")
	defer scope.End()

	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE status = :status AND check_out <= :before
		ORDER BY check_out ASC`, strings.Join(repo.InsertColumns, ", "), model.TableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"status": string(model.StatusCheckedOut),
		"before": before,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	var bookings []model.Booking

	err = prepare.SelectContext(ctx, &bookings, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to find due bookings: %w", err)
	}

	return bookings, nil
}
