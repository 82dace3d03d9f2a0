package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lacarta/reservation-service/internal/errs"
	"github.com/lacarta/reservation-service/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go -package=mocks

type Repository interface {
	CreateReservation(ctx context.Context, resv model.Reservation) (model.Reservation, error)
	UpdateReservation(ctx context.Context, resv model.Reservation) (model.Reservation, error)
	GetReservation(ctx context.Context, id int64) (model.Reservation, error)
	GetReservationsBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error)
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
	CountByDocumentBetween(ctx context.Context, documentNumber string, from, to time.Time) (int, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	reservationTableName = `reservations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) CreateReservation(ctx context.Context, resv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Insert(reservationTableName).
		Columns("name", "document_type", "document_number", "guests", "observations", "reservation_date").
		Values(resv.Name, resv.DocumentType, resv.DocumentNumber, resv.Guests, resv.Observations, resv.ReservationDate).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, mapPgError(err)
	}
	return res, nil
}

func (r *repository) UpdateReservation(ctx context.Context, resv model.Reservation) (model.Reservation, error) {
	q, args, err := qb.Update(reservationTableName).
		Set("name", resv.Name).
		Set("document_type", resv.DocumentType).
		Set("document_number", resv.DocumentNumber).
		Set("guests", resv.Guests).
		Set("observations", resv.Observations).
		Set("reservation_date", resv.ReservationDate).
		Where(sq.Eq{"id": resv.ID}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		r.log.Error("UpdateReservation", zap.String("q", q), zap.Any("args", args))
		return model.Reservation{}, mapPgError(err)
	}
	return res, nil
}

func (r *repository) GetReservation(ctx context.Context, id int64) (model.Reservation, error) {
	q, args, err := qb.Select("id", "name", "document_type", "document_number", "guests", "observations", "reservation_date").
		From(reservationTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return res, nil
}

func (r *repository) GetReservationsBetween(ctx context.Context, from, to time.Time) ([]model.Reservation, error) {
	q, args, err := qb.Select("id", "name", "document_type", "document_number", "guests", "observations", "reservation_date").
		From(reservationTableName).
		Where(sq.GtOrEq{"reservation_date": from}).
		Where(sq.LtOrEq{"reservation_date": to}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Reservation
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	q := `
	select count(*) from reservations
	where reservation_date between $1 and $2
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountByDocumentBetween(ctx context.Context, documentNumber string, from, to time.Time) (int, error) {
	q := `
	select count(*) from reservations
	where document_number = $1 and reservation_date between $2 and $3
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, documentNumber, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return errs.ErrConflict
	}
	return err
}
