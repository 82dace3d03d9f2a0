package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lacarta/reservation-service/internal/errs"
	"github.com/lacarta/reservation-service/internal/model"
	"github.com/lacarta/reservation-service/internal/repository"
	"github.com/lacarta/reservation-service/pkg/kafka"
)

const (
	maxPerDay            = 10
	maxPerCustomerPerDay = 2
	maxGuests            = 4
	availabilityWindow   = 30
)

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	queue Enqueuer
	now   func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock the availability window is computed from.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, queue Enqueuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:   log,
		repo:  repo,
		queue: queue,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateReservation admits a candidate against the day capacity, the
// per-customer daily limit and the party-size cap, then persists it.
// Both counts are read before any rule fires.
func (s *Service) CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	from, to := daySpan(req.ReservationDate)

	total, err := s.repo.CountBetween(ctx, from, to)
	if err != nil {
		return model.Reservation{}, err
	}
	byCustomer, err := s.repo.CountByDocumentBetween(ctx, req.DocumentNumber, from, to)
	if err != nil {
		return model.Reservation{}, err
	}

	if total >= maxPerDay {
		return model.Reservation{}, errs.ErrDayFull
	}
	if byCustomer >= maxPerCustomerPerDay {
		return model.Reservation{}, errs.ErrCustomerDailyLimit
	}
	if req.Guests > maxGuests {
		return model.Reservation{}, errs.ErrPartySize
	}

	res, err := s.repo.CreateReservation(ctx, model.Reservation{
		Name:            req.Name,
		DocumentType:    req.DocumentType,
		DocumentNumber:  req.DocumentNumber,
		Guests:          req.Guests,
		Observations:    req.Observations,
		ReservationDate: req.ReservationDate,
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(kafka.ActionCreated, res)
	return res, nil
}

// UpdateReservation replaces every mutable field of an existing reservation.
// Only the per-customer daily limit is re-checked; the day capacity and the
// party-size cap are not.
func (s *Service) UpdateReservation(ctx context.Context, id int64, req model.ReservationRequest) (model.Reservation, error) {
	existing, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, errors.Wrapf(err, "reservation id %d", id)
	}

	from, to := daySpan(req.ReservationDate)
	byCustomer, err := s.repo.CountByDocumentBetween(ctx, req.DocumentNumber, from, to)
	if err != nil {
		return model.Reservation{}, err
	}
	if byCustomer >= maxPerCustomerPerDay {
		return model.Reservation{}, errs.ErrCustomerDailyLimit
	}

	existing.Name = req.Name
	existing.DocumentType = req.DocumentType
	existing.DocumentNumber = req.DocumentNumber
	existing.Guests = req.Guests
	existing.Observations = req.Observations
	existing.ReservationDate = req.ReservationDate

	res, err := s.repo.UpdateReservation(ctx, existing)
	if err != nil {
		return model.Reservation{}, err
	}
	s.publish(kafka.ActionUpdated, res)
	return res, nil
}

func (s *Service) GetReservationsByDate(ctx context.Context, date time.Time) ([]model.Reservation, error) {
	from, to := daySpan(date)
	return s.repo.GetReservationsBetween(ctx, from, to)
}

// GetAvailableDays returns the days of the next 30 (today inclusive) whose
// reservation count is still under the day capacity, in chronological order.
func (s *Service) GetAvailableDays(ctx context.Context) ([]model.Date, error) {
	today := s.now()
	start, _ := daySpan(today)

	available := make([]bool, availabilityWindow)
	gg, ctx := errgroup.WithContext(ctx)
	for i := 0; i < availabilityWindow; i++ {
		i := i
		day := start.AddDate(0, 0, i)
		gg.Go(func() error {
			from, to := daySpan(day)
			count, err := s.repo.CountBetween(ctx, from, to)
			if err != nil {
				return err
			}
			available[i] = count < maxPerDay
			return nil
		})
	}
	if err := gg.Wait(); err != nil {
		return nil, err
	}

	days := make([]model.Date, 0, availabilityWindow)
	for i, ok := range available {
		if ok {
			days = append(days, model.NewDate(start.AddDate(0, 0, i)))
		}
	}
	return days, nil
}

func (s *Service) publish(action string, res model.Reservation) {
	if s.queue == nil {
		return
	}
	event := kafka.EventReservation{
		EventID:        uuid.NewString(),
		Action:         action,
		ReservationID:  res.ID,
		DocumentNumber: res.DocumentNumber,
		Day:            res.ReservationDate.Format(time.DateOnly),
		Guests:         res.Guests,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.queue.Enqueue(event); err != nil {
		s.log.Warn("enqueue reservation event", zap.String("action", action), zap.Error(err))
	}
}

// daySpan is the inclusive [00:00:00, 23:59:59] window of t's calendar day.
func daySpan(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return from, from.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
