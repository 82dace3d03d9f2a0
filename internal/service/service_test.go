package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lacarta/reservation-service/internal/errs"
	"github.com/lacarta/reservation-service/internal/model"
	repo_mocks "github.com/lacarta/reservation-service/internal/repository/mocks"
	"github.com/lacarta/reservation-service/internal/service"
	service_mocks "github.com/lacarta/reservation-service/internal/service/mocks"
	"github.com/lacarta/reservation-service/pkg/kafka"
)

func daySpan(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return from, from.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}

func TestService_CreateReservation(t *testing.T) {
	t.Parallel()

	reservationDate := time.Date(2025, 3, 11, 19, 30, 0, 0, time.UTC)
	from, to := daySpan(reservationDate)

	req := model.ReservationRequest{
		Name:            "John Doe",
		DocumentType:    model.DocumentTypeCC,
		DocumentNumber:  "123456789",
		Guests:          3,
		Observations:    "terrace table",
		ReservationDate: reservationDate,
	}

	type mockBehavior func(r *repo_mocks.MockRepository, req model.ReservationRequest)

	var tests = []struct {
		name         string
		req          model.ReservationRequest
		mockBehavior mockBehavior
		want         model.Reservation
		wantErr      error
	}{
		{
			name: "ok",
			req:  req,
			mockBehavior: func(r *repo_mocks.MockRepository, req model.ReservationRequest) {
				r.EXPECT().CountBetween(context.Background(), from, to).Return(9, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(1, nil)
				r.EXPECT().CreateReservation(context.Background(), model.Reservation{
					Name:            req.Name,
					DocumentType:    req.DocumentType,
					DocumentNumber:  req.DocumentNumber,
					Guests:          req.Guests,
					Observations:    req.Observations,
					ReservationDate: req.ReservationDate,
				}).Return(model.Reservation{
					ID:              1,
					Name:            req.Name,
					DocumentType:    req.DocumentType,
					DocumentNumber:  req.DocumentNumber,
					Guests:          req.Guests,
					Observations:    req.Observations,
					ReservationDate: req.ReservationDate,
				}, nil)
			},
			want: model.Reservation{
				ID:              1,
				Name:            req.Name,
				DocumentType:    req.DocumentType,
				DocumentNumber:  req.DocumentNumber,
				Guests:          req.Guests,
				Observations:    req.Observations,
				ReservationDate: req.ReservationDate,
			},
		},
		{
			name: "err. day is full",
			req:  req,
			mockBehavior: func(r *repo_mocks.MockRepository, req model.ReservationRequest) {
				r.EXPECT().CountBetween(context.Background(), from, to).Return(10, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(0, nil)
			},
			wantErr: errs.ErrDayFull,
		},
		{
			name: "err. customer daily limit",
			req:  req,
			mockBehavior: func(r *repo_mocks.MockRepository, req model.ReservationRequest) {
				r.EXPECT().CountBetween(context.Background(), from, to).Return(5, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(2, nil)
			},
			wantErr: errs.ErrCustomerDailyLimit,
		},
		{
			name: "err. party too large",
			req: model.ReservationRequest{
				Name:            req.Name,
				DocumentType:    req.DocumentType,
				DocumentNumber:  req.DocumentNumber,
				Guests:          5,
				ReservationDate: reservationDate,
			},
			mockBehavior: func(r *repo_mocks.MockRepository, req model.ReservationRequest) {
				r.EXPECT().CountBetween(context.Background(), from, to).Return(0, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(0, nil)
			},
			wantErr: errs.ErrPartySize,
		},
		{
			name: "err. repo count",
			req:  req,
			mockBehavior: func(r *repo_mocks.MockRepository, req model.ReservationRequest) {
				r.EXPECT().CountBetween(context.Background(), from, to).Return(0, errors.New("db internal"))
			},
			wantErr: errors.New("db internal"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repo_mocks.NewMockRepository(c)
			tt.mockBehavior(repo, tt.req)

			svc := service.NewService(repo, nil, zap.NewExample().Named("test"))
			got, err := svc.CreateReservation(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.EqualError(t, err, tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_CreateReservation_PublishesEvent(t *testing.T) {
	t.Parallel()

	reservationDate := time.Date(2025, 3, 11, 19, 30, 0, 0, time.UTC)
	from, to := daySpan(reservationDate)
	clock := func() time.Time { return reservationDate }

	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	queue := service_mocks.NewMockEnqueuer(c)

	req := model.ReservationRequest{
		Name:            "John Doe",
		DocumentType:    model.DocumentTypeCC,
		DocumentNumber:  "123456789",
		Guests:          3,
		ReservationDate: reservationDate,
	}
	stored := model.Reservation{
		ID:              7,
		Name:            req.Name,
		DocumentType:    req.DocumentType,
		DocumentNumber:  req.DocumentNumber,
		Guests:          req.Guests,
		ReservationDate: req.ReservationDate,
	}

	repo.EXPECT().CountBetween(context.Background(), from, to).Return(0, nil)
	repo.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(0, nil)
	repo.EXPECT().CreateReservation(context.Background(), gomock.Any()).Return(stored, nil)
	queue.EXPECT().Enqueue(gomock.Any()).DoAndReturn(func(v any) error {
		event, ok := v.(kafka.EventReservation)
		require.True(t, ok)
		require.NotEmpty(t, event.EventID)
		require.Equal(t, kafka.ActionCreated, event.Action)
		require.Equal(t, int64(7), event.ReservationID)
		require.Equal(t, "123456789", event.DocumentNumber)
		require.Equal(t, "2025-03-11", event.Day)
		require.Equal(t, 3, event.Guests)
		return nil
	})

	svc := service.NewService(repo, queue, zap.NewExample().Named("test"), service.WithClock(clock))
	got, err := svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, stored, got)
}

func TestService_UpdateReservation(t *testing.T) {
	t.Parallel()

	reservationDate := time.Date(2025, 3, 11, 20, 0, 0, 0, time.UTC)
	from, to := daySpan(reservationDate)

	existing := model.Reservation{
		ID:              1,
		Name:            "Juan Perez",
		DocumentType:    model.DocumentTypeCC,
		DocumentNumber:  "123456789",
		Guests:          2,
		Observations:    "window table",
		ReservationDate: reservationDate.AddDate(0, 0, -1),
	}
	req := model.ReservationRequest{
		Name:            "Carlos Lopez",
		DocumentType:    model.DocumentTypeCE,
		DocumentNumber:  "987654321",
		Guests:          6,
		Observations:    "terrace table",
		ReservationDate: reservationDate,
	}

	type mockBehavior func(r *repo_mocks.MockRepository)

	var tests = []struct {
		name         string
		id           int64
		mockBehavior mockBehavior
		want         model.Reservation
		wantErr      string
	}{
		{
			// guests over the create cap and no day-capacity check:
			// update only re-checks the per-customer daily limit.
			name: "ok",
			id:   1,
			mockBehavior: func(r *repo_mocks.MockRepository) {
				r.EXPECT().GetReservation(context.Background(), int64(1)).Return(existing, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(1, nil)
				updated := existing
				updated.Name = req.Name
				updated.DocumentType = req.DocumentType
				updated.DocumentNumber = req.DocumentNumber
				updated.Guests = req.Guests
				updated.Observations = req.Observations
				updated.ReservationDate = req.ReservationDate
				r.EXPECT().UpdateReservation(context.Background(), updated).Return(updated, nil)
			},
			want: model.Reservation{
				ID:              1,
				Name:            req.Name,
				DocumentType:    req.DocumentType,
				DocumentNumber:  req.DocumentNumber,
				Guests:          req.Guests,
				Observations:    req.Observations,
				ReservationDate: req.ReservationDate,
			},
		},
		{
			name: "err. not found",
			id:   42,
			mockBehavior: func(r *repo_mocks.MockRepository) {
				r.EXPECT().GetReservation(context.Background(), int64(42)).Return(model.Reservation{}, errs.ErrNotFound)
			},
			wantErr: "reservation id 42: reservation not found",
		},
		{
			name: "err. customer daily limit",
			id:   1,
			mockBehavior: func(r *repo_mocks.MockRepository) {
				r.EXPECT().GetReservation(context.Background(), int64(1)).Return(existing, nil)
				r.EXPECT().CountByDocumentBetween(context.Background(), req.DocumentNumber, from, to).Return(2, nil)
			},
			wantErr: errs.ErrCustomerDailyLimit.Error(),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repo_mocks.NewMockRepository(c)
			tt.mockBehavior(repo)

			svc := service.NewService(repo, nil, zap.NewExample().Named("test"))
			got, err := svc.UpdateReservation(context.Background(), tt.id, req)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_GetReservationsByDate(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	from := date
	to := date.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	items := []model.Reservation{
		{ID: 1, Name: "Juan", DocumentType: model.DocumentTypeCC, DocumentNumber: "12345678", Guests: 2, ReservationDate: date.Add(19*time.Hour + 30*time.Minute)},
		{ID: 2, Name: "Ana", DocumentType: model.DocumentTypeTI, DocumentNumber: "87654321", Guests: 4, ReservationDate: date.Add(21 * time.Hour)},
	}
	repo.EXPECT().GetReservationsBetween(context.Background(), from, to).Return(items, nil)

	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))
	got, err := svc.GetReservationsByDate(context.Background(), date)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestService_GetAvailableDays(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)

	today := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return today }

	// every 5th day of the month is booked out
	repo.EXPECT().CountBetween(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, from, _ time.Time) (int, error) {
			if from.Day()%5 == 0 {
				return 10, nil
			}
			return 9, nil
		}).Times(30)

	svc := service.NewService(repo, nil, zap.NewExample().Named("test"), service.WithClock(clock))
	days, err := svc.GetAvailableDays(context.Background())
	require.NoError(t, err)

	require.Len(t, days, 24)
	prev := time.Time{}
	for _, day := range days {
		require.NotZero(t, day.Day()%5)
		require.True(t, day.After(prev))
		prev = day.Time
	}
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), days[0].Time)
	require.Equal(t, time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC), days[len(days)-1].Time)
}

func TestService_GetAvailableDays_AllFree(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)

	today := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	clock := func() time.Time { return today }

	repo.EXPECT().CountBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).Times(30)

	svc := service.NewService(repo, nil, zap.NewExample().Named("test"), service.WithClock(clock))
	days, err := svc.GetAvailableDays(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 30)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), days[0].Time)
	require.Equal(t, time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC), days[len(days)-1].Time)
}
