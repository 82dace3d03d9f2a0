package handler

import (
	"context"
	"time"

	"github.com/lacarta/reservation-service/internal/model"
	"github.com/lacarta/reservation-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go -package=mocks

type ReservationService interface {
	CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, req model.ReservationRequest) (model.Reservation, error)
	GetReservationsByDate(ctx context.Context, date time.Time) ([]model.Reservation, error)
	GetAvailableDays(ctx context.Context) ([]model.Date, error)
}

var _ ReservationService = (*service.Service)(nil)
