package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lacarta/reservation-service/internal/errs"
	"github.com/lacarta/reservation-service/internal/model"
	"github.com/lacarta/reservation-service/pkg/validate"
)

// query date format of the by-date listing, day/month/year.
const queryDateLayout = "02/01/2006"

type Handler struct {
	reservationSvc ReservationService
	log            *zap.Logger
}

func New(reservationSvc ReservationService, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: reservationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.httpErrorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/restaurant",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.POST("/reservations", h.CreateReservation)
	api.PUT("/reservations/:id", h.UpdateReservation)
	api.GET("/reservations", h.GetReservationsByDate)
	api.GET("/reservations/available-days", h.GetAvailableDays)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	resp, err := h.reservationSvc.CreateReservation(ctx, req)
	if err != nil {
		return businessHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}
	var req model.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	resp, err := h.reservationSvc.UpdateReservation(ctx, id, req)
	if err != nil {
		return businessHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetReservationsByDate(c echo.Context) error {
	rawDate := c.QueryParam("date")
	if rawDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query param is required")
	}
	date, err := time.Parse(queryDateLayout, rawDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be in dd/MM/yyyy format")
	}

	ctx := c.Request().Context()
	rsv, err := h.reservationSvc.GetReservationsByDate(ctx, date)
	if err != nil {
		return businessHTTPError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

func (h *Handler) GetAvailableDays(c echo.Context) error {
	ctx := c.Request().Context()
	days, err := h.reservationSvc.GetAvailableDays(ctx)
	if err != nil {
		return businessHTTPError(err)
	}
	return c.JSON(http.StatusOK, days)
}

// businessHTTPError collapses every admission-rule violation, not-found
// included, into one client-error status.
func businessHTTPError(err error) error {
	switch {
	case errors.Is(err, errs.ErrDayFull),
		errors.Is(err, errs.ErrCustomerDailyLimit),
		errors.Is(err, errs.ErrPartySize),
		errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	resp := errs.ErrorResponse{
		Timestamp: time.Now(),
		Status:    code,
		Message:   message,
	}
	if err := c.JSON(code, resp); err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}
