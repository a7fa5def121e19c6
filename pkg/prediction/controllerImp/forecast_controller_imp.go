package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
	"cropcast/pkg/form"
	"cropcast/pkg/imagecapture"
	"cropcast/pkg/middleware"
	"cropcast/pkg/prediction/controller"
	"cropcast/pkg/prediction/service"
)

const inFlightMessage = "A forecast is already being generated. Please wait for it to finish."

type ForecastCtrl struct {
	svc   service.PredictionService
	store *form.Store
	log   *zap.Logger
}

var _ controller.ForecastController = (*ForecastCtrl)(nil)

func New(svc service.PredictionService, store *form.Store, log *zap.Logger) *ForecastCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ForecastCtrl{svc: svc, store: store, log: log.Named("forecast")}
}

func (h *ForecastCtrl) session(c echo.Context) *form.Session {
	return h.store.Get(middleware.SessionID(c))
}

func (h *ForecastCtrl) env() *envelope.Envelope { return h.store.Envelope() }

// statusFor maps a failure to its HTTP status: 400 for input the user can
// fix, 409 for a concurrent submit, 502 for anything the provider caused.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, imagecapture.ErrSuperseded):
		return http.StatusConflict
	}
	switch fault.KindOf(err) {
	case fault.KindInvalidInput:
		return http.StatusBadRequest
	case fault.KindProvider, fault.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, form.ErrSubmitInFlight):
		return inFlightMessage
	case errors.Is(err, imagecapture.ErrSuperseded):
		return "A newer image upload replaced this one."
	}
	return fault.UserMessage(err)
}

func kindFor(err error) string {
	switch {
	case errors.Is(err, form.ErrSubmitInFlight):
		return "in_flight"
	case errors.Is(err, imagecapture.ErrSuperseded):
		return "superseded"
	}
	return fault.KindOf(err).String()
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(statusFor(err), echo.Map{"error": messageFor(err), "kind": kindFor(err)})
}
