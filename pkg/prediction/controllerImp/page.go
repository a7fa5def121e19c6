package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropcast/pkg/form"
	"cropcast/pkg/view"
)

func (h *ForecastCtrl) render(c echo.Context, status int, s *form.Session, notice string) error {
	p := view.NewPage(h.env(), s.View())
	p.Notice = notice
	return c.Render(status, view.PageTemplate, p)
}

// Page renders the form and the outcome of the last submission.
func (h *ForecastCtrl) Page(c echo.Context) error {
	return h.render(c, http.StatusOK, h.session(c), "")
}

// SubmitForm applies the posted fields as one change, captures the optional
// image and submits. A rejected field leaves the whole form as it was; a
// rejected field or image stops before the model is called.
func (h *ForecastCtrl) SubmitForm(c echo.Context) error {
	s := h.session(c)
	ctx := c.Request().Context()

	posted := map[string]string{}
	for _, f := range form.Fields {
		if raw := c.FormValue(f); raw != "" {
			posted[f] = raw
		}
	}
	if err := s.UpdateAll(posted); err != nil {
		return h.render(c, statusFor(err), s, messageFor(err))
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return h.render(c, http.StatusBadRequest, s, "Could not read the uploaded image.")
	default:
		src, err := fh.Open()
		if err != nil {
			return h.render(c, http.StatusBadRequest, s, "Could not read the uploaded image.")
		}
		err = s.CaptureImage(ctx, fh.Header.Get(echo.HeaderContentType), src)
		src.Close()
		if err != nil {
			return h.render(c, statusFor(err), s, messageFor(err))
		}
	}

	if _, err := s.Submit(ctx, h.svc); err != nil {
		h.log.Info("forecast failed", zap.String("sid", s.ID), zap.String("kind", kindFor(err)))
		notice := ""
		if errors.Is(err, form.ErrSubmitInFlight) {
			notice = inFlightMessage
		}
		return h.render(c, statusFor(err), s, notice)
	}
	return h.render(c, http.StatusOK, s, "")
}

// Reset restores the default form for the session.
func (h *ForecastCtrl) Reset(c echo.Context) error {
	h.session(c).Reset()
	return c.Redirect(http.StatusSeeOther, "/")
}
