package controllerImp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cropcast/entities"
	"cropcast/pkg/envelope"
	"cropcast/pkg/fault"
	"cropcast/pkg/form"
	"cropcast/pkg/imagecapture"
)

type fieldReq struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// UpdateField sets one form field from {"field": "...", "value": ...}.
func (h *ForecastCtrl) UpdateField(c echo.Context) error {
	var req fieldReq
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, fault.InvalidInput("bad json"))
	}
	raw, ok := rawValue(req.Value)
	if !ok {
		return errorJSON(c, fault.InvalidInputf("%s must be a number or string", req.Field))
	}
	s := h.session(c)
	if err := s.Update(req.Field, raw); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

func rawValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

// UploadImage captures the multipart "image" file into the session.
func (h *ForecastCtrl) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, fault.InvalidInput("Please select an image file."))
	}
	src, err := fh.Open()
	if err != nil {
		return errorJSON(c, fault.InvalidInput("Could not read the uploaded image."))
	}
	defer src.Close()

	s := h.session(c)
	if err := s.CaptureImage(c.Request().Context(), fh.Header.Get(echo.HeaderContentType), src); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

func (h *ForecastCtrl) GetForm(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session(c).View())
}

type predictReq struct {
	CropType       *string  `json:"cropType"`
	SatelliteImage string   `json:"satelliteImage"`
	Temperature    *float64 `json:"temperature"`
	Rainfall       *float64 `json:"rainfall"`
	Sunshine       *float64 `json:"sunshine"`
	Nitrogen       *float64 `json:"nitrogen"`
	Phosphorus     *float64 `json:"phosphorus"`
	Potassium      *float64 `json:"potassium"`
	PH             *float64 `json:"ph"`
}

// toRequest starts from the default form so omitted numbers keep their
// default values.
func (r predictReq) toRequest(env *envelope.Envelope) (*entities.PredictionRequest, error) {
	out := form.Default(env).Values()
	if r.CropType != nil {
		out.CropType = entities.CropType(*r.CropType)
	}
	for _, p := range []struct {
		src *float64
		dst *float64
	}{
		{r.Temperature, &out.Temperature},
		{r.Rainfall, &out.Rainfall},
		{r.Sunshine, &out.Sunshine},
		{r.Nitrogen, &out.Nitrogen},
		{r.Phosphorus, &out.Phosphorus},
		{r.Potassium, &out.Potassium},
		{r.PH, &out.PH},
	} {
		if p.src != nil {
			*p.dst = *p.src
		}
	}
	if r.SatelliteImage != "" {
		img, err := imagecapture.FromDataURI(r.SatelliteImage)
		if err != nil {
			return nil, err
		}
		out.Image = img
	}
	return &out, nil
}

// Predict is the stateless JSON endpoint: one request body in, one
// Prediction or {error, kind} out. It does not touch the session.
func (h *ForecastCtrl) Predict(c echo.Context) error {
	var body predictReq
	if err := c.Bind(&body); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return errorJSON(c, fault.InvalidInput("The selected image is larger than 10MB."))
		}
		return errorJSON(c, fault.InvalidInput("bad json"))
	}
	req, err := body.toRequest(h.env())
	if err != nil {
		return errorJSON(c, err)
	}
	pred, err := h.svc.Predict(c.Request().Context(), req)
	if err != nil {
		h.log.Info("api forecast failed", zap.String("kind", kindFor(err)), zap.Error(err))
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, pred)
}

type envelopeResp struct {
	Crops    []entities.CropType        `json:"crops"`
	Bounds   []envelope.Bound           `json:"bounds"`
	Defaults entities.PredictionRequest `json:"defaults"`
}

func (h *ForecastCtrl) Envelope(c echo.Context) error {
	env := h.env()
	return c.JSON(http.StatusOK, envelopeResp{
		Crops:    env.Crops(),
		Bounds:   env.Bounds(),
		Defaults: form.Default(env).Values(),
	})
}
