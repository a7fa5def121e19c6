package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"cropcast/pkg/logging"
	"cropcast/pkg/middleware"
	"cropcast/pkg/prediction/controller"
)

// multipart and base64 overhead on top of the raw image cap
const bodyLimit = "16M"

func New(
	e *echo.Echo,
	log *zap.Logger,
	forecastCtrl controller.ForecastController,
	healthCtrl interface{ Health(echo.Context) error },
	metrics http.Handler,
) *echo.Echo {
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(logging.RequestLogger(log))

	e.GET("/health", healthCtrl.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}

	app := e.Group("", middleware.Session(), echoMiddleware.BodyLimit(bodyLimit))
	app.GET("/", forecastCtrl.Page)
	app.POST("/forecast", forecastCtrl.SubmitForm)
	app.POST("/reset", forecastCtrl.Reset)

	api := app.Group("/api/v1")
	api.GET("/form", forecastCtrl.GetForm)
	api.POST("/form/field", forecastCtrl.UpdateField)
	api.POST("/form/image", forecastCtrl.UploadImage)
	api.POST("/forecast", forecastCtrl.Predict)
	api.GET("/envelope", forecastCtrl.Envelope)
	return e
}
