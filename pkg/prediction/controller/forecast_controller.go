package controller

import "github.com/labstack/echo/v4"

type ForecastController interface {
	Page(c echo.Context) error
	SubmitForm(c echo.Context) error
	Reset(c echo.Context) error
	UpdateField(c echo.Context) error
	UploadImage(c echo.Context) error
	GetForm(c echo.Context) error
	Predict(c echo.Context) error
	Envelope(c echo.Context) error
}
