package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the standard success response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int64 `json:"count,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondList(c echo.Context, message string, data any, count int64) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data, Count: &count})
}
