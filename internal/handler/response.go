package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the API envelope every endpoint uses.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Response{Status: "success", Message: message, Data: data})
}
