package handler

import (
	"github.com/labstack/echo/v4"
)

// Response is the JSON envelope every successful request is wrapped in.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondPage(c echo.Context, status int, data interface{}, p *Pagination) error {
	return c.JSON(status, Response{Success: true, Data: data, Pagination: p})
}

func pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	n := int(total) / limit
	if int(total)%limit != 0 {
		n++
	}
	return n
}
