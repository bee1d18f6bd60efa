package models

import "github.com/pixelcraft/agency-api/internal/apperror"

// ============================================
// Envelopes
// ============================================

// Response is the success envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorResponse is the failure envelope rendered by the error middleware.
type ErrorResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Stack   string                `json:"stack,omitempty"`
}

func Success(message string, data any) Response {
	if data == nil {
		data = struct{}{}
	}
	return Response{Success: true, Message: message, Data: data}
}

// ============================================
// Pagination
// ============================================

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
