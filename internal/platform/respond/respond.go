// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON envelope structure:
//
//	{statusCode, message, data? | errors?, count?}
//
// This consistency is crucial for mobile apps and frontend SPAs to parse
// data robustly.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/ctxkey"
	"github.com/taibuivan/gametrack/pkg/endpoint"
	"github.com/taibuivan/gametrack/pkg/pointer"
)

// Envelope is the JSON wrapper shared by every API response.
type Envelope struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message,omitempty"`
	Count      *int                `json:"count,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with a message and data in the standard envelope.
func OK(writer http.ResponseWriter, message string, data interface{}) {
	JSON(writer, http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
	})
}

// Created writes a 201 Created response in the standard envelope.
func Created(writer http.ResponseWriter, message string, data interface{}) {
	JSON(writer, http.StatusCreated, Envelope{
		StatusCode: http.StatusCreated,
		Message:    message,
		Data:       data,
	})
}

// Collection writes a 200 OK response carrying a data array plus its count.
//
// Count is the number of rows in data. Lists are unpaginated by default, so
// it equals the total unless the caller opted into page/limit parameters.
func Collection(writer http.ResponseWriter, message string, data interface{}, count int) {
	JSON(writer, http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Message:    message,
		Count:      pointer.To(count),
		Data:       data,
	})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details before surfacing.
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "unhandled_error_wrapped",
			slog.String("error", err.Error()),
			slog.String("request_id", getRequestIDFromContext(request)),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := getLoggerFromContext(request)
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", getRequestIDFromContext(request)),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := Envelope{
		StatusCode: appError.HTTPStatus,
		Errors:     appError.Errors,
	}

	// Validation failures carry the structured error list instead of a message.
	if len(appError.Errors) == 0 {
		envelope.Message = appError.Message
	}

	JSON(writer, appError.HTTPStatus, envelope)
}

// # Router Fallbacks

// EndpointNotFound handles requests whose path matches no registered route.
//
// The payload names the endpoint with the API prefix and trailing slash stripped.
func EndpointNotFound(writer http.ResponseWriter, request *http.Request) {
	JSON(writer, http.StatusNotFound, Envelope{
		StatusCode: http.StatusNotFound,
		Message:    "Endpoint " + endpoint.Trim(request.URL.Path) + " not found",
	})
}

// MethodNotAllowed handles requests whose path matched but whose method did not.
func MethodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	JSON(writer, http.StatusMethodNotAllowed, Envelope{
		StatusCode: http.StatusMethodNotAllowed,
		Message:    "Method " + request.Method + " not allowed at endpoint " + endpoint.Trim(request.URL.Path),
	})
}

// getLoggerFromContext extracts the per-request logger.
func getLoggerFromContext(request *http.Request) *slog.Logger {
	if logger, ok := request.Context().Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// getRequestIDFromContext extracts the X-Request-ID for log correlation.
func getRequestIDFromContext(request *http.Request) string {
	if id, ok := request.Context().Value(ctxkey.KeyRequestID).(string); ok {
		return id
	}
	return ""
}
