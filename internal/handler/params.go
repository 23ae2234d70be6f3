package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bruinplace/internal/errors"
)

// uuidParam parses a path parameter as a UUID or fails with 400.
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// parseDate parses an optional YYYY-MM-DD string.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid date, expected YYYY-MM-DD",
			Code:  "INVALID_DATE",
		})
	}
	return &d, nil
}

// parseUUIDs parses a list of UUID strings or fails with 400.
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid amenity id: " + s,
				Code:  "INVALID_UUID",
			})
		}
		out = append(out, id)
	}
	return out, nil
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
