package handler

import (
	"strconv"

	domainerrors "taskboard/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// parsePageParams reads the lastId/limit cursor query parameters. Both are
// optional; the usecase applies the default page size when limit is zero.
func parsePageParams(c echo.Context) (uuid.UUID, int, error) {
	lastID := uuid.Nil
	if raw := c.QueryParam("lastId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, 0, domainerrors.ErrValidationFailed.WrapMessage("lastId must be a uuid")
		}
		lastID = parsed
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return uuid.Nil, 0, domainerrors.ErrValidationFailed.WrapMessage("limit must be a non-negative integer")
		}
		limit = parsed
	}

	return lastID, limit, nil
}

// parsePathUUID reads a uuid path parameter.
func parsePathUUID(c echo.Context, name string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage(name + " must be a uuid")
	}

	return parsed, nil
}
