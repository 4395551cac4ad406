package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// GetCouncil describes the configured council.
// GET /v1/council
func (h *Handler) GetCouncil(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.CouncilInfo())
}

// QueryCouncil dispatches a conversation to every council model.
// POST /v1/council/query
func (h *Handler) QueryCouncil(c echo.Context) error {
	var req domain.CouncilQueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.QueryCouncil(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
