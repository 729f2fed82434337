package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/sfh/internal/compliance"
)

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health())
}

// ListProviders returns the configured providers in failover order.
func (h *Handler) ListProviders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"providers": h.service.Providers(),
	})
}

// ListAxioms returns the axiom table. ?severity=critical filters it.
func (h *Handler) ListAxioms(c echo.Context) error {
	axioms := compliance.Axioms
	if c.QueryParam("severity") == "critical" {
		axioms = compliance.CriticalAxioms()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"axioms": axioms,
		"count":  len(axioms),
	})
}
