package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aderencia/internal/receita"
	"aderencia/internal/rules"
)

// GetCompany proxies a registry lookup for the given CNPJ. Only registered
// when a registry client is configured.
func (s *Server) GetCompany(c echo.Context) error {
	cnpj := rules.DigitsOnly(c.Param("cnpj"))
	if len(cnpj) != 14 {
		return echo.NewHTTPError(http.StatusBadRequest, "cnpj must have 14 digits")
	}

	company, err := s.registry.GetByCNPJ(c.Request().Context(), cnpj)
	if err != nil {
		if errors.Is(err, receita.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cnpj not found in registry")
		}
		s.logger.Error("registry lookup failed", zap.String("cnpj", cnpj), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "registry lookup failed")
	}
	return c.JSON(http.StatusOK, company)
}
