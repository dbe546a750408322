package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RulesetStatus reports what is loaded: per-table sources and row counts.
func (s *Server) RulesetStatus(c echo.Context) error {
	status := s.store.Status()
	if !status.Loaded {
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}

// ReloadRuleset re-reads the manifest and tables. On failure the previous
// ruleset stays active and the configuration error is returned to the caller.
func (s *Server) ReloadRuleset(c echo.Context) error {
	if err := s.store.Load(); err != nil {
		s.logger.Error("ruleset reload failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, s.store.Status())
}
