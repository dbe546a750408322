// Package server exposes the evaluation pipeline over HTTP.
package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"aderencia/internal/export"
	"aderencia/internal/receita"
	"aderencia/internal/repository"
	"aderencia/internal/rules"
	"aderencia/internal/service"
)

type Server struct {
	evaluator *service.Evaluator
	repo      repository.EvaluationRepository
	store     *rules.Store
	exporter  *export.Service
	registry  *receita.Client
	validate  *validator.Validate
	logger    *zap.Logger
}

// New wires the handler set. registry is optional; pass nil to disable the
// /v1/companies enrichment route.
func New(evaluator *service.Evaluator, repo repository.EvaluationRepository, store *rules.Store, exporter *export.Service, registry *receita.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		evaluator: evaluator,
		repo:      repo,
		store:     store,
		exporter:  exporter,
		registry:  registry,
		validate:  validator.New(),
		logger:    logger,
	}
}

// NewEcho builds the echo instance with middleware and all routes registered.
func (s *Server) NewEcho(bodyLimit string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if bodyLimit != "" {
		e.Use(middleware.BodyLimit(bodyLimit))
	}

	e.GET("/healthz", s.Health)

	e.POST("/v1/evaluations", s.CreateEvaluation)
	e.GET("/v1/evaluations", s.ListEvaluations)
	e.GET("/v1/evaluations/:id", s.GetEvaluation)
	e.GET("/v1/evaluations/:id/report.xlsx", s.GetEvaluationReport)

	e.GET("/v1/ruleset", s.RulesetStatus)
	e.POST("/v1/ruleset/reload", s.ReloadRuleset)

	if s.registry != nil {
		e.GET("/v1/companies/:cnpj", s.GetCompany)
	}

	return e
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
