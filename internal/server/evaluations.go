package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aderencia/internal/common"
	"aderencia/internal/engine"
	"aderencia/internal/repository"
)

// EvaluateTextRequest carries already-extracted document text.
type EvaluateTextRequest struct {
	Text       string `json:"text" validate:"required,min=1"`
	SourceName string `json:"source_name"`
}

// EvaluationSummary is one history listing entry.
type EvaluationSummary struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SourceName  string    `json:"source_name,omitempty"`
	CompanyName string    `json:"company_name"`
	CNPJ        string    `json:"cnpj"`
	Outcome     string    `json:"outcome"`
	Phase       string    `json:"phase"`
	Reason      string    `json:"reason"`
}

// EvaluationDetail is a stored evaluation with its full verdict re-attached.
type EvaluationDetail struct {
	EvaluationSummary
	Verdict engine.Verdict `json:"verdict"`
}

// CreateEvaluation accepts either a multipart PDF upload (field "file") or a
// JSON body with raw document text, runs the pipeline and returns the result.
func (s *Server) CreateEvaluation(c echo.Context) error {
	ctx := c.Request().Context()

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return s.createFromUpload(c)
	}

	var req EvaluateTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	res, err := s.evaluator.EvaluateText(ctx, req.Text, req.SourceName)
	if err != nil {
		return s.pipelineError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) createFromUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, `multipart field "file" is required`)
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		return echo.NewHTTPError(http.StatusBadRequest, "only PDF uploads are supported")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read upload")
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp("", "cartao-*.pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot buffer upload")
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := io.Copy(tmp, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot buffer upload")
	}

	res, err := s.evaluator.EvaluatePDF(c.Request().Context(), tmp.Name(), fh.Filename)
	if err != nil {
		return s.pipelineError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (s *Server) ListEvaluations(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}

	evs, err := s.repo.List(c.Request().Context(), limit)
	if err != nil {
		s.logger.Warn("list evaluations failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "list evaluations failed")
	}

	out := make([]EvaluationSummary, 0, len(evs))
	for _, ev := range evs {
		out = append(out, summarize(ev))
	}
	return c.JSON(http.StatusOK, echo.Map{"evaluations": out})
}

func (s *Server) GetEvaluation(c echo.Context) error {
	ev, err := s.loadEvaluation(c)
	if err != nil {
		return err
	}

	var verdict engine.Verdict
	if err := json.Unmarshal([]byte(ev.ReportJSON), &verdict); err != nil {
		s.logger.Error("stored verdict unreadable", zap.String("id", ev.ID.String()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "stored verdict unreadable")
	}
	return c.JSON(http.StatusOK, EvaluationDetail{EvaluationSummary: summarize(ev), Verdict: verdict})
}

func (s *Server) GetEvaluationReport(c echo.Context) error {
	ev, err := s.loadEvaluation(c)
	if err != nil {
		return err
	}

	var verdict engine.Verdict
	if err := json.Unmarshal([]byte(ev.ReportJSON), &verdict); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "stored verdict unreadable")
	}

	data, err := s.exporter.VerdictXLSX(ev, verdict)
	if err != nil {
		s.logger.Error("xlsx export failed", zap.String("id", ev.ID.String()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "report export failed")
	}

	name := fmt.Sprintf("aderencia-%s.xlsx", ev.ID)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) loadEvaluation(c echo.Context) (*repository.Evaluation, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}
	ev, err := s.repo.GetByID(c.Request().Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "evaluation not found")
	}
	if err != nil {
		s.logger.Warn("load evaluation failed", zap.String("id", id.String()), zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "load evaluation failed")
	}
	return ev, nil
}

func (s *Server) pipelineError(c echo.Context, err error) error {
	if common.IsConfigError(err) {
		s.logger.Error("evaluation blocked by configuration", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	s.logger.Error("evaluation failed", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "evaluation failed")
}

func summarize(ev *repository.Evaluation) EvaluationSummary {
	return EvaluationSummary{
		ID:          ev.ID,
		CreatedAt:   ev.CreatedAt,
		SourceName:  ev.SourceName,
		CompanyName: ev.CompanyName,
		CNPJ:        ev.CNPJ,
		Outcome:     ev.Outcome,
		Phase:       ev.Phase,
		Reason:      ev.Reason,
	}
}
