// Package service wires the extractor and the decision engine into one
// evaluation pipeline: raw text (or PDF) in, persisted verdict out.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aderencia/internal/cartao"
	"aderencia/internal/common"
	"aderencia/internal/engine"
	"aderencia/internal/pdftext"
	"aderencia/internal/repository"
	"aderencia/internal/rules"
)

type Evaluator struct {
	logger *zap.Logger
	store  *rules.Store
	pdf    *pdftext.Extractor
	repo   repository.EvaluationRepository
}

func NewEvaluator(store *rules.Store, pdf *pdftext.Extractor, repo repository.EvaluationRepository, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, store: store, pdf: pdf, repo: repo}
}

// Result is one finished evaluation: what was extracted and what was decided.
type Result struct {
	ID         uuid.UUID      `json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	SourceName string         `json:"source_name,omitempty"`
	Record     cartao.Record  `json:"record"`
	Verdict    engine.Verdict `json:"verdict"`
}

// EvaluateText runs the full pipeline on already-extracted document text.
func (s *Evaluator) EvaluateText(ctx context.Context, text, sourceName string) (*Result, error) {
	rs := s.store.Current()
	if rs == nil {
		return nil, common.NewConfigError("no ruleset loaded", common.ErrConfig)
	}

	rec := cartao.Parse(text)
	verdict := engine.Evaluate(rec, rs)

	res := &Result{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		SourceName: sourceName,
		Record:     rec,
		Verdict:    verdict,
	}

	if err := s.persist(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("evaluation done",
		zap.String("id", res.ID.String()),
		zap.String("cnpj", rec.CNPJ),
		zap.String("outcome", string(verdict.Outcome)),
		zap.String("phase", string(verdict.Phase)),
		zap.Int("activities", len(verdict.ActivityReport)),
	)
	return res, nil
}

// EvaluatePDF extracts text from a Cartão CNPJ PDF and evaluates it.
func (s *Evaluator) EvaluatePDF(ctx context.Context, path, sourceName string) (*Result, error) {
	text, pages, err := s.pdf.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	s.logger.Debug("pdf text extracted", zap.String("source", sourceName), zap.Int("pages", pages))
	return s.EvaluateText(ctx, text, sourceName)
}

func (s *Evaluator) persist(ctx context.Context, res *Result) error {
	report, err := json.Marshal(res.Verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}
	return s.repo.Save(ctx, &repository.Evaluation{
		ID:          res.ID,
		CreatedAt:   res.CreatedAt,
		SourceName:  res.SourceName,
		CompanyName: res.Record.CompanyName,
		CNPJ:        res.Record.CNPJ,
		Outcome:     string(res.Verdict.Outcome),
		Phase:       string(res.Verdict.Phase),
		Reason:      res.Verdict.Reason,
		ReportJSON:  string(report),
	})
}
