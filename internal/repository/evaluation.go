package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aderencia/internal/common"
)

// Evaluation is one persisted verdict summary. The extracted record itself is
// not retained; only what the history listing needs, plus the full report as
// JSON for re-rendering.
type Evaluation struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	SourceName  string
	CompanyName string
	CNPJ        string
	Outcome     string
	Phase       string
	Reason      string
	ReportJSON  string
}

type EvaluationRepository interface {
	Save(ctx context.Context, ev *Evaluation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	List(ctx context.Context, limit int) ([]*Evaluation, error)
}

type evaluationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewEvaluationRepository(db *sql.DB, logger *zap.Logger) EvaluationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &evaluationRepository{db: db, logger: logger}
}

func (r *evaluationRepository) Save(ctx context.Context, ev *Evaluation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO evaluations
		 (id, created_at, source_name, company_name, cnpj, outcome, phase, reason, report_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID.String(), ev.CreatedAt.UTC(), ev.SourceName, ev.CompanyName, ev.CNPJ,
		ev.Outcome, ev.Phase, ev.Reason, ev.ReportJSON,
	)
	if err != nil {
		r.logger.Error("failed to save evaluation", zap.String("id", ev.ID.String()), zap.Error(err))
		return common.WrapError(err, "save evaluation")
	}
	return nil
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, source_name, company_name, cnpj, outcome, phase, reason, report_json
		 FROM evaluations WHERE id = ?`, id.String())

	ev, err := scanEvaluation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to load evaluation", zap.String("id", id.String()), zap.Error(err))
		return nil, common.WrapError(err, "load evaluation")
	}
	return ev, nil
}

func (r *evaluationRepository) List(ctx context.Context, limit int) ([]*Evaluation, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, source_name, company_name, cnpj, outcome, phase, reason, report_json
		 FROM evaluations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		r.logger.Error("failed to list evaluations", zap.Error(err))
		return nil, common.WrapError(err, "list evaluations")
	}
	defer func() { _ = rows.Close() }()

	var out []*Evaluation
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan evaluation")
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(s scanner) (*Evaluation, error) {
	var ev Evaluation
	var id string
	if err := s.Scan(&id, &ev.CreatedAt, &ev.SourceName, &ev.CompanyName, &ev.CNPJ,
		&ev.Outcome, &ev.Phase, &ev.Reason, &ev.ReportJSON); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	ev.ID = parsed
	return &ev, nil
}
