package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"aderencia/internal/common"
)

func openTestRepo(t *testing.T) EvaluationRepository {
	t.Helper()
	db, err := Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewEvaluationRepository(db, nil)
}

func TestSaveAndGetEvaluation(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	ev := &Evaluation{
		ID:          uuid.New(),
		CreatedAt:   time.Now().UTC(),
		SourceName:  "cartao.pdf",
		CompanyName: "PADARIA ESTRELA LTDA",
		CNPJ:        "11.222.333/0001-44",
		Outcome:     "APPROVED",
		Phase:       "ACTIVITY",
		Reason:      "Atividade econômica principal aderente: 47.21-1-02.",
		ReportJSON:  `{"outcome":"APPROVED"}`,
	}
	if err := repo.Save(ctx, ev); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CompanyName != ev.CompanyName || got.Outcome != ev.Outcome || got.ReportJSON != ev.ReportJSON {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetMissingEvaluation(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ev := &Evaluation{
			ID:        uuid.New(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Outcome:   "REJECTED",
			Phase:     "NATURE",
			Reason:    "r",
			ReportJSON: "{}",
		}
		if err := repo.Save(ctx, ev); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, ev.ID)
	}

	out, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d rows", len(out))
	}
	if out[0].ID != ids[2] {
		t.Error("newest evaluation must come first")
	}
}
