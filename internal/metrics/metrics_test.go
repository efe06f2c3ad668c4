package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"pickwise/internal/models"
	"pickwise/internal/prefs"
)

func TestOptionCollector(t *testing.T) {
	store := prefs.NewMemoryStore()
	ctx := context.Background()
	store.UpsertStat(ctx, &models.OptionStat{Title: "Tacos", SuccessCount: 3, FailureCount: 1})
	store.UpsertStat(ctx, &models.OptionStat{Title: "Sushi", FailureCount: 2})

	c := NewOptionCollector(store)
	if got := testutil.CollectAndCount(c); got != 6 {
		t.Errorf("CollectAndCount() = %d, want 6", got)
	}

	expected := `
# HELP pickwise_option_accepts_total Times an option was accepted
# TYPE pickwise_option_accepts_total counter
pickwise_option_accepts_total{title="Sushi"} 0
pickwise_option_accepts_total{title="Tacos"} 3
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "pickwise_option_accepts_total"); err != nil {
		t.Errorf("CollectAndCompare() error = %v", err)
	}
}

type brokenStore struct{ prefs.Store }

func (brokenStore) ListStats(context.Context) ([]models.OptionStat, error) {
	return nil, errors.New("unavailable")
}

func TestOptionCollector_StoreError(t *testing.T) {
	if got := testutil.CollectAndCount(NewOptionCollector(brokenStore{})); got != 0 {
		t.Errorf("CollectAndCount() = %d, want 0 on store error", got)
	}
}

func TestRecordPickAndOutcome(t *testing.T) {
	before := testutil.ToFloat64(picksTotal.WithLabelValues("Surprise Me"))
	RecordPick(1.0)
	RecordPick(0.97)
	if got := testutil.ToFloat64(picksTotal.WithLabelValues("Surprise Me")) - before; got != 2 {
		t.Errorf("picks delta = %v, want 2", got)
	}

	beforeSkip := testutil.ToFloat64(outcomesTotal.WithLabelValues(models.OutcomeSkipped))
	RecordOutcome(models.OutcomeSkipped)
	if got := testutil.ToFloat64(outcomesTotal.WithLabelValues(models.OutcomeSkipped)) - beforeSkip; got != 1 {
		t.Errorf("skips delta = %v, want 1", got)
	}
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg, prefs.NewMemoryStore()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Register(reg, prefs.NewMemoryStore()); err == nil {
		t.Error("Register() twice on one registry succeeded, want error")
	}
}
