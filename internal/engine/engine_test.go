package engine

import (
	"context"
	"testing"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(n int64) *int64 { return &n }

func TestSuspicionEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name       string
		item       model.InvoiceItem
		goals      []model.Goal
		variations map[string][]string
		want       model.Verdict
	}{
		{
			name:  "empty goal set marks every item suspicious",
			item:  model.InvoiceItem{Description: "laptops", Quantity: 1},
			goals: nil,
			want:  model.Verdict{Suspicious: true},
		},
		{
			name: "item matching goal within quantity",
			item: model.InvoiceItem{Description: "laptops", Quantity: 5},
			goals: []model.Goal{
				{Name: "laptops", ExpectedQuantity: qty(10)},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "laptops"},
		},
		{
			name: "quantity exceeding goal flags but keeps the matched goal",
			item: model.InvoiceItem{Description: "laptops", Quantity: 15},
			goals: []model.Goal{
				{Name: "laptops", ExpectedQuantity: qty(10)},
			},
			want: model.Verdict{Suspicious: true, MatchedGoal: "laptops"},
		},
		{
			name: "item matching no goal",
			item: model.InvoiceItem{Description: "desk lamp", Quantity: 1},
			goals: []model.Goal{
				{Name: "chairs", ExpectedQuantity: qty(20)},
			},
			want: model.Verdict{Suspicious: true},
		},
		{
			name: "first matching goal wins",
			item: model.InvoiceItem{Description: "office chairs deluxe", Quantity: 1},
			goals: []model.Goal{
				{Name: "office chairs", ExpectedQuantity: qty(20)},
				{Name: "chairs", ExpectedQuantity: qty(20)},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "office chairs"},
		},
		{
			name: "goal order is the tie-break",
			item: model.InvoiceItem{Description: "office chairs deluxe", Quantity: 1},
			goals: []model.Goal{
				{Name: "chairs", ExpectedQuantity: qty(20)},
				{Name: "office chairs", ExpectedQuantity: qty(20)},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "chairs"},
		},
		{
			name: "goal without quantity skips the quantity check",
			item: model.InvoiceItem{Description: "laptops", Quantity: 1000},
			goals: []model.Goal{
				{Name: "laptops"},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "laptops"},
		},
		{
			name: "goal with empty name is skipped",
			item: model.InvoiceItem{Description: "laptops", Quantity: 1},
			goals: []model.Goal{
				{Name: "   "},
			},
			want: model.Verdict{Suspicious: true},
		},
		{
			name: "match via generated variation",
			item: model.InvoiceItem{Description: "notebook", Quantity: 2},
			goals: []model.Goal{
				{Name: "laptop", ExpectedQuantity: qty(10)},
			},
			variations: map[string][]string{
				"notebook": {"laptop", "portable computer"},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "laptop"},
		},
		{
			name: "matched goal is the goal name, never the variation",
			item: model.InvoiceItem{Description: "Portable PC", Quantity: 1},
			goals: []model.Goal{
				{Name: "laptop computers", ExpectedQuantity: qty(10)},
			},
			variations: map[string][]string{
				"portable pc": {"laptop"},
			},
			want: model.Verdict{Suspicious: false, MatchedGoal: "laptop computers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewMockVariationSource()
			for item, variations := range tt.variations {
				source.Set(item, variations...)
			}

			e := New(source, nil)
			got := e.Evaluate(context.Background(), tt.item, tt.goals)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuspicionEngine_EvaluateSkipsVariationsWhenNoGoals(t *testing.T) {
	source := NewMockVariationSource()
	e := New(source, nil)

	verdict := e.Evaluate(context.Background(), model.InvoiceItem{Description: "laptops"}, nil)

	assert.True(t, verdict.Suspicious)
	assert.Empty(t, verdict.MatchedGoal)
	assert.Empty(t, source.Calls(), "no variation lookup should happen without goals")
}

func TestSuspicionEngine_EvaluateIsIdempotent(t *testing.T) {
	source := NewMockVariationSource()
	source.Set("laptops", "notebook computer", "pc")

	e := New(source, nil)
	item := model.InvoiceItem{Description: "laptops", Quantity: 5}
	goals := []model.Goal{{Name: "laptops", ExpectedQuantity: qty(10)}}

	first := e.Evaluate(context.Background(), item, goals)
	second := e.Evaluate(context.Background(), item, goals)

	assert.Equal(t, first, second)
}

type panickingSource struct{}

func (panickingSource) Variations(context.Context, string) []string {
	panic("collaborator blew up")
}

func TestSuspicionEngine_EvaluateRecoversToSuspicious(t *testing.T) {
	e := New(panickingSource{}, nil)
	goals := []model.Goal{{Name: "laptops", ExpectedQuantity: qty(10)}}

	verdict := e.Evaluate(context.Background(), model.InvoiceItem{Description: "laptops"}, goals)

	assert.True(t, verdict.Suspicious)
	assert.Empty(t, verdict.MatchedGoal)
}

func TestSuspicionEngine_EvaluateInvoice(t *testing.T) {
	source := NewMockVariationSource()
	e := New(source, nil)

	items := []model.InvoiceItem{
		{Description: "laptops", Quantity: 5},
		{Description: "desk lamp", Quantity: 1},
		{Description: "office chairs", Quantity: 30},
	}
	goals := []model.Goal{
		{Name: "laptops", ExpectedQuantity: qty(10)},
		{Name: "chairs", ExpectedQuantity: qty(20)},
	}

	verdicts := e.EvaluateInvoice(context.Background(), items, goals)

	require.Len(t, verdicts, len(items))
	assert.Equal(t, model.Verdict{Suspicious: false, MatchedGoal: "laptops"}, verdicts[0])
	assert.Equal(t, model.Verdict{Suspicious: true}, verdicts[1])
	assert.Equal(t, model.Verdict{Suspicious: true, MatchedGoal: "chairs"}, verdicts[2])
}
