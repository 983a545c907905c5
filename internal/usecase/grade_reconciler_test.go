package usecase

import (
	"testing"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grades(rows []domain.PriceRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Grade)
	}
	return out
}

func TestReconcile_UngradedExactMatchFirst(t *testing.T) {
	r := NewGradeReconciler()

	got := r.Reconcile(&domain.PriceTable{
		URL:    "https://www.pricecharting.com/game/x/y",
		Grades: map[string]float64{"PSA 10": 500.00, "Ungraded": 20.00},
	}, "Ungraded", "")

	require.Len(t, got.Rows, 2)
	assert.Equal(t, "Ungraded", got.Rows[0].Grade)
	assert.True(t, got.Rows[0].Exact)
	assert.True(t, got.HasExactMatch)
	assert.Equal(t, "https://www.pricecharting.com/game/x/y", got.URL)
}

func TestReconcile_ExactMatchAlwaysFirst(t *testing.T) {
	r := NewGradeReconciler()

	table := &domain.PriceTable{Grades: map[string]float64{
		"Ungraded":  12,
		"Grade 7":   30,
		"Grade 8":   45,
		"Grade 9":   90,
		"Grade 9.5": 150,
		"PSA 10":    600,
		"BGS 10":    900,
		"CGC 10":    400,
	}}

	for _, tc := range []struct{ grade, grader, want string }{
		{"9", "PSA", "Grade 9"},
		{"10", "PSA", "PSA 10"},
		{"10", "BGS", "BGS 10"},
		{"7", "", "Grade 7"},
	} {
		got := r.Reconcile(table, tc.grade, tc.grader)
		assert.Equal(t, tc.want, got.Rows[0].Grade)
		assert.True(t, got.Rows[0].Exact)
	}
}

func TestReconcile_SurroundingWhenNoExact(t *testing.T) {
	r := NewGradeReconciler()

	table := &domain.PriceTable{Grades: map[string]float64{
		"Ungraded": 10,
		"Grade 7":  25,
		"Grade 9":  80,
		"PSA 10":   400,
		"BGS 10":   700,
	}}

	got := r.Reconcile(table, "8", "PSA")

	assert.False(t, got.HasExactMatch)
	assert.Equal(t, "Grade 7", got.Below)
	assert.Equal(t, "Grade 9", got.Above)
	assert.Equal(t, []string{"Grade 9", "Grade 7", "Ungraded", "BGS 10", "PSA 10"}, grades(got.Rows))
	assert.True(t, got.Rows[0].Surrounding)
	assert.True(t, got.Rows[1].Surrounding)
	assert.False(t, got.Rows[2].Surrounding)
}

func TestReconcile_NoSurroundingForUnparsableGrade(t *testing.T) {
	r := NewGradeReconciler()

	table := &domain.PriceTable{Grades: map[string]float64{
		"Grade 7": 25,
		"Grade 9": 80,
		"Ungraded": 10,
	}}

	got := r.Reconcile(table, "Authentic", "")
	assert.Empty(t, got.Below)
	assert.Empty(t, got.Above)
	assert.Equal(t, []string{"Ungraded", "Grade 9", "Grade 7"}, grades(got.Rows))
}

func TestReconcile_PriceBreaksGradeTies(t *testing.T) {
	r := NewGradeReconciler()

	table := &domain.PriceTable{Grades: map[string]float64{
		"PSA 10": 400,
		"BGS 10": 700,
		"SGC 10": 250,
	}}

	got := r.Reconcile(table, "Ungraded", "")
	assert.Equal(t, []string{"BGS 10", "PSA 10", "SGC 10"}, grades(got.Rows))
}

func TestReconcile_NilTable(t *testing.T) {
	got := NewGradeReconciler().Reconcile(nil, "10", "PSA")
	assert.Empty(t, got.Rows)
}

func TestFindSurroundingGrades(t *testing.T) {
	table := map[string]float64{
		"Ungraded":     5,
		"Grade 1":      8,
		"Grade 6":      20,
		"Grade 9.5":    120,
		"Custom Label": 50,
	}

	below, above := FindSurroundingGrades(table, 8)
	assert.Equal(t, "Grade 6", below)
	assert.Equal(t, "Grade 9.5", above)

	below, above = FindSurroundingGrades(table, 10)
	assert.Equal(t, "Grade 9.5", below)
	assert.Empty(t, above)

	below, above = FindSurroundingGrades(table, 0.5)
	assert.Empty(t, below)
	assert.Equal(t, "Grade 1", above)
}

func TestFormatPrice(t *testing.T) {
	r := NewGradeReconciler()
	assert.Equal(t, "$20.00", r.FormatPrice(20))
	assert.Equal(t, "$1,234.50", r.FormatPrice(1234.5))
}
