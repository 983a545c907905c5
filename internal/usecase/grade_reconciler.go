package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/iammike/cardcheck/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// display tiers for reconciled price rows
const (
	tierExact = iota
	tierSurrounding
	tierUngraded
	tierRest
)

// GradeReconciler orders a price table relative to a record's own grade
type GradeReconciler struct {
	printer *message.Printer
}

// NewGradeReconciler creates a grade reconciler
func NewGradeReconciler() *GradeReconciler {
	return &GradeReconciler{printer: message.NewPrinter(language.AmericanEnglish)}
}

// Reconcile returns the table's rows in display order: the exact grade first, then
// (only without an exact match) the nearest grades below and above, then Ungraded,
// then everything else by grade and price descending.
func (r *GradeReconciler) Reconcile(table *domain.PriceTable, grade, grader string) *domain.ReconciledPrices {
	out := &domain.ReconciledPrices{Rows: []domain.PriceRow{}}
	if table == nil {
		return out
	}
	out.URL = table.URL

	for label := range table.Grades {
		if grade != "" && IsGradeMatch(label, grade, grader) {
			out.HasExactMatch = true
			break
		}
	}

	target := ParseGradeNumber(grade)
	if !out.HasExactMatch && target != 0 && !strings.EqualFold(grade, domain.UngradedLabel) {
		out.Below, out.Above = FindSurroundingGrades(table.Grades, target)
	}

	type ranked struct {
		row  domain.PriceRow
		tier int
		num  float64
	}

	rows := make([]ranked, 0, len(table.Grades))
	for label, price := range table.Grades {
		rr := ranked{
			row: domain.PriceRow{
				Grade:   label,
				Price:   price,
				Display: r.FormatPrice(price),
			},
			tier: tierRest,
			num:  ParseGradeNumber(label),
		}
		switch {
		case grade != "" && IsGradeMatch(label, grade, grader):
			rr.tier = tierExact
			rr.row.Exact = true
		case label != "" && (label == out.Below || label == out.Above):
			rr.tier = tierSurrounding
			rr.row.Surrounding = true
		case strings.EqualFold(label, domain.UngradedLabel):
			rr.tier = tierUngraded
		}
		rows = append(rows, rr)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.num != b.num {
			return a.num > b.num
		}
		if a.row.Price != b.row.Price {
			return a.row.Price > b.row.Price
		}
		return a.row.Grade < b.row.Grade
	})

	for _, rr := range rows {
		out.Rows = append(out.Rows, rr.row)
	}
	return out
}

// FindSurroundingGrades returns the labels of the nearest numeric grades strictly below
// and strictly above target. Ungraded rows and rows whose grade parses to 0 are ignored.
func FindSurroundingGrades(grades map[string]float64, target float64) (below, above string) {
	labels := make([]string, 0, len(grades))
	for label := range grades {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	belowNum := math.Inf(-1)
	aboveNum := math.Inf(1)
	for _, label := range labels {
		if strings.EqualFold(label, domain.UngradedLabel) {
			continue
		}
		num := ParseGradeNumber(label)
		if num == 0 {
			continue
		}
		if num < target && num > belowNum {
			belowNum = num
			below = label
		}
		if num > target && num < aboveNum {
			aboveNum = num
			above = label
		}
	}
	return below, above
}

// FormatPrice renders a price as US dollars with thousands separators
func (r *GradeReconciler) FormatPrice(price float64) string {
	return r.printer.Sprintf("$%.2f", price)
}
