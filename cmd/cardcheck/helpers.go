package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/iammike/cardcheck/internal/usecase"
	"github.com/rotisserie/eris"
)

const timeRounding = time.Millisecond

// parseDuration accepts Go durations and bare milliseconds ("500")
func parseDuration(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		if d < 0 {
			return 0, eris.Errorf("duration %q must not be negative", raw)
		}
		return d, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return 0, eris.Errorf("invalid duration %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// resolveGrade takes a bare grade plus --grader, or a combined slug such as "psa-10"
func resolveGrade(grade, grader string) (string, string) {
	grader = usecase.ParseGraderValue(strings.TrimSpace(grader))
	if slugGrader, number, ok := usecase.ParseGraderGrade(usecase.FormatGradeName(grade)); ok {
		if grader == "" {
			grader = slugGrader
		}
		return number, grader
	}
	return strings.TrimSpace(grade), grader
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
