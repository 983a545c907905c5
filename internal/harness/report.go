package harness

import (
	"strconv"
	"time"
)

// Report collects the results of a run in input order
type Report struct {
	Results     []CaseResult
	Passed      int
	Failed      int
	Unvalidated int
	Duration    time.Duration
}

func newReport(results []CaseResult, elapsed time.Duration) *Report {
	rep := &Report{Results: results, Duration: elapsed}
	for _, r := range results {
		if r.Status == StatusPass {
			rep.Passed++
			if r.Unvalidated {
				rep.Unvalidated++
			}
			continue
		}
		rep.Failed++
	}
	return rep
}

// OK reports whether every case passed
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Failures returns the failed cases
func (r *Report) Failures() []CaseResult {
	var out []CaseResult
	for _, res := range r.Results {
		if res.Status != StatusPass {
			out = append(out, res)
		}
	}
	return out
}

// Summary is the one-line tally, e.g. "12 passed, 1 failed (3 without validation)"
func (r *Report) Summary() string {
	s := strconv.Itoa(r.Passed) + " passed, " + strconv.Itoa(r.Failed) + " failed"
	if r.Unvalidated > 0 {
		s += " (" + strconv.Itoa(r.Unvalidated) + " without validation)"
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
