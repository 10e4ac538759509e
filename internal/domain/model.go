package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Status classifies the outcome of a single validation check.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusWarning Status = "WARNING"
	StatusSkip    Status = "SKIP"
	StatusInfo    Status = "INFO"
)

// IsIssue reports whether the status counts toward "ISSUES FOUND".
func (s Status) IsIssue() bool {
	return s == StatusFail || s == StatusWarning
}

// Overall status values as they appear on the wire.
const (
	OverallAllGood     = "ALL GOOD"
	OverallIssuesFound = "ISSUES FOUND"
)

// Details is an insertion-ordered set of key/value pairs attached to an
// outcome. Order survives JSON marshaling so reports render deterministically.
type Details = orderedmap.OrderedMap[string, any]

// NewDetails builds a Details map from alternating key/value pairs.
func NewDetails(pairs ...any) *Details {
	d := orderedmap.New[string, any]()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		d.Set(key, pairs[i+1])
	}
	return d
}

// Outcome is the immutable result of one check.
type Outcome struct {
	Name    string   `json:"name"`
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Details *Details `json:"details,omitempty"`
}

// Report is the aggregate validation result. Outcome order equals check
// execution order and is part of the contract.
type Report struct {
	OverallStatus string    `json:"overall_status"`
	TotalChecks   int       `json:"total_checks"`
	Passed        int       `json:"passed"`
	Failed        int       `json:"failed"`
	Warnings      int       `json:"warnings"`
	Skipped       int       `json:"skipped"`
	Checks        []Outcome `json:"checks"`
}

// ReportBuilder accumulates outcomes in execution order. Outcomes are never
// reordered or mutated once added.
type ReportBuilder struct {
	outcomes []Outcome
}

func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{}
}

// Add appends one outcome.
func (b *ReportBuilder) Add(o Outcome) {
	b.outcomes = append(b.outcomes, o)
}

// Len returns the number of outcomes added so far.
func (b *ReportBuilder) Len() int { return len(b.outcomes) }

// Finalize computes the summary counts and overall status.
func (b *ReportBuilder) Finalize() *Report {
	r := &Report{
		Checks:      b.outcomes,
		TotalChecks: len(b.outcomes),
	}
	for _, o := range b.outcomes {
		switch o.Status {
		case StatusPass:
			r.Passed++
		case StatusFail:
			r.Failed++
		case StatusWarning:
			r.Warnings++
		case StatusSkip:
			r.Skipped++
		}
	}
	r.OverallStatus = overallStatus(b.outcomes)
	return r
}

// overallStatus is "ISSUES FOUND" iff at least one outcome is FAIL or WARNING.
func overallStatus(outcomes []Outcome) string {
	for _, o := range outcomes {
		if o.Status.IsIssue() {
			return OverallIssuesFound
		}
	}
	return OverallAllGood
}
