package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renewalops/renewguard/internal/adapters/outbound/tui"
	"github.com/renewalops/renewguard/internal/domain"
)

func sampleReport() *domain.Report {
	b := domain.NewReportBuilder()
	b.Add(domain.Outcome{
		Name:    "O2C - NetSuite ID",
		Status:  domain.StatusPass,
		Message: "NetSuite ID is populated: NS-4711",
		Details: domain.NewDetails("NetSuite_ID", "NS-4711"),
	})
	b.Add(domain.Outcome{
		Name:    "Renewal Data vs Signed Quote",
		Status:  domain.StatusWarning,
		Message: "Amount mismatch between Opp (50000) and Quote (51000)",
	})
	return b.Finalize()
}

func TestRenderReport(t *testing.T) {
	out := tui.RenderReport("006xx0000012345", sampleReport())

	assert.Contains(t, out, "Renewal Validation")
	assert.Contains(t, out, "006xx0000012345")
	assert.Contains(t, out, "ISSUES FOUND")
	assert.Contains(t, out, "O2C - NetSuite ID")
	assert.Contains(t, out, "NetSuite_ID: NS-4711")
	assert.Contains(t, out, "Amount mismatch")
	assert.Contains(t, out, "Passed: 1 | Failed: 0 | Warnings: 1 | Skipped: 0")
}

func TestRenderReport_AllGood(t *testing.T) {
	b := domain.NewReportBuilder()
	b.Add(domain.Outcome{Name: "Cancellation Handling", Status: domain.StatusSkip, Message: "Customer did not send cancellation"})
	out := tui.RenderReport("006xx0000012345", b.Finalize())

	assert.Contains(t, out, "ALL GOOD")
	assert.Contains(t, out, "Cancellation Handling")
}
