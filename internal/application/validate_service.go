package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/renewalops/renewguard/internal/domain"
	"github.com/renewalops/renewguard/internal/domain/checks"
)

// ValidateService orchestrates one validation run:
// describe object -> resolve fields -> fetch record -> run battery -> report.
type ValidateService struct {
	crm    domain.CRMClient
	cfg    domain.Config
	logger *slog.Logger
}

func NewValidateService(crm domain.CRMClient, cfg domain.Config, logger *slog.Logger) *ValidateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateService{crm: crm, cfg: cfg, logger: logger}
}

// Validate runs the full check battery against one renewal opportunity.
// Describe and primary-fetch failures are fatal; everything downstream is
// captured inside the returned report.
func (s *ValidateService) Validate(ctx context.Context, opportunityID string) (*domain.Report, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}

	log := s.logger.With("run_id", uuid.NewString(), "opportunity_id", opportunityID)

	schema, err := s.crm.Describe(ctx, "Opportunity")
	if err != nil {
		return nil, fmt.Errorf("describing Opportunity: %w", err)
	}

	resolved := domain.Resolve(s.cfg.Candidates, schema)
	log.Debug("schema resolved",
		"found", resolved.FoundCount(),
		"expected", len(s.cfg.Candidates),
	)

	records, err := s.crm.Query(ctx, s.recordQuery(opportunityID, resolved))
	if err != nil {
		return nil, fmt.Errorf("fetching opportunity: %w", err)
	}

	builder := domain.NewReportBuilder()
	if len(records) == 0 {
		builder.Add(domain.Outcome{
			Name:    "Opportunity Exists",
			Status:  domain.StatusFail,
			Message: fmt.Sprintf("Opportunity %s not found", opportunityID),
		})
		log.Info("validation aborted", "reason", "opportunity not found")
		return builder.Finalize(), nil
	}

	in := checks.Input{
		CRM:           s.crm,
		Config:        s.cfg,
		OpportunityID: opportunityID,
		Opportunity:   records[0],
		Fields:        resolved,
		Schema:        schema,
	}
	for _, outcome := range checks.RunAll(ctx, in) {
		builder.Add(outcome)
	}

	report := builder.Finalize()
	log.Info("validation complete",
		"overall_status", report.OverallStatus,
		"passed", report.Passed,
		"failed", report.Failed,
		"warnings", report.Warnings,
		"skipped", report.Skipped,
	)
	return report, nil
}

// recordQuery projects the base fields plus every resolved custom field.
func (s *ValidateService) recordQuery(opportunityID string, resolved domain.ResolvedFields) string {
	fields := make([]string, 0, len(domain.BaseFields)+len(resolved))
	fields = append(fields, domain.BaseFields...)
	fields = append(fields, resolved.FieldNames()...)
	return fmt.Sprintf(
		"SELECT %s FROM Opportunity WHERE Id = '%s'",
		strings.Join(fields, ", "),
		domain.SOQLEscape(opportunityID),
	)
}
