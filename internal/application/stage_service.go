package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// StageService reads and updates an opportunity's sales stage.
type StageService struct {
	crm    domain.CRMClient
	writer domain.CRMWriter
	logger *slog.Logger
}

func NewStageService(crm domain.CRMClient, writer domain.CRMWriter, logger *slog.Logger) *StageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StageService{crm: crm, writer: writer, logger: logger}
}

// StageInfo is the current stage of an opportunity plus the accepted values.
type StageInfo struct {
	OpportunityID   string   `json:"opportunity_id"`
	OpportunityName string   `json:"opportunity_name"`
	CurrentStage    string   `json:"current_stage"`
	ValidStages     []string `json:"valid_stages"`
}

// StageUpdate describes a completed stage transition.
type StageUpdate struct {
	OpportunityID   string `json:"opportunity_id"`
	OpportunityName string `json:"opportunity_name"`
	PreviousStage   string `json:"previous_stage"`
	CurrentStage    string `json:"current_stage"`
}

// Current returns the opportunity's present stage.
func (s *StageService) Current(ctx context.Context, opportunityID string) (*StageInfo, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}

	rec, err := s.fetch(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	name, _ := rec.String("Name")
	stage, _ := rec.String("StageName")
	return &StageInfo{
		OpportunityID:   opportunityID,
		OpportunityName: name,
		CurrentStage:    stage,
		ValidStages:     domain.ValidStages,
	}, nil
}

// Update moves the opportunity to newStage after validating it against the
// accepted stage list.
func (s *StageService) Update(ctx context.Context, opportunityID, newStage string) (*StageUpdate, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}
	if !domain.IsValidStage(newStage) {
		return nil, fmt.Errorf("invalid stage %q (valid: %s)", newStage, strings.Join(domain.ValidStages, ", "))
	}

	rec, err := s.fetch(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	name, _ := rec.String("Name")
	previous, _ := rec.String("StageName")

	if err := s.writer.Update(ctx, "Opportunity", opportunityID, map[string]any{"StageName": newStage}); err != nil {
		return nil, fmt.Errorf("updating stage: %w", err)
	}

	s.logger.Info("opportunity stage updated",
		"opportunity_id", opportunityID,
		"from", previous,
		"to", newStage,
	)
	return &StageUpdate{
		OpportunityID:   opportunityID,
		OpportunityName: name,
		PreviousStage:   previous,
		CurrentStage:    newStage,
	}, nil
}

func (s *StageService) fetch(ctx context.Context, opportunityID string) (domain.Record, error) {
	path := fmt.Sprintf("/sobjects/Opportunity/%s?fields=Id,Name,StageName", url.PathEscape(opportunityID))
	rec, found, err := s.crm.Get(ctx, path)
	if err != nil {
		return domain.Record{}, fmt.Errorf("fetching opportunity: %w", err)
	}
	if !found {
		return domain.Record{}, fmt.Errorf("opportunity %s: %w", opportunityID, domain.ErrNotFound)
	}
	return rec, nil
}
