package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renewalops/renewguard/internal/application"
	"github.com/renewalops/renewguard/internal/domain"
)

func TestStageCurrent(t *testing.T) {
	crm := &stubCRM{
		getRec: domain.NewRecord(map[string]any{
			"Name":      "ACME Renewal FY26",
			"StageName": "Engaged",
		}),
		getFound: true,
	}
	svc := application.NewStageService(crm, crm, nil)

	info, err := svc.Current(context.Background(), "006xx0000012345")
	require.NoError(t, err)

	assert.Equal(t, "ACME Renewal FY26", info.OpportunityName)
	assert.Equal(t, "Engaged", info.CurrentStage)
	assert.Equal(t, domain.ValidStages, info.ValidStages)
}

func TestStageCurrent_NotFound(t *testing.T) {
	crm := &stubCRM{getFound: false}
	svc := application.NewStageService(crm, crm, nil)

	_, err := svc.Current(context.Background(), "006xx0000099999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStageUpdate(t *testing.T) {
	crm := &stubCRM{
		getRec: domain.NewRecord(map[string]any{
			"Name":      "ACME Renewal FY26",
			"StageName": "Proposal",
		}),
		getFound: true,
	}
	svc := application.NewStageService(crm, crm, nil)

	update, err := svc.Update(context.Background(), "006xx0000012345", "Quote Follow-Up")
	require.NoError(t, err)

	assert.Equal(t, "Proposal", update.PreviousStage)
	assert.Equal(t, "Quote Follow-Up", update.CurrentStage)

	require.Len(t, crm.updated, 1)
	assert.Equal(t, "Opportunity", crm.updated[0].object)
	assert.Equal(t, "006xx0000012345", crm.updated[0].id)
	assert.Equal(t, map[string]any{"StageName": "Quote Follow-Up"}, crm.updated[0].fields)
}

func TestStageUpdate_RejectsUnknownStage(t *testing.T) {
	crm := &stubCRM{getFound: true}
	svc := application.NewStageService(crm, crm, nil)

	_, err := svc.Update(context.Background(), "006xx0000012345", "Negotiation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stage")
	assert.Empty(t, crm.updated, "no write on validation failure")
}

func TestStageUpdate_MissingID(t *testing.T) {
	svc := application.NewStageService(&stubCRM{}, &stubCRM{}, nil)

	_, err := svc.Update(context.Background(), "", "Pending")
	assert.ErrorIs(t, err, domain.ErrMissingOpportunityID)
}
