// Package httpapi exposes the renewal services over HTTP with a uniform
// {success, ...} JSON envelope for automations and internal tools.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/renewalops/renewguard/internal/application"
	"github.com/renewalops/renewguard/internal/domain"
)

// ValidateRunner runs the validation battery for one opportunity.
type ValidateRunner interface {
	Validate(ctx context.Context, opportunityID string) (*domain.Report, error)
}

// StageManager reads and updates opportunity stages.
type StageManager interface {
	Current(ctx context.Context, opportunityID string) (*application.StageInfo, error)
	Update(ctx context.Context, opportunityID, newStage string) (*application.StageUpdate, error)
}

// DetailsProvider assembles the opportunity details payload.
type DetailsProvider interface {
	Details(ctx context.Context, opportunityID string) (*application.OpportunityDetails, error)
}

// AccountProvider exposes account address and currency lookups.
type AccountProvider interface {
	Address(ctx context.Context, opportunityID string) (*application.AccountInfo, error)
	Currency(ctx context.Context, opportunityID string) (*application.CurrencyInfo, error)
}

// ContactCreator creates a primary contact for an opportunity.
type ContactCreator interface {
	CreatePrimary(ctx context.Context, opportunityID string, contact application.NewContact, role string) (*application.ContactResult, error)
}

// Server routes the HTTP surface. Not-found during validation is expressed
// inside the report; only transport/auth-level failures map to 5xx.
type Server struct {
	validate ValidateRunner
	stage    StageManager
	details  DetailsProvider
	account  AccountProvider
	contact  ContactCreator
	logger   *slog.Logger
}

func NewServer(
	validate ValidateRunner,
	stage StageManager,
	details DetailsProvider,
	account AccountProvider,
	contact ContactCreator,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		validate: validate,
		stage:    stage,
		details:  details,
		account:  account,
		contact:  contact,
		logger:   logger,
	}
}

// Handler returns the route table wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /validate", s.handleValidate)
	mux.HandleFunc("POST /stage", s.handleStage)
	mux.HandleFunc("POST /details", s.handleDetails)
	mux.HandleFunc("POST /account/address", s.handleAddress)
	mux.HandleFunc("POST /account/currency", s.handleCurrency)
	mux.HandleFunc("POST /contact", s.handleContact)
	return s.logRequests(mux)
}

type request struct {
	OpportunityID string                 `json:"opportunity_id"`
	Stage         string                 `json:"stage,omitempty"`
	Contact       application.NewContact `json:"contact,omitempty"`
	Role          string                 `json:"role,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	report, err := s.validate.Validate(r.Context(), req.OpportunityID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{
		"opportunity_id": req.OpportunityID,
		"validation":     report,
	})
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}

	// No stage in the request means a read.
	if req.Stage == "" {
		info, err := s.stage.Current(r.Context(), req.OpportunityID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeSuccess(w, map[string]any{"action": "get", "stage": info})
		return
	}

	update, err := s.stage.Update(r.Context(), req.OpportunityID, req.Stage)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"action": "update", "stage": update})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	details, err := s.details.Details(r.Context(), req.OpportunityID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"details": details})
}

func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	info, err := s.account.Address(r.Context(), req.OpportunityID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"account": info})
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	info, err := s.account.Currency(r.Context(), req.OpportunityID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"currency": info})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	result, err := s.contact.CreatePrimary(r.Context(), req.OpportunityID, req.Contact, req.Role)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeSuccess(w, map[string]any{"contact": result})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (request, bool) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid JSON body",
		})
		return request{}, false
	}
	if req.OpportunityID == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   domain.ErrMissingOpportunityID.Error(),
		})
		return request{}, false
	}
	return req, true
}

func (s *Server) writeSuccess(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMissingOpportunityID):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
