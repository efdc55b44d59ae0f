package gist

import (
	"context"
	"fmt"

	"github.com/tildaslashalef/gistman/internal/config"
	"github.com/tildaslashalef/gistman/internal/loggy"
	"github.com/tildaslashalef/gistman/internal/reconcile"
)

// Service provides gist management functionality on top of the API client.
type Service struct {
	client *Client
	cfg    *config.Config
	logger *loggy.Logger
}

// NewService creates a new gist service
func NewService(cfg *config.Config, logger *loggy.Logger) *Service {
	return &Service{
		client: NewClient(cfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Client returns the underlying API client.
func (s *Service) Client() *Client {
	return s.client
}

// limits builds the engine validation limits from configuration.
func (s *Service) limits() reconcile.Limits {
	limits := reconcile.DefaultLimits()
	if s.cfg.Gist.MaxFileSize > 0 {
		limits.MaxFileSize = s.cfg.Gist.MaxFileSize
	}
	if s.cfg.Gist.ReservedPrefix != "" {
		limits.ReservedPrefix = s.cfg.Gist.ReservedPrefix
	}
	return limits
}

// Create creates a new gist from a filename-to-content mapping. Every file
// is validated with the same rules the update path applies; any invalid
// file fails the whole create since a partial new gist is rarely intended.
func (s *Service) Create(ctx context.Context, files map[string]string, description string, public bool) (*Gist, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("at least one file is required to create a gist")
	}

	limits := s.limits()
	for name, content := range files {
		if diag := reconcile.Validate(name, content, limits); diag != nil {
			return nil, fmt.Errorf("file %s: %s", name, diag.Message)
		}
	}

	created, err := s.client.Create(ctx, files, description, public)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created gist", "id", created.GetID(), "files", len(files), "public", public)
	return fromAPI(created), nil
}

// Get fetches a gist summary.
func (s *Service) Get(ctx context.Context, id string) (*Gist, error) {
	g, err := s.client.Get(ctx, ParseID(id))
	if err != nil {
		return nil, err
	}
	return fromAPI(g), nil
}

// List returns up to limit gists of the authenticated user.
func (s *Service) List(ctx context.Context, limit int) ([]*Gist, error) {
	if limit <= 0 {
		limit = s.cfg.Gist.ListLimit
	}

	gists, err := s.client.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*Gist, 0, len(gists))
	for _, g := range gists {
		out = append(out, fromAPI(g))
	}
	return out, nil
}

// UpdateRequest carries everything an update command collected locally.
type UpdateRequest struct {
	// Files maps filename to desired content (positional files, --add,
	// or a directory scan).
	Files map[string]string

	// Removals lists filenames to delete from the gist.
	Removals []string

	// Sync removes remote files absent from Files.
	Sync bool

	// Description replaces the gist description when non-nil.
	Description *string
}

// PlanUpdate fetches the current gist state and builds the reconciliation
// plan without applying it. Used by both the dry-run path and Update.
func (s *Service) PlanUpdate(ctx context.Context, id string, req UpdateRequest) (*reconcile.Plan, *reconcile.RemoteGistState, error) {
	current, err := s.client.Get(ctx, ParseID(id))
	if err != nil {
		return nil, nil, err
	}
	state := toRemoteState(current)

	desired := make(map[string]reconcile.DesiredFile, len(req.Files))
	for name, content := range req.Files {
		desired[name] = reconcile.DesiredFile{Filename: name, Content: content}
	}

	plan, err := reconcile.BuildPlan(reconcile.Request{
		Current:          state,
		Desired:          desired,
		ExplicitRemovals: req.Removals,
		Sync:             req.Sync,
		NewDescription:   req.Description,
	}, s.limits())
	if err != nil {
		return nil, nil, err
	}

	return plan, state, nil
}

// UpdateResult is the outcome of an update: the plan that was computed and,
// when it had changes, the gist as returned by the patch call.
type UpdateResult struct {
	Gist *Gist
	Plan *reconcile.Plan
}

// Update reconciles a gist against the request and applies the resulting
// plan. When the plan has no changes the network patch is skipped entirely
// and the result carries a nil Gist.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*UpdateResult, error) {
	plan, state, err := s.PlanUpdate(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if !plan.HasChanges() {
		s.logger.Info("No changes detected, skipping update", "id", state.ID)
		return &UpdateResult{Plan: plan}, nil
	}

	g, err := s.Apply(ctx, state.ID, plan)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{Gist: g, Plan: plan}, nil
}

// Apply sends an already-built plan to the API. Callers that need to show
// the plan or confirm before patching use PlanUpdate followed by Apply.
func (s *Service) Apply(ctx context.Context, id string, plan *reconcile.Plan) (*Gist, error) {
	updated, err := s.client.Update(ctx, id, reconcile.ToWirePayload(plan))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated gist",
		"id", id,
		"operations", len(plan.Operations),
		"description_changed", plan.DescriptionChanged,
	)

	return fromAPI(updated), nil
}

// Delete permanently removes a single gist.
func (s *Service) Delete(ctx context.Context, id string) error {
	normalized := ParseID(id)
	if err := s.client.Delete(ctx, normalized); err != nil {
		return err
	}
	s.logger.Info("Deleted gist", "id", normalized)
	return nil
}

// BatchFailure records one failed deletion within a batch.
type BatchFailure struct {
	ID    string `json:"gist_id"`
	Error string `json:"error"`
}

// BatchResult summarizes a batch deletion. Success means every id was
// deleted; partial failures are listed individually.
type BatchResult struct {
	Deleted []string       `json:"deleted"`
	Failed  []BatchFailure `json:"failed,omitempty"`
}

// Success reports whether every deletion in the batch succeeded.
func (r *BatchResult) Success() bool {
	return len(r.Failed) == 0
}

// DeleteBatch deletes several gists, continuing past individual failures
// and aggregating them in the result.
func (s *Service) DeleteBatch(ctx context.Context, ids []string) *BatchResult {
	result := &BatchResult{}

	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to delete gist", "id", id, "error", err)
			result.Failed = append(result.Failed, BatchFailure{ID: ParseID(id), Error: err.Error()})
			continue
		}
		result.Deleted = append(result.Deleted, ParseID(id))
	}

	return result
}
