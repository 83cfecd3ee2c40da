package lens

import (
	"context"
	"net/http"
	"net/url"

	"github.com/zoobzio/capitan"
)

// SteeringManager stages steering directives against an existing contract
// and re-runs reasoning with them applied. The steering lifecycle lives
// entirely server-side; this facade only issues transitions:
//
//	NoDirectives → DirectivesStaged   (AddSteeringDirective, AddMultipleSteeringDirectives)
//	DirectivesStaged → Applied        (ApplySteeringAndRerun)
//	DirectivesStaged → NoDirectives   (ClearDirectives; applied history persists)
//
//	manager := lens.NewSteeringManager()
//	defer manager.Close()
//
//	_, err := manager.AddSteeringDirective(ctx, contractID, "step_1", lens.SteeringDirective{
//		TargetStepTypes: []lens.ReasoningStepType{lens.StepEvidenceGathering},
//		Guidance:        "Focus specifically on peer-reviewed scientific studies",
//		Priority:        8,
//	})
//	if err != nil {
//		return err
//	}
//	updated, err := manager.ApplySteeringAndRerun(ctx, contractID)
type SteeringManager struct {
	rest *restClient
}

// NewSteeringManager creates a steering manager. With no options it targets
// [DefaultBaseURL] with [DefaultTimeout].
func NewSteeringManager(opts ...Option) *SteeringManager {
	return &SteeringManager{rest: newRESTClient(newClientConfig(opts...))}
}

// Wire shapes for directive configuration.
type stepDirectivesPayload struct {
	StepID     string              `json:"step_id"`
	Directives []SteeringDirective `json:"directives"`
}

type configureRequest struct {
	ContractID     string                  `json:"contract_id"`
	StepDirectives []stepDirectivesPayload `json:"step_directives"`
}

type applyRequest struct {
	ContractID            string `json:"contract_id"`
	PreserveOriginalTrace bool   `json:"preserve_original_trace"`
}

// stage issues one configure-step-directives call for a single step.
// The directive must already be validated; it is normalized here.
func (m *SteeringManager) stage(ctx context.Context, contractID, stepID string, d SteeringDirective) (*ConfigureResult, error) {
	req := configureRequest{
		ContractID: contractID,
		StepDirectives: []stepDirectivesPayload{{
			StepID:     stepID,
			Directives: []SteeringDirective{d.normalized()},
		}},
	}

	var result ConfigureResult
	path := "/lens/reasoning/" + url.PathEscape(contractID) + "/configure-step-directives"
	if err := m.rest.do(ctx, http.MethodPost, path, nil, req, &result); err != nil {
		return nil, err
	}

	capitan.Emit(ctx, DirectivesStaged,
		FieldContractID.Field(contractID),
		FieldStepID.Field(stepID),
		FieldDirectiveCount.Field(1),
	)

	return &result, nil
}

// AddSteeringDirective stages one directive against a step of the contract.
// Validation (priority range, non-empty guidance and target set) happens
// locally and fails with [*ValidationError] before any network call. Staging
// does not re-run reasoning; call [SteeringManager.ApplySteeringAndRerun]
// when the directive set is complete.
func (m *SteeringManager) AddSteeringDirective(ctx context.Context, contractID, stepID string, directive SteeringDirective) (*ConfigureResult, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}
	if stepID == "" {
		return nil, &ValidationError{Field: "step_id", Reason: "must not be empty"}
	}
	if err := directive.Validate(); err != nil {
		return nil, err
	}

	result, err := m.stage(ctx, contractID, stepID, directive)
	if err != nil {
		return nil, &SteeringError{Op: "add steering directive", Entry: -1, Err: err}
	}
	return result, nil
}

// AddMultipleSteeringDirectives stages entries in order, one configure call
// per entry. When an entry fails validation or its request fails, the
// operation stops with a [*SteeringError] identifying that entry; entries
// staged before it remain staged — the underlying API has no transactional
// semantics and the client does not fake a rollback.
func (m *SteeringManager) AddMultipleSteeringDirectives(ctx context.Context, contractID string, entries []DirectiveEntry) (*ConfigureResult, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}
	if len(entries) == 0 {
		return nil, &ValidationError{Field: "directives", Reason: "must contain at least one entry"}
	}

	var result *ConfigureResult
	for i, entry := range entries {
		if err := entry.validate(); err != nil {
			return nil, &SteeringError{Op: "add multiple steering directives", Entry: i, StepID: entry.StepID, Err: err}
		}

		staged, err := m.stage(ctx, contractID, entry.StepID, entry.Directive)
		if err != nil {
			return nil, &SteeringError{Op: "add multiple steering directives", Entry: i, StepID: entry.StepID, Err: err}
		}
		result = staged
	}
	return result, nil
}

// applyParams holds per-call apply settings.
type applyParams struct {
	preserveOriginalTrace bool
}

// ApplyOption configures a [SteeringManager.ApplySteeringAndRerun] call.
type ApplyOption func(*applyParams)

// WithoutOriginalTrace lets the server discard the pre-steering trace
// instead of preserving it alongside the re-run.
func WithoutOriginalTrace() ApplyOption {
	return func(p *applyParams) {
		p.preserveOriginalTrace = false
	}
}

// ApplySteeringAndRerun applies all staged directives and re-runs the
// reasoning. This is the only operation that triggers server-side
// re-execution, and it is not idempotent: repeated calls re-run reasoning
// again and may yield different impact summaries. The server rejects the
// call when no directives are staged or the contract does not exist; both
// surface as [*SteeringError]. The result's DirectiveImpactSummary may be
// nil when the server omits it.
func (m *SteeringManager) ApplySteeringAndRerun(ctx context.Context, contractID string, opts ...ApplyOption) (*ApplyResult, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	params := applyParams{preserveOriginalTrace: true}
	for _, opt := range opts {
		opt(&params)
	}

	req := applyRequest{
		ContractID:            contractID,
		PreserveOriginalTrace: params.preserveOriginalTrace,
	}

	var result ApplyResult
	path := "/lens/reasoning/" + url.PathEscape(contractID) + "/apply-directives"
	if err := m.rest.do(ctx, http.MethodPost, path, nil, req, &result); err != nil {
		return nil, &SteeringError{Op: "apply steering and rerun", Entry: -1, Err: err}
	}

	capitan.Emit(ctx, DirectivesApplied,
		FieldContractID.Field(contractID),
		FieldConfidence.Field(float32(result.ConfidenceOverall)),
		FieldTotalSteps.Field(result.TotalSteps),
	)

	return &result, nil
}

// GetDirectiveStatus reports the staged-directive state of a contract:
// per-step listings plus whether any directives are pending. Read-only and
// idempotent.
func (m *SteeringManager) GetDirectiveStatus(ctx context.Context, contractID string) (*DirectiveStatus, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	var status DirectiveStatus
	path := "/lens/reasoning/" + url.PathEscape(contractID) + "/directive-status"
	if err := m.rest.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return nil, &SteeringError{Op: "get directive status", Entry: -1, Err: err}
	}
	return &status, nil
}

// ClearDirectives removes all pending directives from a contract. Applied
// history is untouched: directive change records persist on the contract.
func (m *SteeringManager) ClearDirectives(ctx context.Context, contractID string) (*ClearResult, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	var result ClearResult
	path := "/lens/reasoning/" + url.PathEscape(contractID) + "/clear-directives"
	if err := m.rest.do(ctx, http.MethodDelete, path, nil, nil, &result); err != nil {
		return nil, &SteeringError{Op: "clear directives", Entry: -1, Err: err}
	}

	capitan.Emit(ctx, DirectivesCleared,
		FieldContractID.Field(contractID),
	)

	return &result, nil
}

// GetReasoningTraceWithSteering fetches the trace annotated with which
// directives influenced which step (see [ReasoningStep.AppliedDirectives]).
func (m *SteeringManager) GetReasoningTraceWithSteering(ctx context.Context, contractID string) (*ReasoningTrace, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	var trace ReasoningTrace
	if err := m.rest.do(ctx, http.MethodGet, "/lens/reasoning/trace/"+url.PathEscape(contractID), nil, nil, &trace); err != nil {
		return nil, &SteeringError{Op: "get reasoning trace", Entry: -1, Err: err}
	}
	return &trace, nil
}

// AddDirectiveTemplate registers a reusable directive template with the
// server. Templates are not bound to a contract; the server assigns the
// template name.
func (m *SteeringManager) AddDirectiveTemplate(ctx context.Context, directive SteeringDirective) (*TemplateResult, error) {
	if err := directive.Validate(); err != nil {
		return nil, err
	}

	var result TemplateResult
	if err := m.rest.do(ctx, http.MethodPost, "/lens/reasoning/add-steering-directive", nil, directive.normalized(), &result); err != nil {
		return nil, &SteeringError{Op: "add directive template", Entry: -1, Err: err}
	}
	return &result, nil
}

// Close releases the underlying HTTP resources. Safe to call after failed
// operations; the manager must not be used afterwards.
func (m *SteeringManager) Close() error {
	m.rest.close()
	return nil
}
