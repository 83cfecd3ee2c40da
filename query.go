package lens

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/zoobzio/capitan"
)

// ReasoningMode selects the server-side reasoning strategy.
type ReasoningMode string

const (
	ModeComprehensive ReasoningMode = "comprehensive"
	ModeFocused       ReasoningMode = "focused"
	ModePolicyGuided  ReasoningMode = "policy_guided"
)

// QueryProcessor submits queries to the Lens reasoning system and retrieves
// contracts and traces. It holds no local state: contracts live server-side
// and every method is a fresh request.
//
//	processor := lens.NewQueryProcessor()
//	defer processor.Close()
//
//	result, err := processor.ProcessQuery(ctx, "What are the implications of AI in healthcare?")
//	if err != nil {
//		return err
//	}
//	contract, err := processor.GetContract(ctx, result.ContractID)
//
// A QueryProcessor may be used concurrently with a [SteeringManager] against
// the same contract; any ordering between them is enforced by the server.
type QueryProcessor struct {
	rest *restClient
}

// NewQueryProcessor creates a query processor. With no options it targets
// [DefaultBaseURL] with [DefaultTimeout].
func NewQueryProcessor(opts ...Option) *QueryProcessor {
	return &QueryProcessor{rest: newRESTClient(newClientConfig(opts...))}
}

// queryRequest is the wire shape for query submission.
type queryRequest struct {
	Query         string        `json:"query"`
	InitialDocs   []string      `json:"initial_docs,omitempty"`
	ReasoningMode ReasoningMode `json:"reasoning_mode"`
	WorkflowID    string        `json:"workflow_id,omitempty"`
	WorkflowName  string        `json:"workflow_name,omitempty"`
}

// QueryOption configures a single [QueryProcessor.ProcessQuery] call.
type QueryOption func(*queryRequest)

// WithInitialDocs seeds the reasoning context with documents.
func WithInitialDocs(docs ...string) QueryOption {
	return func(r *queryRequest) {
		r.InitialDocs = docs
	}
}

// WithReasoningMode overrides the default [ModeComprehensive]. The value is
// not validated client-side; the server owns the mode set.
func WithReasoningMode(mode ReasoningMode) QueryOption {
	return func(r *queryRequest) {
		r.ReasoningMode = mode
	}
}

// WithWorkflow associates the query with a workflow for later filtering.
func WithWorkflow(id, name string) QueryOption {
	return func(r *queryRequest) {
		r.WorkflowID = id
		r.WorkflowName = name
	}
}

// ProcessQuery submits a query through the reasoning system and returns the
// resulting contract summary. Blank queries fail with [*ValidationError]
// before any network call. Server failures surface as [*ProcessingError]
// wrapping the transport-level cause.
func (p *QueryProcessor) ProcessQuery(ctx context.Context, query string, opts ...QueryOption) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Field: "query", Reason: "must not be empty"}
	}

	req := queryRequest{
		Query:         query,
		ReasoningMode: ModeComprehensive,
	}
	for _, opt := range opts {
		opt(&req)
	}

	var result QueryResult
	if err := p.rest.do(ctx, http.MethodPost, "/lens/reasoning/process", nil, req, &result); err != nil {
		return nil, &ProcessingError{Op: "process query", Err: err}
	}

	capitan.Emit(ctx, QueryProcessed,
		FieldContractID.Field(result.ContractID),
		FieldConfidence.Field(float32(result.ConfidenceOverall)),
		FieldTotalSteps.Field(result.TotalSteps),
	)

	return &result, nil
}

// GetContract fetches the full contract, including its reasoning trace,
// confidence, knowledge gaps, and applied-directive history. A missing
// contract surfaces as [*ProcessingError] wrapping a 404 [*RequestError];
// see [IsNotFound].
func (p *QueryProcessor) GetContract(ctx context.Context, contractID string) (*Contract, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	var contract Contract
	if err := p.rest.do(ctx, http.MethodGet, "/lens/contracts/"+url.PathEscape(contractID), nil, nil, &contract); err != nil {
		return nil, &ProcessingError{Op: "get contract", Err: err}
	}
	return &contract, nil
}

// GetReasoningTrace fetches the ordered step-by-step trace for a contract.
func (p *QueryProcessor) GetReasoningTrace(ctx context.Context, contractID string) (*ReasoningTrace, error) {
	if contractID == "" {
		return nil, &ValidationError{Field: "contract_id", Reason: "must not be empty"}
	}

	var trace ReasoningTrace
	if err := p.rest.do(ctx, http.MethodGet, "/lens/reasoning/trace/"+url.PathEscape(contractID), nil, nil, &trace); err != nil {
		return nil, &ProcessingError{Op: "get reasoning trace", Err: err}
	}
	return &trace, nil
}

// listParams holds query parameters for a contract listing.
type listParams struct {
	workflowID string
	limit      int
}

// ListOption configures a [QueryProcessor.ListContracts] call.
type ListOption func(*listParams)

// WithWorkflowFilter restricts the listing to one workflow.
func WithWorkflowFilter(workflowID string) ListOption {
	return func(p *listParams) {
		p.workflowID = workflowID
	}
}

// WithLimit caps the number of summaries returned. The default is 20.
func WithLimit(n int) ListOption {
	return func(p *listParams) {
		p.limit = n
	}
}

// ListContracts returns contract summaries, most recent first. Ordering and
// truncation are the server's; the result is exactly what it sent.
func (p *QueryProcessor) ListContracts(ctx context.Context, opts ...ListOption) ([]ContractSummary, error) {
	params := listParams{limit: 20}
	for _, opt := range opts {
		opt(&params)
	}

	query := url.Values{"limit": {strconv.Itoa(params.limit)}}
	if params.workflowID != "" {
		query.Set("workflow_id", params.workflowID)
	}

	var summaries []ContractSummary
	if err := p.rest.do(ctx, http.MethodGet, "/lens/contracts", query, nil, &summaries); err != nil {
		return nil, &ProcessingError{Op: "list contracts", Err: err}
	}
	return summaries, nil
}

// Close releases the underlying HTTP resources. Safe to call after failed
// operations; the processor must not be used afterwards.
func (p *QueryProcessor) Close() error {
	p.rest.close()
	return nil
}
