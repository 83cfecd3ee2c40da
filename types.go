package lens

// Contract is the server-side record of one reasoning session. It is created
// when a query is processed and mutated server-side when steering directives
// are applied and reasoning re-run; this client only reads it.
type Contract struct {
	ContractID        string  `json:"contract_id"`
	OriginalQuery     string  `json:"original_query"`
	FinalAnswer       string  `json:"final_answer"`
	ConfidenceOverall float64 `json:"confidence_overall"`
	TotalSteps        int     `json:"total_steps"`
	ExecutionTimeMS   int64   `json:"execution_time_ms"`

	// KnowledgeGaps lists open questions the reasoning run could not close,
	// in the order the server identified them.
	KnowledgeGaps []string `json:"knowledge_gaps"`

	// DirectiveChangeRecords is the applied-steering history. It persists
	// across clear-directives calls, which only remove pending directives.
	DirectiveChangeRecords []DirectiveChangeRecord `json:"directive_change_records,omitempty"`

	// ReasoningTrace is present on full contract fetches.
	ReasoningTrace []ReasoningStep `json:"reasoning_trace,omitempty"`

	WorkflowID   string `json:"workflow_id,omitempty"`
	WorkflowName string `json:"workflow_name,omitempty"`

	// CreatedAt is the server's creation timestamp, passed through verbatim.
	CreatedAt string `json:"created_at,omitempty"`
}

// ContractSummary is the abbreviated contract shape returned by listings.
type ContractSummary struct {
	ContractID        string  `json:"contract_id"`
	OriginalQuery     string  `json:"original_query"`
	FinalAnswer       string  `json:"final_answer,omitempty"`
	ConfidenceOverall float64 `json:"confidence_overall"`
	TotalSteps        int     `json:"total_steps"`
	WorkflowID        string  `json:"workflow_id,omitempty"`
	WorkflowName      string  `json:"workflow_name,omitempty"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// ReasoningStep is one unit in a reasoning trace. IDs are unique within a
// contract and stable across re-runs unless the server invalidates the step.
type ReasoningStep struct {
	ID         string            `json:"id"`
	StepType   ReasoningStepType `json:"step_type"`
	Decision   string            `json:"decision"`
	Confidence float64           `json:"confidence"`
	Evidence   []Evidence        `json:"evidence,omitempty"`

	// AppliedDirectives is populated on steering-annotated traces and lists
	// the directives that influenced this step on the last re-run.
	AppliedDirectives []SteeringDirective `json:"applied_directives,omitempty"`
}

// Evidence is one source consulted by a reasoning step.
type Evidence struct {
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
	Content   string  `json:"content,omitempty"`
}

// ReasoningTrace is the ordered step sequence recorded during a contract's
// execution, as returned by the trace endpoints.
type ReasoningTrace struct {
	ContractID       string          `json:"contract_id"`
	Steps            []ReasoningStep `json:"steps"`
	ContextSummaries []string        `json:"context_summaries,omitempty"`
}

// QueryResult is the outcome of submitting a query.
type QueryResult struct {
	Success           bool     `json:"success"`
	ContractID        string   `json:"contract_id"`
	FinalAnswer       string   `json:"final_answer"`
	ConfidenceOverall float64  `json:"confidence_overall"`
	ExecutionTimeMS   int64    `json:"execution_time_ms"`
	TotalSteps        int      `json:"total_steps"`
	KnowledgeGaps     []string `json:"knowledge_gaps"`
}

// ConfigureResult acknowledges staged directives. Staging does not re-run
// reasoning; ReadyToApply reports whether an apply call would have work.
type ConfigureResult struct {
	Success         bool `json:"success"`
	StepsConfigured int  `json:"steps_configured"`
	ReadyToApply    bool `json:"ready_to_apply"`
}

// ApplyResult is the outcome of applying staged directives and re-running
// reasoning. DirectiveImpactSummary is nil when the server omits it; that is
// a valid response, not an error.
type ApplyResult struct {
	Success                bool                    `json:"success"`
	ContractID             string                  `json:"contract_id"`
	TotalSteps             int                     `json:"total_steps"`
	ConfidenceOverall      float64                 `json:"confidence_overall"`
	ExecutionTimeMS        int64                   `json:"execution_time_ms"`
	StepsWithDirectives    int                     `json:"steps_with_directives"`
	FinalAnswer            string                  `json:"final_answer"`
	DirectiveImpactSummary *DirectiveImpactSummary `json:"directive_impact_summary,omitempty"`
	DirectiveChangeRecords []DirectiveChangeRecord `json:"directive_change_records,omitempty"`
}

// DirectiveImpactSummary is the server's report of what an apply changed
// overall. Read-only; the client never constructs one.
type DirectiveImpactSummary struct {
	StepsModified   int     `json:"steps_modified"`
	ConfidenceDelta float64 `json:"confidence_delta"`
	ImpactScore     float64 `json:"impact_score"`
}

// DirectiveChangeRecord describes how one step changed after directives were
// applied. Read-only; produced only by the server.
type DirectiveChangeRecord struct {
	StepID          string  `json:"step_id"`
	BeforeDecision  string  `json:"before_decision"`
	AfterDecision   string  `json:"after_decision"`
	ConfidenceDelta float64 `json:"confidence_delta"`
	ImpactScore     float64 `json:"impact_score"`
	Guidance        string  `json:"guidance,omitempty"`
}

// DirectiveStatus reports the staged-directive state of a contract.
type DirectiveStatus struct {
	ContractID           string                `json:"contract_id"`
	TotalSteps           int                   `json:"total_steps"`
	StepsWithDirectives  int                   `json:"steps_with_directives"`
	StepStatuses         []StepDirectiveStatus `json:"step_statuses"`
	HasPendingDirectives bool                  `json:"has_pending_directives"`
}

// StepDirectiveStatus is the per-step entry in a [DirectiveStatus].
type StepDirectiveStatus struct {
	StepID         string              `json:"step_id"`
	StepType       ReasoningStepType   `json:"step_type,omitempty"`
	DirectiveCount int                 `json:"directive_count"`
	Directives     []SteeringDirective `json:"directives,omitempty"`
}

// ClearResult acknowledges removal of pending directives.
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TemplateResult acknowledges registration of a directive template.
type TemplateResult struct {
	Success      bool   `json:"success"`
	TemplateName string `json:"template_name"`
}
