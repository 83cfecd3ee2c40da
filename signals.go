package lens

import "github.com/zoobzio/capitan"

// Signal definitions for lens client events.
// Signals follow the pattern: lens.<entity>.<event>.
var (
	// Transport lifecycle signals.
	RequestStarted = capitan.NewSignal(
		"lens.request.started",
		"HTTP request to the reasoning backend began",
	)
	RequestCompleted = capitan.NewSignal(
		"lens.request.completed",
		"HTTP request returned a 2xx response",
	)
	RequestFailed = capitan.NewSignal(
		"lens.request.failed",
		"HTTP request failed in transit or was rejected by the server",
	)

	// Query facade signals.
	QueryProcessed = capitan.NewSignal(
		"lens.query.processed",
		"Query submitted and reasoning contract created",
	)

	// Steering facade signals.
	DirectivesStaged = capitan.NewSignal(
		"lens.directives.staged",
		"Steering directives configured against a contract step",
	)
	DirectivesApplied = capitan.NewSignal(
		"lens.directives.applied",
		"Staged directives applied and reasoning re-run",
	)
	DirectivesCleared = capitan.NewSignal(
		"lens.directives.cleared",
		"Pending steering directives removed from a contract",
	)
)

// Field keys for lens event data.
var (
	// Request metadata.
	FieldRequestID  = capitan.NewStringKey("request_id")
	FieldMethod     = capitan.NewStringKey("method")
	FieldPath       = capitan.NewStringKey("path")
	FieldStatusCode = capitan.NewIntKey("status_code")
	FieldDuration   = capitan.NewDurationKey("duration")

	// Domain metadata.
	FieldContractID     = capitan.NewStringKey("contract_id")
	FieldStepID         = capitan.NewStringKey("step_id")
	FieldDirectiveCount = capitan.NewIntKey("directive_count")
	FieldTotalSteps     = capitan.NewIntKey("total_steps")
	FieldConfidence     = capitan.NewFloat32Key("confidence")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
