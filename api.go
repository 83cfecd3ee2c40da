// Package lens is a Go client for the Lens Reasoning System.
//
// lens wraps the Lens REST API: queries are submitted to a remote reasoning
// backend, which runs the reasoning pipeline, scores confidence, and records
// a step-by-step trace under a contract. The client's responsibilities end
// at request construction, response parsing, and error translation — all
// reasoning, steering evaluation, and persistence happen server-side.
//
// # Facades
//
// Two cooperating facades cover the API surface:
//
//   - [QueryProcessor] - submit queries, fetch contracts and traces, list
//     contracts
//   - [SteeringManager] - stage steering directives against a contract and
//     re-run reasoning with them applied
//
// Both are constructed with the same options ([WithBaseURL], [WithTimeout],
// [WithHTTPClient]) and each owns its HTTP resources for its lifetime;
// release them with Close. They may be used concurrently against the same
// contract.
//
// # Processing Queries
//
//	processor := lens.NewQueryProcessor(lens.WithBaseURL("https://api.tupl.xyz"))
//	defer processor.Close()
//
//	result, err := processor.ProcessQuery(ctx, "What are the implications of AI in healthcare?")
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.FinalAnswer, result.ConfidenceOverall)
//
// # Steering
//
// Directives are staged against a (contract, step) pair and take effect only
// when applied. Staging, applying, and clearing are separate calls:
//
//	manager := lens.NewSteeringManager()
//	defer manager.Close()
//
//	_, err := manager.AddSteeringDirective(ctx, result.ContractID, "step_1", lens.SteeringDirective{
//		TargetStepTypes: []lens.ReasoningStepType{lens.StepEvidenceGathering},
//		Guidance:        "Focus specifically on peer-reviewed scientific studies",
//		Priority:        8,
//	})
//	if err != nil {
//		return err
//	}
//	updated, err := manager.ApplySteeringAndRerun(ctx, result.ContractID)
//
// # Errors
//
// Failures are typed so callers can tell them apart with [errors.As]:
//
//   - [ValidationError] - malformed input rejected before any network call
//   - [TransportError] - the server could not be reached; no response obtained
//   - [RequestError] - the server responded with a non-2xx status
//   - [ProcessingError] - wraps query facade failures
//   - [SteeringError] - wraps steering facade failures
//
// The client never retries, never recovers locally, and never hides partial
// success: a batch staging that fails midway reports exactly which entry
// failed, and earlier entries remain staged on the server.
//
// # Observability
//
// lens emits capitan signals for every request and facade-level event. See
// [signals.go] for the complete list including RequestStarted,
// RequestCompleted, RequestFailed, QueryProcessed, DirectivesStaged,
// DirectivesApplied, and DirectivesCleared.
package lens
