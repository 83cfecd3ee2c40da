package lens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func newTestSteeringManager(t *testing.T, status int, response string) (*SteeringManager, *spyHandler) {
	t.Helper()
	server, spy := newSpyServer(t, status, response)
	manager := NewSteeringManager(WithBaseURL(server.URL))
	t.Cleanup(func() { _ = manager.Close() })
	return manager, spy
}

func TestAddSteeringDirective(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"success": true, "steps_configured": 1, "ready_to_apply": true}`)

	directive := SteeringDirective{
		TargetStepTypes: []ReasoningStepType{StepEvidenceGathering},
		Guidance:        "Focus on peer-reviewed studies",
		Priority:        8,
	}

	result, err := manager.AddSteeringDirective(context.Background(), "c-1", "s-1", directive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.StepsConfigured != 1 || !result.ReadyToApply {
		t.Errorf("unexpected result: %+v", result)
	}

	if spy.count() != 1 {
		t.Fatalf("expected exactly 1 configure request, got %d", spy.count())
	}
	if spy.paths[0] != "/lens/reasoning/c-1/configure-step-directives" {
		t.Errorf("unexpected path %q", spy.paths[0])
	}

	var body struct {
		ContractID     string `json:"contract_id"`
		StepDirectives []struct {
			StepID     string `json:"step_id"`
			Directives []struct {
				TargetStepTypes []string       `json:"target_step_types"`
				Priority        int            `json:"priority"`
				Guidance        string         `json:"guidance"`
				Constraints     map[string]any `json:"constraints"`
				EnforceOrder    bool           `json:"enforce_order"`
			} `json:"directives"`
		} `json:"step_directives"`
	}
	if err := json.Unmarshal(spy.body(0), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.ContractID != "c-1" {
		t.Errorf("expected contract_id c-1 in body, got %q", body.ContractID)
	}
	if len(body.StepDirectives) != 1 || body.StepDirectives[0].StepID != "s-1" {
		t.Fatalf("unexpected step_directives: %+v", body.StepDirectives)
	}
	d := body.StepDirectives[0].Directives[0]
	if d.Priority != 8 {
		t.Errorf("expected priority 8 on the wire, got %d", d.Priority)
	}
	if len(d.TargetStepTypes) != 1 || d.TargetStepTypes[0] != "evidence_gathering" {
		t.Errorf("unexpected target step types: %v", d.TargetStepTypes)
	}
	if d.Constraints == nil {
		t.Error("constraints must be an empty object, not null")
	}
}

func TestAddSteeringDirectiveDefaultPriority(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK, `{"success": true}`)

	directive := SteeringDirective{
		TargetStepTypes: []ReasoningStepType{StepWebSearch},
		Guidance:        "prefer primary sources",
	}
	if _, err := manager.AddSteeringDirective(context.Background(), "c-1", "s-2", directive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(spy.body(0)), `"priority":5`) {
		t.Errorf("expected default priority 5 on the wire, got %s", spy.body(0))
	}
}

func TestAddSteeringDirectiveValidation(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK, `{"success": true}`)

	tests := []struct {
		name      string
		mutate    func(*SteeringDirective)
		wantField string
	}{
		{"priority too high", func(d *SteeringDirective) { d.Priority = 11 }, "priority"},
		{"priority negative", func(d *SteeringDirective) { d.Priority = -1 }, "priority"},
		{"empty guidance", func(d *SteeringDirective) { d.Guidance = "" }, "guidance"},
		{"empty targets", func(d *SteeringDirective) { d.TargetStepTypes = nil }, "target_step_types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directive := validDirective()
			tt.mutate(&directive)

			_, err := manager.AddSteeringDirective(context.Background(), "c-1", "s-1", directive)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}

	if spy.count() != 0 {
		t.Errorf("validation failures must perform zero network calls, got %d", spy.count())
	}
}

func TestAddMultipleSteeringDirectives(t *testing.T) {
	t.Run("stages entries in order", func(t *testing.T) {
		manager, spy := newTestSteeringManager(t, http.StatusOK,
			`{"success": true, "steps_configured": 1, "ready_to_apply": true}`)

		entries := []DirectiveEntry{
			{StepID: "s-1", Directive: validDirective()},
			{StepID: "s-2", Directive: validDirective()},
		}
		result, err := manager.AddMultipleSteeringDirectives(context.Background(), "c-1", entries)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Errorf("unexpected result: %+v", result)
		}
		if spy.count() != 2 {
			t.Fatalf("expected one request per entry, got %d", spy.count())
		}
		if !strings.Contains(string(spy.body(0)), `"step_id":"s-1"`) ||
			!strings.Contains(string(spy.body(1)), `"step_id":"s-2"`) {
			t.Error("entries must be staged in order")
		}
	})

	t.Run("mid-batch validation failure leaves earlier entries staged", func(t *testing.T) {
		manager, spy := newTestSteeringManager(t, http.StatusOK, `{"success": true}`)

		bad := validDirective()
		bad.Priority = 42
		entries := []DirectiveEntry{
			{StepID: "s-1", Directive: validDirective()},
			{StepID: "s-2", Directive: bad},
			{StepID: "s-3", Directive: validDirective()},
		}

		_, err := manager.AddMultipleSteeringDirectives(context.Background(), "c-1", entries)
		var serr *SteeringError
		if !errors.As(err, &serr) {
			t.Fatalf("expected SteeringError, got %T: %v", err, err)
		}
		if serr.Entry != 1 || serr.StepID != "s-2" {
			t.Errorf("error must identify entry 1 (s-2), got entry %d step %q", serr.Entry, serr.StepID)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Error("expected wrapped ValidationError")
		}

		// Entry 0 was already sent; entries 1 and 2 were not.
		if spy.count() != 1 {
			t.Errorf("expected exactly 1 staged request before the failure, got %d", spy.count())
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		manager, spy := newTestSteeringManager(t, http.StatusOK, `{}`)
		_, err := manager.AddMultipleSteeringDirectives(context.Background(), "c-1", nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if spy.count() != 0 {
			t.Errorf("expected no requests, got %d", spy.count())
		}
	})
}

func TestApplySteeringAndRerun(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"success": true, "contract_id": "c-1", "total_steps": 14, "confidence_overall": 0.93, "steps_with_directives": 2, "final_answer": "revised answer", "directive_impact_summary": {"steps_modified": 2, "confidence_delta": 0.03, "impact_score": 0.6}, "directive_change_records": [{"step_id": "s-1", "before_decision": "old", "after_decision": "new", "confidence_delta": 0.05, "impact_score": 0.7}]}`)

	result, err := manager.ApplySteeringAndRerun(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ConfidenceOverall != 0.93 || result.TotalSteps != 14 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.DirectiveImpactSummary == nil || result.DirectiveImpactSummary.StepsModified != 2 {
		t.Errorf("unexpected impact summary: %+v", result.DirectiveImpactSummary)
	}
	if len(result.DirectiveChangeRecords) != 1 || result.DirectiveChangeRecords[0].AfterDecision != "new" {
		t.Errorf("unexpected change records: %+v", result.DirectiveChangeRecords)
	}

	if spy.paths[0] != "/lens/reasoning/c-1/apply-directives" {
		t.Errorf("unexpected path %q", spy.paths[0])
	}
	var body map[string]any
	if err := json.Unmarshal(spy.body(0), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["preserve_original_trace"] != true {
		t.Errorf("expected preserve_original_trace true by default, got %v", body["preserve_original_trace"])
	}
}

func TestApplySteeringWithoutOriginalTrace(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK, `{"success": true}`)

	if _, err := manager.ApplySteeringAndRerun(context.Background(), "c-1", WithoutOriginalTrace()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(spy.body(0), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["preserve_original_trace"] != false {
		t.Errorf("expected preserve_original_trace false, got %v", body["preserve_original_trace"])
	}
}

// The impact summary is genuinely optional: a response without it is valid.
func TestApplySteeringOmittedImpactSummary(t *testing.T) {
	manager, _ := newTestSteeringManager(t, http.StatusOK,
		`{"success": true, "contract_id": "c-1", "total_steps": 10, "confidence_overall": 0.8, "final_answer": "answer"}`)

	result, err := manager.ApplySteeringAndRerun(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("an omitted impact summary must not be an error: %v", err)
	}
	if result.DirectiveImpactSummary != nil {
		t.Errorf("expected nil impact summary, got %+v", result.DirectiveImpactSummary)
	}
}

func TestApplySteeringNoDirectivesStaged(t *testing.T) {
	manager, _ := newTestSteeringManager(t, http.StatusInternalServerError,
		`{"detail": "no directives staged"}`)

	_, err := manager.ApplySteeringAndRerun(context.Background(), "c-1")
	var serr *SteeringError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SteeringError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "no directives staged") {
		t.Errorf("error must carry the server detail, got %q", err.Error())
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected wrapped 500 RequestError, got %v", err)
	}
}

func TestGetDirectiveStatus(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"contract_id": "c-1", "total_steps": 12, "steps_with_directives": 1, "step_statuses": [{"step_id": "s-1", "step_type": "evidence_gathering", "directive_count": 2}], "has_pending_directives": true}`)

	status, err := manager.GetDirectiveStatus(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.HasPendingDirectives || status.StepsWithDirectives != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
	if len(status.StepStatuses) != 1 || status.StepStatuses[0].DirectiveCount != 2 {
		t.Errorf("unexpected step statuses: %+v", status.StepStatuses)
	}

	// Idempotent: a second read with no intervening mutation matches.
	again, err := manager.GetDirectiveStatus(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.HasPendingDirectives != status.HasPendingDirectives ||
		again.StepsWithDirectives != status.StepsWithDirectives ||
		again.TotalSteps != status.TotalSteps {
		t.Errorf("status changed between identical reads: %+v vs %+v", status, again)
	}
	if spy.count() != 2 {
		t.Errorf("expected 2 requests, got %d", spy.count())
	}
}

func TestClearDirectives(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"success": true, "message": "cleared 3 pending directives"}`)

	result, err := manager.ClearDirectives(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.Message == "" {
		t.Errorf("unexpected result: %+v", result)
	}
	if spy.methods[0] != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", spy.methods[0])
	}
	if spy.paths[0] != "/lens/reasoning/c-1/clear-directives" {
		t.Errorf("unexpected path %q", spy.paths[0])
	}
}

func TestGetReasoningTraceWithSteering(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"contract_id": "c-1", "steps": [{"id": "s-1", "step_type": "evidence_gathering", "decision": "revised", "confidence": 0.9, "applied_directives": [{"target_step_types": ["evidence_gathering"], "priority": 8, "guidance": "Focus on peer-reviewed studies", "enforce_order": false}]}]}`)

	trace, err := manager.GetReasoningTraceWithSteering(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trace.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(trace.Steps))
	}
	applied := trace.Steps[0].AppliedDirectives
	if len(applied) != 1 || applied[0].Priority != 8 {
		t.Errorf("expected the applied directive annotation, got %+v", applied)
	}
	if spy.paths[0] != "/lens/reasoning/trace/c-1" {
		t.Errorf("unexpected path %q", spy.paths[0])
	}
}

func TestAddDirectiveTemplate(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK,
		`{"success": true, "template_name": "peer-reviewed-focus"}`)

	result, err := manager.AddDirectiveTemplate(context.Background(), validDirective())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TemplateName != "peer-reviewed-focus" {
		t.Errorf("unexpected result: %+v", result)
	}
	if spy.paths[0] != "/lens/reasoning/add-steering-directive" {
		t.Errorf("unexpected path %q", spy.paths[0])
	}

	_, err = manager.AddDirectiveTemplate(context.Background(), SteeringDirective{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty template, got %v", err)
	}
	if spy.count() != 1 {
		t.Errorf("invalid template must not reach the network, got %d requests", spy.count())
	}
}

func TestSteeringManagerEmptyContractID(t *testing.T) {
	manager, spy := newTestSteeringManager(t, http.StatusOK, `{}`)
	ctx := context.Background()

	if _, err := manager.AddSteeringDirective(ctx, "", "s-1", validDirective()); err == nil {
		t.Error("expected error for empty contract id")
	}
	if _, err := manager.ApplySteeringAndRerun(ctx, ""); err == nil {
		t.Error("expected error for empty contract id")
	}
	if _, err := manager.GetDirectiveStatus(ctx, ""); err == nil {
		t.Error("expected error for empty contract id")
	}
	if _, err := manager.ClearDirectives(ctx, ""); err == nil {
		t.Error("expected error for empty contract id")
	}
	if spy.count() != 0 {
		t.Errorf("expected no requests, got %d", spy.count())
	}
}
