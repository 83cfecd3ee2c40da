package lens

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultPriority is used when a directive's Priority is left at its zero
// value. Higher priorities carry more influence when the server resolves
// multiple directives on the same step.
const DefaultPriority = 5

// directiveValidate is the validator instance for steering directives.
var directiveValidate = validator.New()

// SteeringDirective is a guidance instruction targeting one or more reasoning
// step types. Directives are staged against a (contract, step) pair and take
// effect only on the next apply-and-rerun call. The server applies a step's
// directives in priority order, breaking ties by insertion order.
//
// Priority must lie in [1,10]; the zero value means [DefaultPriority].
// Constraints is opaque passthrough: the server interprets the keys, the
// client does not.
type SteeringDirective struct {
	TargetStepTypes []ReasoningStepType `json:"target_step_types" validate:"required,min=1"`
	Priority        int                 `json:"priority" validate:"min=1,max=10"`
	Guidance        string              `json:"guidance" validate:"required"`
	Constraints     map[string]any      `json:"constraints"`
	EnforceOrder    bool                `json:"enforce_order"`
}

// normalized returns a copy with the priority default filled in and a
// non-nil constraints map, matching the wire contract's "constraints or {}".
func (d SteeringDirective) normalized() SteeringDirective {
	if d.Priority == 0 {
		d.Priority = DefaultPriority
	}
	if d.Constraints == nil {
		d.Constraints = map[string]any{}
	}
	return d
}

// Validate checks the directive against the client-side rules: a non-empty
// target set, non-empty guidance, and a priority in [1,10] after
// zero-defaulting. Returns a [*ValidationError] describing the first
// violation, or nil. Facade methods run this before any network call.
func (d SteeringDirective) Validate() error {
	n := d.normalized()
	err := directiveValidate.Struct(n)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].StructField() {
		case "Priority":
			return &ValidationError{
				Field:  "priority",
				Reason: fmt.Sprintf("must be between 1 and 10, got %d", n.Priority),
			}
		case "Guidance":
			return &ValidationError{Field: "guidance", Reason: "must not be empty"}
		case "TargetStepTypes":
			return &ValidationError{Field: "target_step_types", Reason: "must contain at least one step type"}
		}
	}
	return &ValidationError{Field: "directive", Reason: err.Error()}
}

// DirectiveEntry pairs a directive with the step it targets, for batch
// staging via [SteeringManager.AddMultipleSteeringDirectives].
type DirectiveEntry struct {
	StepID    string
	Directive SteeringDirective
}

func (e DirectiveEntry) validate() error {
	if e.StepID == "" {
		return &ValidationError{Field: "step_id", Reason: "must not be empty"}
	}
	return e.Directive.Validate()
}
