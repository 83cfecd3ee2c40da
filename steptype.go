package lens

// ReasoningStepType identifies the kind of work a reasoning step performs.
//
// The set of known values is fixed at compile time, but the server may
// introduce new types ahead of the client. Values received from the server
// are preserved verbatim on deserialization; use [ReasoningStepType.Known]
// to detect values this client predates. No client-side rejection of
// unknown types is performed when constructing requests.
type ReasoningStepType string

// Core analysis steps.
const (
	StepProblemDecomposition ReasoningStepType = "problem_decomposition"
	StepFactExtraction       ReasoningStepType = "fact_extraction"
	StepEvidenceGathering    ReasoningStepType = "evidence_gathering"
	StepPatternRecognition   ReasoningStepType = "pattern_recognition"
	StepHypothesisFormation  ReasoningStepType = "hypothesis_formation"
)

// Logical operations.
const (
	StepDeductiveReasoning ReasoningStepType = "deductive_reasoning"
	StepInductiveReasoning ReasoningStepType = "inductive_reasoning"
	StepAbductiveReasoning ReasoningStepType = "abductive_reasoning"
	StepCausalAnalysis     ReasoningStepType = "causal_analysis"
	StepContradictionCheck ReasoningStepType = "contradiction_check"
)

// Evaluation steps.
const (
	StepEvidenceValidation   ReasoningStepType = "evidence_validation"
	StepConfidenceAssessment ReasoningStepType = "confidence_assessment"
	StepRiskAssessment       ReasoningStepType = "risk_assessment"
	StepComparativeAnalysis  ReasoningStepType = "comparative_analysis"
	StepQualityCheck         ReasoningStepType = "quality_check"
)

// Synthesis steps.
const (
	StepInformationSynthesis     ReasoningStepType = "information_synthesis"
	StepConclusionFormation      ReasoningStepType = "conclusion_formation"
	StepRecommendationGeneration ReasoningStepType = "recommendation_generation"
	StepDecisionMaking           ReasoningStepType = "decision_making"
)

// External integration steps.
const (
	StepToolInvocation     ReasoningStepType = "tool_invocation"
	StepKnowledgeRetrieval ReasoningStepType = "knowledge_retrieval"
	StepDocumentAnalysis   ReasoningStepType = "document_analysis"
	StepWebSearch          ReasoningStepType = "web_search"
)

// Meta-reasoning steps.
const (
	StepStrategyPlanning  ReasoningStepType = "strategy_planning"
	StepApproachSelection ReasoningStepType = "approach_selection"
	StepStepValidation    ReasoningStepType = "step_validation"
	StepErrorDetection    ReasoningStepType = "error_detection"
	StepCourseCorrection  ReasoningStepType = "course_correction"
)

// StepCategory groups reasoning step types by the role they play in a trace.
type StepCategory string

const (
	CategoryCoreAnalysis        StepCategory = "core_analysis"
	CategoryLogicalOperations   StepCategory = "logical_operations"
	CategoryEvaluation          StepCategory = "evaluation"
	CategorySynthesis           StepCategory = "synthesis"
	CategoryExternalIntegration StepCategory = "external_integration"
	CategoryMetaReasoning       StepCategory = "meta_reasoning"

	// CategoryUnknown is reported for step types this client does not know,
	// typically values added server-side after this release.
	CategoryUnknown StepCategory = "unknown"
)

var stepCategories = map[ReasoningStepType]StepCategory{
	StepProblemDecomposition: CategoryCoreAnalysis,
	StepFactExtraction:       CategoryCoreAnalysis,
	StepEvidenceGathering:    CategoryCoreAnalysis,
	StepPatternRecognition:   CategoryCoreAnalysis,
	StepHypothesisFormation:  CategoryCoreAnalysis,

	StepDeductiveReasoning: CategoryLogicalOperations,
	StepInductiveReasoning: CategoryLogicalOperations,
	StepAbductiveReasoning: CategoryLogicalOperations,
	StepCausalAnalysis:     CategoryLogicalOperations,
	StepContradictionCheck: CategoryLogicalOperations,

	StepEvidenceValidation:   CategoryEvaluation,
	StepConfidenceAssessment: CategoryEvaluation,
	StepRiskAssessment:       CategoryEvaluation,
	StepComparativeAnalysis:  CategoryEvaluation,
	StepQualityCheck:         CategoryEvaluation,

	StepInformationSynthesis:     CategorySynthesis,
	StepConclusionFormation:      CategorySynthesis,
	StepRecommendationGeneration: CategorySynthesis,
	StepDecisionMaking:           CategorySynthesis,

	StepToolInvocation:     CategoryExternalIntegration,
	StepKnowledgeRetrieval: CategoryExternalIntegration,
	StepDocumentAnalysis:   CategoryExternalIntegration,
	StepWebSearch:          CategoryExternalIntegration,

	StepStrategyPlanning:  CategoryMetaReasoning,
	StepApproachSelection: CategoryMetaReasoning,
	StepStepValidation:    CategoryMetaReasoning,
	StepErrorDetection:    CategoryMetaReasoning,
	StepCourseCorrection:  CategoryMetaReasoning,
}

// Known reports whether t is a step type this client release recognizes.
func (t ReasoningStepType) Known() bool {
	_, ok := stepCategories[t]
	return ok
}

// Category returns the group t belongs to, or [CategoryUnknown] for
// unrecognized values.
func (t ReasoningStepType) Category() StepCategory {
	if c, ok := stepCategories[t]; ok {
		return c
	}
	return CategoryUnknown
}

// KnownStepTypes returns all step types recognized by this client release.
// The result is a fresh slice in no particular order.
func KnownStepTypes() []ReasoningStepType {
	types := make([]ReasoningStepType, 0, len(stepCategories))
	for t := range stepCategories {
		types = append(types, t)
	}
	return types
}
