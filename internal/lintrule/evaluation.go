package lintrule

// KindRuleEvaluationFailed is the escape-hatch item a rule evaluator
// reports when it panics instead of returning normally (spec.md §7:
// "Rule evaluators never throw; any exception during evaluation is
// converted into an internal RuleEvaluationFailed item at error severity
// carrying the offending rule name"). It is registered once here, shared
// by every engine, rather than duplicated per BPMN/FHIR catalogue.
const KindRuleEvaluationFailed Kind = "RULE_EVALUATION_FAILED"

func init() {
	Register(Entry{
		Kind:            KindRuleEvaluationFailed,
		Category:        "internal",
		DefaultSeverity: SeverityError,
		DefaultMessage:  "rule evaluator panicked",
	})
}
