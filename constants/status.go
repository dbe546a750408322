package constants

// Outcome is the final result of an eligibility evaluation.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeRejected Outcome = "REJECTED"
)

// Phase identifies the rule phase that settled the outcome. PhaseNone means
// every phase was attempted and none approved.
type Phase string

const (
	PhaseNature    Phase = "NATURE"
	PhaseActivity  Phase = "ACTIVITY"
	PhaseException Phase = "EXCEPTION"
	PhaseNone      Phase = "NONE"
)

// Activity row types in the compatibility report.
const (
	ActivityPrincipal = "PRINCIPAL"
	ActivitySecondary = "SECONDARY"
)
