package model

// RedemptionStatus is the terminal state of a single redemption attempt.
type RedemptionStatus string

const (
	// RedemptionInvalidFormat: the submitted string is not a canonical code.
	RedemptionInvalidFormat RedemptionStatus = "invalid_format"
	// RedemptionNotFound: no such code is registered.
	RedemptionNotFound RedemptionStatus = "not_found"
	// RedemptionExpired: the code has reached its usage limit.
	RedemptionExpired RedemptionStatus = "expired"
	// RedemptionAlreadyHeld: the user already holds the code's role.
	RedemptionAlreadyHeld RedemptionStatus = "already_held"
	// RedemptionGranted: the role was granted and one use consumed.
	RedemptionGranted RedemptionStatus = "granted"
	// RedemptionGrantFailed: the platform rejected the role grant; no use
	// was consumed.
	RedemptionGrantFailed RedemptionStatus = "grant_failed"
)

// RedemptionResult carries everything the presentation layer needs to render
// the outcome of one attempt. The engine never formats or sends anything.
type RedemptionResult struct {
	AttemptID string
	Status    RedemptionStatus
	Code      string
	RoleID    string
	RoleName  string
	Remaining int // meaningful only when Status is RedemptionGranted
}
