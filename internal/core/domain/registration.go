package domain

// ResolutionMethod records which path produced an agent's assigned ID.
type ResolutionMethod string

const (
	// ResolutionAlreadyRegistered means the registrar knew the address
	// before any transaction was submitted.
	ResolutionAlreadyRegistered ResolutionMethod = "already_registered"
	// ResolutionEventLog means the ID was parsed from the registration
	// confirmation's event data.
	ResolutionEventLog ResolutionMethod = "event_log"
	// ResolutionDirectQuery means the ID was obtained by polling the
	// registrar after the confirmation carried no usable event.
	ResolutionDirectQuery ResolutionMethod = "direct_query"
)

// RegistrationOutcome is produced exactly once per successful registration
// resolution. Never mutated.
type RegistrationOutcome struct {
	AssignedID   uint64           `json:"assigned_id"`
	Method       ResolutionMethod `json:"resolution_method"`
	TxHash       string           `json:"tx_hash,omitempty"` // empty for already_registered
	AttemptsUsed int              `json:"attempts_used"`     // direct-query polls consumed
}
