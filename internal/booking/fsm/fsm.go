package fsm

// Status constants used by the booking state machine.
const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment status constants. Payment status moves independently of booking
// status: a pending booking may already be paid (online prepay) or still
// unpaid (cash, settled at completion).
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

var transitions = map[string]map[string]struct{}{
	StatusPending: {
		StatusAssigned:  {},
		StatusCancelled: {},
	},
	StatusAssigned: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusInProgress: {
		StatusCompleted: {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition returns whether a booking may move from one status to another.
func CanTransition(from, to string) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Terminal reports whether a status admits no further transitions.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}
