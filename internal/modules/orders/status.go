package orders

// Status is the closed set of order states.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCanceled   Status = "Canceled"
)

// nextInChain is the forward fulfillment chain. Terminal states map to
// nothing.
var nextInChain = map[Status]Status{
	StatusPending:    StatusProcessing,
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// transitions is the full legality table: current state -> legal targets.
// Cancellation is reachable from every non-terminal state; Delivered and
// Canceled have no outgoing transitions.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusShipped, StatusCanceled},
	StatusShipped:    {StatusDelivered, StatusCanceled},
	StatusDelivered:  {},
	StatusCanceled:   {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// Next returns the next status in the forward chain, if any.
func (s Status) Next() (Status, bool) {
	n, ok := nextInChain[s]
	return n, ok
}

// CanTransition decides legality before any network call. Re-saving the
// identical current status is always permitted as a no-op; everything else
// must be in the transition table.
func CanTransition(current, target Status) bool {
	if !current.Valid() || !target.Valid() {
		return false
	}
	if current == target {
		return true
	}
	for _, t := range transitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// LegalTargets returns the targets reachable from current, excluding the
// no-op self save.
func LegalTargets(current Status) []Status {
	out := make([]Status, len(transitions[current]))
	copy(out, transitions[current])
	return out
}
