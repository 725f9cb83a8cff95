package order

// Forward statuses in lifecycle order. Cancelled sits outside the chain.
var lifecycleRank = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// checkTransition allows re-applying the current status, moving forward along the
// lifecycle (steps may be skipped) and cancelling before shipment.
func checkTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if to == StatusCancelled {
		if from == StatusShipped || from == StatusDelivered {
			return ErrCancelNotAllowed
		}
		return nil
	}
	if from.IsTerminal() {
		return ErrInvalidTransition
	}
	if lifecycleRank[to] < lifecycleRank[from] {
		return ErrInvalidTransition
	}
	return nil
}
