package domain

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// ParseAction reads the accept/reject verb of a response call. An empty
// action means accept.
func ParseAction(action string) (accept bool, err error) {
	switch action {
	case "", ActionAccept:
		return true, nil
	case ActionReject:
		return false, nil
	}
	return false, InvalidOperation("action must be accept or reject")
}
