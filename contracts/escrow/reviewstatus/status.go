package reviewstatus

// Type is an enumeration for review states.
type Type int

// Review states. Pending moves to Accepted or Rejected exactly once.
const (
	Pending Type = iota
	Accepted
	Rejected
)
