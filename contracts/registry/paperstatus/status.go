package paperstatus

// Type is an enumeration for paper workflow states.
type Type int

// Paper states in workflow order.
const (
	// Draft is the state of a freshly submitted paper.
	Draft Type = iota

	// InApplication is set when the author hands the paper to a publisher.
	InApplication

	// InReview is set when a review bounty is opened for the paper.
	InReview

	// Published is the final state set by the publisher.
	Published
)

// IsValid reports whether s is one of the known states.
func IsValid(s int) bool {
	return s >= int(Draft) && s <= int(Published)
}
