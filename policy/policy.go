/*
Package policy holds the authorization matrix shared by the registry and
escrow contracts.

The package has no imports, so it is compiled into both contracts by the
neo-go compiler and can be tested as plain Go. Contracts collect the relations
the invoker has proven for the record being touched (see Roles) and ask Check
whether the operation is allowed.
*/
package policy

// Operation is a state-changing contract method subject to authorization.
type Operation int

// Operations guarded by Check.
const (
	UpdatePaperHash Operation = iota
	SubmitToPublisher
	UpdatePaperStatus
	SetStatusUpdater
	CreateBounty
	SubmitReview
	AcceptReview
	RejectReview
	ReclaimBounty
	UpdateCoreAddress
	UpdateContract
)

// Denial reasons returned by Check.
const (
	ErrNotAuthor           = "Only author can update paper"
	ErrNotAuthorSubmit     = "Only author can submit to publisher"
	ErrStatusNotAuthorized = "Not authorized to update status"
	ErrNotOwner            = "caller is not the owner"
	ErrNotBountyAuthor     = "Only paper author can create bounty"
	ErrNoReviewerWitness   = "reviewer witness check failed"
	ErrSelfReview          = "Author cannot review their own paper"
	ErrAcceptForbidden     = "Only owner or publisher can accept reviews"
	ErrRejectForbidden     = "Only owner or publisher can reject reviews"
	ErrNotCreator          = "Only bounty creator can reclaim"
	ErrUnknownOperation    = "unknown operation"
)

// Roles describes what the invoker has proven about itself relative to the
// paper, bounty or contract the operation targets.
type Roles struct {
	// Owner is set when the contract owner witnessed the transaction.
	Owner bool
	// Author is set when the paper author witnessed the transaction.
	Author bool
	// Publisher is set when the paper has a publisher and it witnessed the
	// transaction.
	Publisher bool
	// StatusUpdater is set when the calling contract is in the registry
	// allow-list.
	StatusUpdater bool
	// Creator is set when the bounty creator witnessed the transaction.
	Creator bool
	// Reviewer is set when the reviewer named in the call witnessed the
	// transaction.
	Reviewer bool
}

// Check returns an empty string if op is allowed for r, otherwise the reason
// the call must fail with.
func Check(op Operation, r Roles) string {
	switch op {
	case UpdatePaperHash:
		if !r.Author {
			return ErrNotAuthor
		}
	case SubmitToPublisher:
		if !r.Author {
			return ErrNotAuthorSubmit
		}
	case UpdatePaperStatus:
		if !r.Author && !r.Publisher && !r.StatusUpdater {
			return ErrStatusNotAuthorized
		}
	case SetStatusUpdater, UpdateCoreAddress, UpdateContract:
		if !r.Owner {
			return ErrNotOwner
		}
	case CreateBounty:
		if !r.Author {
			return ErrNotBountyAuthor
		}
	case SubmitReview:
		if !r.Reviewer {
			return ErrNoReviewerWitness
		}
		if r.Author {
			return ErrSelfReview
		}
	case AcceptReview:
		if !r.Author && !r.Publisher {
			return ErrAcceptForbidden
		}
	case RejectReview:
		if !r.Author && !r.Publisher {
			return ErrRejectForbidden
		}
	case ReclaimBounty:
		if !r.Creator {
			return ErrNotCreator
		}
	default:
		return ErrUnknownOperation
	}
	return ""
}
