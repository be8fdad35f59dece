/*
Package escrow implements the review Escrow contract.

The escrow keeps GAS bounties for papers registered in the registry contract.
A bounty is split into equal slots, one per accepted review. Reviewers submit
reviews until the deadline, the paper author or its publisher accepts or
rejects them. Every accepted review is paid one slot at once. After the
deadline the bounty creator can reclaim everything not paid out.

Slot amount is the integer quotient of the bounty amount and the number of
slots. The remainder is returned only by ReclaimBounty; if all slots are
filled it stays in the escrow.

At most one bounty can ever exist for a paper.

The escrow must be enabled as a status updater in the registry, it moves the
paper to InReview when a bounty is created.

# Contract notifications

BountyCreated notification. This notification is produced when the author
funds a bounty.

	BountyCreated:
	  - name: paperId
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: deadline
	    type: Integer
	  - name: maxReviewers
	    type: Integer

ReviewSubmitted notification.

	ReviewSubmitted:
	  - name: paperId
	    type: Integer
	  - name: reviewId
	    type: Integer
	  - name: reviewer
	    type: Hash160

ReviewStatusUpdated notification. This notification is produced when a review
is accepted or rejected.

	ReviewStatusUpdated:
	  - name: reviewId
	    type: Integer
	  - name: status
	    type: Integer

BountyClaimed notification. This notification is produced when a reviewer is
paid for the accepted review.

	BountyClaimed:
	  - name: reviewId
	    type: Integer
	  - name: reviewer
	    type: Hash160
	  - name: amount
	    type: Integer

BountyCompleted notification. This notification is produced when the last
slot is filled (returned is 0) or when the creator reclaims the bounty
(returned is the amount sent back).

	BountyCompleted:
	  - name: paperId
	    type: Integer
	  - name: returned
	    type: Integer

CoreAddressUpdated notification. This notification is produced when the owner
rebinds the escrow to another registry.

	CoreAddressUpdated:
	  - name: registry
	    type: Hash160
*/
package escrow

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'owner' -> interop.Hash160
    contract owner
  - 'registry' -> interop.Hash160
    registry contract
  - 'funding' -> int
    paper ID of the bounty being funded, exists only inside CreateBounty
  - 0x01 -> int
    latest review ID
  - 0x10<decimal paper ID> -> std.Serialize(Bounty)
    bounties
  - 0x11<decimal review ID> -> std.Serialize(Review)
    reviews
  - 0x12<decimal paper ID> -> std.Serialize([]int)
    review IDs of the paper
  - 0x13<reviewer> -> std.Serialize([]int)
    review IDs of the reviewer
  - 0x14<decimal paper ID> -> std.Serialize([]int)
    accepted review IDs of the paper

# Custody
The escrow GAS balance equals the sum of unpaid amounts of all bounties, both
active and completed ones (completed bounties keep their division remainder).
*/
