/*
Package registry implements the paper Registry contract.

Every research paper is a non-divisible NEP-11 token minted to its author on
submission. The token is soulbound: Transfer always fails, so authorship can
not be sold or reassigned. Token ID is the decimal paper ID, IDs start from 1.

Each paper keeps its full revision history. A content hash (an opaque content
store identifier) can be recorded only once across all versions of all
papers.

Paper status can be changed by the author, by the publisher the author handed
the paper to, or by a contract the owner enabled with SetStatusUpdater (the
review escrow uses it to move the paper to InReview).

# Contract notifications

Transfer notification. This is a NEP-11 standard notification, emitted on mint
only.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: tokenId
	    type: ByteArray

PaperSubmitted notification. This notification is produced when a new paper
is registered.

	PaperSubmitted:
	  - name: paperId
	    type: Integer
	  - name: author
	    type: Hash160
	  - name: contentHash
	    type: String

PaperVersionAdded notification. This notification is produced when the author
records a new paper version.

	PaperVersionAdded:
	  - name: paperId
	    type: Integer
	  - name: oldHash
	    type: String
	  - name: newHash
	    type: String
	  - name: versionCount
	    type: Integer

PaperStatusUpdated notification. This notification is produced on every status
change including the publisher hand-off.

	PaperStatusUpdated:
	  - name: paperId
	    type: Integer
	  - name: status
	    type: Integer

StatusUpdaterSet notification. This notification is produced when the owner
enables or disables a status updater contract.

	StatusUpdaterSet:
	  - name: updater
	    type: Hash160
	  - name: enabled
	    type: Boolean
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
  - 'owner' -> interop.Hash160
    contract owner
  - 0x00 -> int
    total supply, equal to the latest paper ID
  - 0x01<author> -> int
    number of papers of the author
  - 0x02<author><token key> -> token ID
    tokens of the author, token key = ripemd160(token ID)
  - 0x03<token key> -> token ID
    all tokens
  - 0x10<token key> -> std.Serialize(Paper)
    paper records
  - 0x11<token key><decimal version number> -> std.Serialize(PaperVersion)
    revision history, numbers start from 1
  - 0x12<sha256(content hash)> -> int
    every content hash ever recorded, mapped to the paper ID
  - 0x13<author> -> std.Serialize([]int)
    paper IDs of the author in submission order
  - 0x20<contract hash> -> []byte{1}
    contracts allowed to update status of any paper
*/
