package indexer

import (
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// maxContentHashLen limits content hash strings read from the index.
const maxContentHashLen = 1024

// Paper is an indexed state of the registered paper.
type Paper struct {
	ID          uint64
	Author      util.Uint160
	ContentHash string
	Versions    uint64
	Status      uint8
	// Block is the index of the block the paper was submitted in.
	Block uint32
	// Tx is the hash of the submission transaction.
	Tx util.Uint256
}

// EncodeBinary implements io.Serializable.
func (p *Paper) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(p.ID)
	p.Author.EncodeBinary(w)
	w.WriteString(p.ContentHash)
	w.WriteU64LE(p.Versions)
	w.WriteB(p.Status)
	w.WriteU32LE(p.Block)
	p.Tx.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (p *Paper) DecodeBinary(r *io.BinReader) {
	p.ID = r.ReadU64LE()
	p.Author.DecodeBinary(r)
	p.ContentHash = r.ReadString(maxContentHashLen)
	p.Versions = r.ReadU64LE()
	p.Status = r.ReadB()
	p.Block = r.ReadU32LE()
	p.Tx.DecodeBinary(r)
}

// Bounty is an indexed state of the paper bounty. Amounts are in GAS
// fractions.
type Bounty struct {
	PaperID      uint64
	Creator      util.Uint160
	Amount       int64
	Deadline     int64
	MaxReviewers uint64
	Accepted     uint64
	// Paid is the sum of all reviewer payouts.
	Paid int64
	// Returned is the amount sent back to the creator on reclaim.
	Returned int64
	Active   bool
}

// EncodeBinary implements io.Serializable.
func (b *Bounty) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(b.PaperID)
	b.Creator.EncodeBinary(w)
	w.WriteU64LE(uint64(b.Amount))
	w.WriteU64LE(uint64(b.Deadline))
	w.WriteU64LE(b.MaxReviewers)
	w.WriteU64LE(b.Accepted)
	w.WriteU64LE(uint64(b.Paid))
	w.WriteU64LE(uint64(b.Returned))
	w.WriteBool(b.Active)
}

// DecodeBinary implements io.Serializable.
func (b *Bounty) DecodeBinary(r *io.BinReader) {
	b.PaperID = r.ReadU64LE()
	b.Creator.DecodeBinary(r)
	b.Amount = int64(r.ReadU64LE())
	b.Deadline = int64(r.ReadU64LE())
	b.MaxReviewers = r.ReadU64LE()
	b.Accepted = r.ReadU64LE()
	b.Paid = int64(r.ReadU64LE())
	b.Returned = int64(r.ReadU64LE())
	b.Active = r.ReadBool()
}

// Remaining returns GAS still kept in custody for the bounty.
func (b *Bounty) Remaining() int64 {
	return b.Amount - b.Paid - b.Returned
}

// Review is an indexed state of the submitted review.
type Review struct {
	ID       uint64
	PaperID  uint64
	Reviewer util.Uint160
	Status   uint8
	Payout   int64
	Tx       util.Uint256
}

// EncodeBinary implements io.Serializable.
func (v *Review) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(v.ID)
	w.WriteU64LE(v.PaperID)
	v.Reviewer.EncodeBinary(w)
	w.WriteB(v.Status)
	w.WriteU64LE(uint64(v.Payout))
	v.Tx.EncodeBinary(w)
}

// DecodeBinary implements io.Serializable.
func (v *Review) DecodeBinary(r *io.BinReader) {
	v.ID = r.ReadU64LE()
	v.PaperID = r.ReadU64LE()
	v.Reviewer.DecodeBinary(r)
	v.Status = r.ReadB()
	v.Payout = int64(r.ReadU64LE())
	v.Tx.DecodeBinary(r)
}
