package indexer

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrNotFound is returned when the requested record is not indexed.
var ErrNotFound = errors.New("indexer: not found")

// Key prefixes of the index.
const (
	prefixNextBlock     = 0x00
	prefixPaper         = 0x01
	prefixAuthorPaper   = 0x02
	prefixBounty        = 0x03
	prefixReview        = 0x04
	prefixPaperReview   = 0x05
	prefixReviewerIndex = 0x06
)

// Store keeps indexed contract state in Pebble. It is safe for concurrent
// use.
type Store struct {
	db *pebble.DB
}

// Open opens the store at the given path. opts may be nil.
func Open(path string, opts *pebble.Options) (*Store, error) {
	if opts == nil {
		opts = &pebble.Options{
			Cache:        pebble.NewCache(16 << 20),
			MemTableSize: 8 << 20,
		}
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NextBlock returns the index of the first block not processed yet.
func (s *Store) NextBlock() (uint32, error) {
	v, closer, err := s.db.Get([]byte{prefixNextBlock})
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()

	if len(v) != 4 {
		return 0, fmt.Errorf("invalid next block value length %d", len(v))
	}
	return binary.BigEndian.Uint32(v), nil
}

// Paper returns the indexed paper.
func (s *Store) Paper(id uint64) (*Paper, error) {
	var p Paper
	if err := get(s.db, paperKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Bounty returns the indexed bounty of the paper.
func (s *Store) Bounty(paperID uint64) (*Bounty, error) {
	var b Bounty
	if err := get(s.db, bountyKey(paperID), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Review returns the indexed review.
func (s *Store) Review(id uint64) (*Review, error) {
	var r Review
	if err := get(s.db, reviewKey(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// PapersByAuthor returns IDs of papers submitted by the author in ascending
// order.
func (s *Store) PapersByAuthor(author util.Uint160) ([]uint64, error) {
	return s.idsWithPrefix(append([]byte{prefixAuthorPaper}, author.BytesBE()...))
}

// ReviewsByPaper returns IDs of reviews submitted for the paper in
// ascending order.
func (s *Store) ReviewsByPaper(paperID uint64) ([]uint64, error) {
	return s.idsWithPrefix(binary.BigEndian.AppendUint64([]byte{prefixPaperReview}, paperID))
}

// ReviewsByReviewer returns IDs of reviews submitted by the reviewer in
// ascending order.
func (s *Store) ReviewsByReviewer(reviewer util.Uint160) ([]uint64, error) {
	return s.idsWithPrefix(append([]byte{prefixReviewerIndex}, reviewer.BytesBE()...))
}

// idsWithPrefix collects 8-byte big-endian IDs closing the keys with the
// given prefix.
func (s *Store) idsWithPrefix(prefix []byte) ([]uint64, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []uint64
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) != len(prefix)+8 {
			return nil, fmt.Errorf("invalid index key length %d", len(key))
		}
		res = append(res, binary.BigEndian.Uint64(key[len(prefix):]))
	}

	return res, iter.Error()
}

func get(r pebble.Reader, key []byte, v io.Serializable) error {
	data, closer, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	defer closer.Close()

	br := io.NewBinReaderFromBuf(data)
	v.DecodeBinary(br)
	if br.Err != nil {
		return fmt.Errorf("decode record: %w", br.Err)
	}

	return nil
}

func put(b *pebble.Batch, key []byte, v io.Serializable) error {
	w := io.NewBufBinWriter()
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return fmt.Errorf("encode record: %w", w.Err)
	}
	return b.Set(key, w.Bytes(), nil)
}

func idKey(prefix byte, id uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte{prefix}, id)
}

func paperKey(id uint64) []byte  { return idKey(prefixPaper, id) }
func bountyKey(id uint64) []byte { return idKey(prefixBounty, id) }
func reviewKey(id uint64) []byte { return idKey(prefixReview, id) }

func nextBlockValue(index uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, index)
}

// prefixUpperBound computes the exclusive upper bound for a prefix scan.
// Increments the last byte; returns nil if prefix is all 0xFF (full range).
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper
		}
	}

	return nil
}
