package local

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Root records a directory tree that has been indexed.
type Root struct {
	Path      string
	IndexedAt time.Time
	Entries   int
}

// RootMUS is the MUS serializer of Root.
var RootMUS = rootMUS{}

var _ mus.Serializer[Root] = rootMUS{}

type rootMUS struct{}

func (s rootMUS) Marshal(r Root, bs []byte) (n int) {
	n = ord.String.Marshal(r.Path, bs)
	n += varint.Int64.Marshal(r.IndexedAt.UnixNano(), bs[n:])
	n += varint.Int64.Marshal(int64(r.Entries), bs[n:])
	return
}

func (s rootMUS) Unmarshal(bs []byte) (r Root, n int, err error) {
	r.Path, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var (
		n1      int
		nanos   int64
		entries int64
	)
	if nanos, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	r.IndexedAt = time.Unix(0, nanos)
	if entries, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	r.Entries = int(entries)
	return
}

func (s rootMUS) Size(r Root) (size int) {
	size = ord.String.Size(r.Path)
	size += varint.Int64.Size(r.IndexedAt.UnixNano())
	size += varint.Int64.Size(int64(r.Entries))
	return
}

func (s rootMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func unmarshalRoot(data []byte) (Root, error) {
	r, n, err := RootMUS.Unmarshal(data)
	if err != nil {
		return Root{}, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}
	if n != len(data) {
		return Root{}, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedData, len(data)-n)
	}
	return r, nil
}

// SaveRoot records that r.Path was indexed, replacing any earlier record.
func (x *Index) SaveRoot(ctx context.Context, r Root) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, RootMUS.Size(r))
	RootMUS.Marshal(r, buf)
	return x.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(makeRootKey(r.Path), buf)
	})
}

// Roots returns the recorded roots ordered by path.
func (x *Index) Roots(ctx context.Context) ([]Root, error) {
	var roots []Root
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(rootPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				r, err := unmarshalRoot(val)
				if err != nil {
					return err
				}
				roots = append(roots, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// ForgetRoot removes the record of root and every entry below it, returning
// how many entries were removed.
func (x *Index) ForgetRoot(ctx context.Context, root string) (int, error) {
	if err := x.backend.Update(func(tx *badger.Txn) error {
		return tx.Delete(makeRootKey(root))
	}); err != nil {
		return 0, err
	}
	return x.DeleteTree(ctx, root)
}
