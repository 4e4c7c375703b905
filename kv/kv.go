// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk collects puts and writes them in one atomic batch.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
}

// Bucket prefixes every key with the bucket name, so that several logical tables
// can share one store.
type Bucket string

// NewGetter returns a getter scoped to the bucket.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter returns a putter scoped to the bucket.
func (b Bucket) NewPutter(dst Putter) Putter {
	return &bucketPutter{b, dst}
}

func (b Bucket) key(key []byte) []byte {
	return append([]byte(b), key...)
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	dst Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.dst.Put(p.b.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.dst.Delete(p.b.key(key)) }
