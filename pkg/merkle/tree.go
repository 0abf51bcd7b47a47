// Package merkle implements a fixed-size Merkle tree used to fingerprint the
// blob store's chunk population for integrity audits.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Tree is a perfect binary tree stored as a flattened array: the root at
// index 0, children of i at 2i+1 and 2i+2, leaves in the trailing half.
type Tree struct {
	mu         sync.RWMutex
	nodes      []string
	numLeaves  int
	leafOffset int
}

// New creates a tree with numLeaves leaf buckets. numLeaves must be a power
// of two and at least 2.
func New(numLeaves int) (*Tree, error) {
	if numLeaves < 2 || numLeaves&(numLeaves-1) != 0 {
		return nil, fmt.Errorf("numLeaves must be a power of 2 and >= 2, got %d", numLeaves)
	}

	return &Tree{
		nodes:      make([]string, 2*numLeaves-1),
		numLeaves:  numLeaves,
		leafOffset: numLeaves - 1,
	}, nil
}

// SetLeaf replaces the hash of one leaf bucket and recomputes the path to the
// root. An empty hash marks the bucket as empty.
func (t *Tree) SetLeaf(bucket int, hash string) error {
	if bucket < 0 || bucket >= t.numLeaves {
		return fmt.Errorf("bucket out of range: %d", bucket)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.leafOffset + bucket
	t.nodes[idx] = hash

	for idx > 0 {
		parent := (idx - 1) / 2
		t.nodes[parent] = hashPair(t.nodes[2*parent+1], t.nodes[2*parent+2])
		idx = parent
	}
	return nil
}

// Root returns the current root hash. An entirely empty tree has an empty
// root.
func (t *Tree) Root() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[0]
}

// NumLeaves returns the leaf bucket capacity.
func (t *Tree) NumLeaves() int {
	return t.numLeaves
}

func hashPair(left, right string) string {
	if left == "" && right == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(left))
	h.Write([]byte(right))
	return hex.EncodeToString(h.Sum(nil))
}
