// Package daemon implements the single-client assembly daemon: its instance
// cache, the socket event loop, the wire framing and a client.
package daemon

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

// BucketCount is the number of hash buckets in an InstanceCache.
const BucketCount = 256

const djb2Seed = 5381

// InstanceFactory creates the instance for a canonical path.
// It is called at most once per path that succeeds.
type InstanceFactory func(ctx context.Context, path string) (*domain.Instance, error)

type cacheEntry struct {
	inst *domain.Instance
	next *cacheEntry
}

// InstanceCache maps canonical source paths to their instances.
// Entries live until the process exits. Only the event loop touches it, so it has no locks.
type InstanceCache struct {
	buckets [BucketCount]*cacheEntry
	size    int
	factory InstanceFactory
}

// NewInstanceCache creates an empty cache that builds missing instances with factory.
func NewInstanceCache(factory InstanceFactory) *InstanceCache {
	return &InstanceCache{factory: factory}
}

// Hash is the djb2 string hash (h = h*33 + c, seeded with 5381).
func Hash(s string) uint64 {
	h := uint64(djb2Seed)
	for i := 0; i < len(s); i++ {
		h = h*33 + uint64(s[i])
	}
	return h
}

// Canonicalize returns the absolute, symlink-resolved form of path.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrPathResolveFailed, err), "path", path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrPathResolveFailed, err), "path", path)
	}
	return resolved, nil
}

// GetOrCreate returns the instance for path, creating it on first use.
// A failed creation is not remembered, so the next request retries it.
func (c *InstanceCache) GetOrCreate(ctx context.Context, path string) (*domain.Instance, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return nil, errors.Join(domain.ErrSynthesisFailed, err)
	}

	if inst, ok := c.Get(canonical); ok {
		return inst, nil
	}

	inst, err := c.factory(ctx, canonical)
	if err != nil {
		return nil, errors.Join(domain.ErrSynthesisFailed, err)
	}

	idx := Hash(canonical) % BucketCount
	c.buckets[idx] = &cacheEntry{inst: inst, next: c.buckets[idx]}
	c.size++
	return inst, nil
}

// Get looks up an already canonical path without creating anything.
func (c *InstanceCache) Get(canonical string) (*domain.Instance, bool) {
	for e := c.buckets[Hash(canonical)%BucketCount]; e != nil; e = e.next {
		if e.inst.Path == canonical {
			return e.inst, true
		}
	}
	return nil, false
}

// Len returns the number of cached instances.
func (c *InstanceCache) Len() int {
	return c.size
}
