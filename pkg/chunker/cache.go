package chunker

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spetr/code-chunker/pkg/types"
)

// defaultCacheSize is used when WithCache is given a non-positive capacity.
const defaultCacheSize = 256

// resultCache is an optional, process-wide keyed store of chunking
// results. Keys include a content digest of the source and the full
// option fingerprint, so a changed input can never produce a stale
// hit. The underlying LRU serializes access internally; a miss never
// blocks callers working on unrelated keys.
type resultCache struct {
	lru *lru.Cache[string, []*types.Chunk]
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	c, err := lru.New[string, []*types.Chunk](capacity)
	if err != nil {
		// lru.New only fails on non-positive size, which is excluded above.
		panic(err)
	}
	return &resultCache{lru: c}
}

// key derives the cache key from the file path, content and configuration.
func (rc *resultCache) key(file *types.SourceFile, cfg Config) string {
	h := sha256.New()
	h.Write([]byte(file.Path))
	h.Write([]byte{0})
	h.Write(file.Content)
	h.Write([]byte{0})
	h.Write([]byte(cfg.fingerprint()))
	return hex.EncodeToString(h.Sum(nil))
}

// get returns a deep copy of the cached chunks so callers can mutate
// results without poisoning the cache.
func (rc *resultCache) get(key string) ([]*types.Chunk, bool) {
	chunks, ok := rc.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneChunks(chunks), true
}

func (rc *resultCache) put(key string, chunks []*types.Chunk) {
	rc.lru.Add(key, cloneChunks(chunks))
}

func cloneChunks(chunks []*types.Chunk) []*types.Chunk {
	out := make([]*types.Chunk, len(chunks))
	for i, c := range chunks {
		cp := *c
		cp.ElementRefs = append([]int(nil), c.ElementRefs...)
		out[i] = &cp
	}
	return out
}
