package search

import "github.com/rotochess/rotochess/pkg/board"

// attackEntry is one slot of the attack-regeneration cache (spec.md §4.6): a
// hash-keyed memo of both sides' attacked_by bitboards, consulted by
// Position.Apply before recomputing them from scratch. Unmake restores them
// from its undo record and does not consult the cache.
type attackEntry struct {
	valid bool
	hash  board.ZobristHash
	white board.Bitboard
	black board.Bitboard
}

// AttackCache is a direct-mapped, process-lifetime cache overwritten on
// conflict -- simpler than the transposition table's ranked replacement
// policy since there is nothing here worth keeping once evicted.
type AttackCache struct {
	entries []attackEntry
}

// NewAttackCache allocates a cache with the given bucket count.
func NewAttackCache(buckets int) *AttackCache {
	return &AttackCache{entries: make([]attackEntry, buckets)}
}

func (c *AttackCache) bucket(hash board.ZobristHash) int {
	return int(uint64(hash) % uint64(len(c.entries)))
}

// Get returns the cached attack bitboards for hash, if present.
func (c *AttackCache) Get(hash board.ZobristHash) (white, black board.Bitboard, ok bool) {
	e := c.entries[c.bucket(hash)]
	if e.valid && e.hash == hash {
		return e.white, e.black, true
	}
	return 0, 0, false
}

// Put overwrites the cache slot for hash with freshly computed attack sets.
func (c *AttackCache) Put(hash board.ZobristHash, white, black board.Bitboard) {
	c.entries[c.bucket(hash)] = attackEntry{valid: true, hash: hash, white: white, black: black}
}
