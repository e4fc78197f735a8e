package minimax

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	memoEntrySize = 16
	minMemoPower  = 10
	maxMemoPower  = 20
)

// 16 bytes (memoEntrySize)
type memoEntry struct {
	key   uint64
	score int32
	valid bool
}

type TableLock interface {
	Lock()
	Unlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()   {}
func (f FakeLock) Unlock() {}

// MemoTable remembers exact minimax values by zobrist key. Since the search
// never prunes, every stored value is exact and a hit returns precisely what
// re-searching would have.
type MemoTable struct {
	TableLock
	table    []memoEntry
	sizeMask uint64

	created    atomic.Uint64
	lookups    atomic.Uint64
	hits       atomic.Uint64
	collisions atomic.Uint64
}

func (t *MemoTable) SetSingleThreadedMode() {
	t.TableLock = FakeLock{}
}

func (t *MemoTable) SetMultiThreadedMode() {
	t.TableLock = new(sync.Mutex)
}

// Reset sizes the table to roughly fractionOfMemory of the system's memory,
// rounded down to a power of two and clamped, and clears it.
func (t *MemoTable) Reset(fractionOfMemory float64) {
	if t.TableLock == nil {
		t.TableLock = FakeLock{}
	}
	t.Lock()
	defer t.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(memoEntrySize))
	power := minMemoPower
	if desiredNElems >= 1 {
		power = int(math.Log2(desiredNElems))
	}
	power = max(minMemoPower, min(maxMemoPower, power))

	numElems := 1 << power
	t.sizeMask = uint64(numElems - 1)
	if t.table != nil && len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]memoEntry, numElems)
	}
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)

	log.Debug().Int("num-elems", numElems).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("memo-table-size")
}

func (t *MemoTable) lookup(key uint64) (int, bool) {
	t.lookups.Add(1)
	t.Lock()
	e := t.table[key&t.sizeMask]
	t.Unlock()
	if !e.valid {
		return 0, false
	}
	if e.key != key {
		t.collisions.Add(1)
		return 0, false
	}
	t.hits.Add(1)
	return int(e.score), true
}

func (t *MemoTable) store(key uint64, score int) {
	t.Lock()
	// just overwrite whatever is there.
	t.table[key&t.sizeMask] = memoEntry{key: key, score: int32(score), valid: true}
	t.Unlock()
	t.created.Add(1)
}

func (t *MemoTable) Size() int {
	return len(t.table)
}

func (t *MemoTable) Stats() (created, lookups, hits, collisions uint64) {
	return t.created.Load(), t.lookups.Load(), t.hits.Load(), t.collisions.Load()
}
