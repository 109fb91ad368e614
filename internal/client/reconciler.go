package client

// WriteState tracks one logical write through its lifecycle. There is no
// transition out of confirmed or failed; a fresh write starts a new entry.
type WriteState int

const (
	WritePending WriteState = iota
	WriteConfirmed
	WriteFailed
)

type pendingWrite struct {
	collection  string
	temporaryID string
	state       WriteState
}

// Stats counts reconciler activity. The counters are cheap enough to keep
// unconditionally and make sync bugs visible without a debugger.
type Stats struct {
	Applied    int64
	Confirmed  int64
	Failed     int64
	Absorbed   int64
	Duplicates int64
}

// Reconciler merges locally-issued writes with the authoritative records
// the push channel delivers. It owns every synced collection and the
// bookkeeping of writes still in flight. A key can have several writes in
// flight at once (the same chat text sent twice back to back), so the
// ledger keeps a list per key, oldest first.
//
// All methods must be called from a single goroutine; correctness relies
// on merge-by-identifier, not locks.
type Reconciler struct {
	collections map[string]*Collection
	pending     map[string][]*pendingWrite
	stats       Stats
}

func NewReconciler() *Reconciler {
	return &Reconciler{
		collections: make(map[string]*Collection),
		pending:     make(map[string][]*pendingWrite),
	}
}

// Collection returns the named collection, creating it with the given
// bound on first use.
func (r *Reconciler) Collection(name string, max int) *Collection {
	if c, ok := r.collections[name]; ok {
		return c
	}

	c := NewCollection(name, max)
	r.collections[name] = c
	return c
}

// ApplyOptimistic inserts the placeholder of a new local write and marks
// the write pending.
func (r *Reconciler) ApplyOptimistic(collection string, record Record) {
	r.Collection(collection, 0).ApplyOptimistic(record)
	r.pending[record.Key] = append(r.pending[record.Key], &pendingWrite{
		collection:  collection,
		temporaryID: record.ID,
		state:       WritePending,
	})
	r.stats.Applied++
}

// Reconcile merges an authoritative record delivered by the push channel.
// If it confirms a pending local write, the write transitions to
// confirmed even when the local completion callback has not fired yet.
// The newest pending write is the one confirmed, mirroring the placeholder
// the collection replaced.
func (r *Reconciler) Reconcile(collection string, authoritative Record) {
	if !r.Collection(collection, 0).Reconcile(authoritative) {
		r.stats.Duplicates++
		return
	}

	if p := r.newestWith(authoritative.Key, WritePending); p != nil {
		p.state = WriteConfirmed
		r.stats.Confirmed++
	}
}

// Ack is the local write's own completion callback. When the push channel
// already delivered the authoritative record, the ack is absorbed instead
// of re-inserting a duplicate.
func (r *Reconciler) Ack(collection string, authoritative Record) {
	if r.take(authoritative.Key, WriteConfirmed) != nil {
		// The push channel won the race; merge-by-id makes this a no-op.
		r.Collection(collection, 0).Reconcile(authoritative)
		r.stats.Absorbed++
		return
	}

	if r.Collection(collection, 0).Reconcile(authoritative) {
		r.stats.Confirmed++
	} else {
		r.stats.Duplicates++
	}

	r.take(authoritative.Key, WritePending)
}

// Fail rolls back the placeholder of a rejected write. Writes the push
// channel already confirmed are left for their ack to absorb.
func (r *Reconciler) Fail(key string) {
	p := r.take(key, WritePending)
	if p == nil {
		return
	}

	r.Collection(p.collection, 0).Rollback(p.temporaryID)
	p.state = WriteFailed
	r.stats.Failed++
}

func (r *Reconciler) newestWith(key string, state WriteState) *pendingWrite {
	writes := r.pending[key]
	for i := len(writes) - 1; i >= 0; i-- {
		if writes[i].state == state {
			return writes[i]
		}
	}

	return nil
}

// take removes and returns the newest write of the key in the given state.
func (r *Reconciler) take(key string, state WriteState) *pendingWrite {
	writes := r.pending[key]
	for i := len(writes) - 1; i >= 0; i-- {
		if writes[i].state != state {
			continue
		}

		p := writes[i]
		writes = append(writes[:i], writes[i+1:]...)
		if len(writes) == 0 {
			delete(r.pending, key)
		} else {
			r.pending[key] = writes
		}

		return p
	}

	return nil
}

// Refresh merges a full authoritative fetch of one collection.
func (r *Reconciler) Refresh(collection string, records []Record) {
	r.Collection(collection, 0).Refresh(records)

	for key, writes := range r.pending {
		kept := writes[:0]
		for _, p := range writes {
			// A refresh that contains the write confirms it.
			if p.collection == collection && p.state == WritePending &&
				r.Collection(collection, 0).indexOfID(p.temporaryID) < 0 {
				p.state = WriteConfirmed
				r.stats.Confirmed++
				continue
			}

			kept = append(kept, p)
		}

		if len(kept) == 0 {
			delete(r.pending, key)
		} else {
			r.pending[key] = kept
		}
	}
}

func (r *Reconciler) Stats() Stats {
	return r.stats
}
