package client

// Record is one entry of a synced collection. While a locally-issued write
// awaits confirmation, its record carries a temporary identifier and the
// Pending flag; the authoritative copy replaces it during reconciliation.
type Record struct {
	// ID is the server identifier, or a temporary client-generated one
	// while the record is pending.
	ID string

	// Key correlates the optimistic placeholder of a logical write with
	// its authoritative counterpart, e.g. round+user for a guess.
	Key string

	Pending bool
	Data    map[string]any
}

// Collection is a bounded, newest-first list of records mirroring one
// server table plus the transient overlay of unconfirmed local writes.
// It is not safe for concurrent use; the game state confines all access
// to its own goroutine.
type Collection struct {
	name    string
	max     int
	records []Record
}

func NewCollection(name string, max int) *Collection {
	return &Collection{name: name, max: max}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns a copy in newest-first order.
func (c *Collection) Records() []Record {
	records := make([]Record, len(c.records))
	copy(records, c.records)
	return records
}

// ApplyOptimistic shows a local write immediately by prepending its
// placeholder.
func (c *Collection) ApplyOptimistic(record Record) {
	record.Pending = true
	c.records = append([]Record{record}, c.records...)
	c.truncate()
}

// Reconcile merges a server-confirmed record. A pending placeholder with
// the same correlation key is replaced in place, so the entry keeps its
// position instead of popping to the front. Records already present by
// identifier are skipped, which makes duplicate deliveries harmless.
// It reports whether the collection changed.
func (c *Collection) Reconcile(authoritative Record) bool {
	authoritative.Pending = false

	if c.indexOfID(authoritative.ID) >= 0 {
		return false
	}

	if i := c.indexOfPendingKey(authoritative.Key); i >= 0 {
		c.records[i] = authoritative
		return true
	}

	c.records = append([]Record{authoritative}, c.records...)
	c.truncate()
	return true
}

// Rollback removes the placeholder of a failed write. It reports whether
// the placeholder was still present.
func (c *Collection) Rollback(temporaryID string) bool {
	i := c.indexOfID(temporaryID)
	if i < 0 || !c.records[i].Pending {
		return false
	}

	c.records = append(c.records[:i], c.records[i+1:]...)
	return true
}

// Refresh replaces the confirmed contents with a full authoritative
// fetch, covering any events lost by the push channel. Still-pending
// placeholders survive the refresh unless the fetch already contains
// their logical write.
func (c *Collection) Refresh(authoritative []Record) {
	keys := make(map[string]bool, len(authoritative))
	ids := make(map[string]bool, len(authoritative))
	for _, record := range authoritative {
		keys[record.Key] = true
		ids[record.ID] = true
	}

	merged := []Record{}
	for _, record := range c.records {
		if record.Pending && !keys[record.Key] && !ids[record.ID] {
			merged = append(merged, record)
		}
	}

	seen := make(map[string]bool, len(authoritative))
	for _, record := range authoritative {
		if seen[record.ID] {
			continue
		}

		seen[record.ID] = true
		record.Pending = false
		merged = append(merged, record)
	}

	c.records = merged
	c.truncate()
}

func (c *Collection) truncate() {
	if c.max > 0 && len(c.records) > c.max {
		c.records = c.records[:c.max]
	}
}

func (c *Collection) indexOfID(id string) int {
	for i := range c.records {
		if c.records[i].ID == id {
			return i
		}
	}

	return -1
}

func (c *Collection) indexOfPendingKey(key string) int {
	if key == "" {
		return -1
	}

	for i := range c.records {
		if c.records[i].Pending && c.records[i].Key == key {
			return i
		}
	}

	return -1
}
