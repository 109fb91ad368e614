package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Collection_ReconcileReplacesPlaceholderInPlace(t *testing.T) {
	c := NewCollection("guesses", 0)

	c.ApplyOptimistic(Record{ID: "tmp-1", Key: "round-1/user-1"})
	require.Equal(t, 1, c.Len())
	require.True(t, c.Records()[0].Pending)

	changed := c.Reconcile(Record{ID: "42", Key: "round-1/user-1"})
	require.True(t, changed)
	require.Equal(t, 1, c.Len())

	record := c.Records()[0]
	require.Equal(t, "42", record.ID)
	require.False(t, record.Pending)
}

func Test_Collection_ReconcileDuplicateIsNoop(t *testing.T) {
	c := NewCollection("guesses", 0)

	require.True(t, c.Reconcile(Record{ID: "42", Key: "round-1/user-1"}))
	require.False(t, c.Reconcile(Record{ID: "42", Key: "round-1/user-1"}))
	require.Equal(t, 1, c.Len())
}

func Test_Collection_ReconcileKeepsPositionOfReplacedRecord(t *testing.T) {
	c := NewCollection("chat_messages", 0)

	c.ApplyOptimistic(Record{ID: "tmp-1", Key: "user-1:hello"})
	require.True(t, c.Reconcile(Record{ID: "10", Key: "user-2:newer"}))
	require.True(t, c.Reconcile(Record{ID: "9", Key: "user-1:hello"}))

	records := c.Records()
	require.Len(t, records, 2)
	require.Equal(t, "10", records[0].ID)
	require.Equal(t, "9", records[1].ID)
}

func Test_Collection_RollbackRemovesOnlyPendingPlaceholder(t *testing.T) {
	c := NewCollection("guesses", 0)

	require.True(t, c.Reconcile(Record{ID: "42", Key: "round-1/user-2"}))
	c.ApplyOptimistic(Record{ID: "tmp-1", Key: "round-1/user-1"})

	require.True(t, c.Rollback("tmp-1"))
	require.False(t, c.Rollback("tmp-1"))
	require.False(t, c.Rollback("42"))

	records := c.Records()
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)
}

func Test_Collection_BoundNeverExceeded(t *testing.T) {
	c := NewCollection("chat_messages", 3)

	for i := 0; i < 10; i++ {
		c.Reconcile(Record{ID: fmt.Sprintf("%d", i), Key: fmt.Sprintf("user:%d", i)})
	}

	require.Equal(t, 3, c.Len())

	// Newest first, so the survivors are the three most recent.
	records := c.Records()
	require.Equal(t, "9", records[0].ID)
	require.Equal(t, "8", records[1].ID)
	require.Equal(t, "7", records[2].ID)

	c.ApplyOptimistic(Record{ID: "tmp-1", Key: "user:me"})
	require.Equal(t, 3, c.Len())
}

func Test_Collection_RefreshKeepsUnmatchedPendingWrites(t *testing.T) {
	c := NewCollection("guesses", 0)

	c.ApplyOptimistic(Record{ID: "tmp-1", Key: "round-1/user-1"})
	c.ApplyOptimistic(Record{ID: "tmp-2", Key: "round-1/user-2"})

	c.Refresh([]Record{
		{ID: "42", Key: "round-1/user-1"},
		{ID: "41", Key: "round-1/user-9"},
	})

	records := c.Records()
	require.Len(t, records, 3)

	// The write of user-2 is still in flight and survives.
	require.Equal(t, "tmp-2", records[0].ID)
	require.True(t, records[0].Pending)

	require.Equal(t, "42", records[1].ID)
	require.Equal(t, "41", records[2].ID)
}

func Test_Collection_RefreshDropsDuplicateAuthoritativeIDs(t *testing.T) {
	c := NewCollection("rounds", 0)

	c.Refresh([]Record{
		{ID: "r-1", Key: "round:r-1"},
		{ID: "r-1", Key: "round:r-1"},
		{ID: "r-2", Key: "round:r-2"},
	})

	require.Equal(t, 2, c.Len())
}
