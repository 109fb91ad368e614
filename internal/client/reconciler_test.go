package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Reconciler_AckAfterPushIsAbsorbed(t *testing.T) {
	r := NewReconciler()
	r.Collection("guesses", 100)

	r.ApplyOptimistic("guesses", Record{ID: "tmp-1", Key: "round-1/user-1"})

	// The push channel delivers the authoritative record before the
	// write's own completion callback fires.
	r.Reconcile("guesses", Record{ID: "42", Key: "round-1/user-1"})
	r.Ack("guesses", Record{ID: "42", Key: "round-1/user-1"})

	records := r.Collection("guesses", 0).Records()
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)
	require.False(t, records[0].Pending)

	stats := r.Stats()
	require.Equal(t, int64(1), stats.Applied)
	require.Equal(t, int64(1), stats.Confirmed)
	require.Equal(t, int64(1), stats.Absorbed)
}

func Test_Reconciler_AckBeforePushConfirms(t *testing.T) {
	r := NewReconciler()

	r.ApplyOptimistic("guesses", Record{ID: "tmp-1", Key: "round-1/user-1"})
	r.Ack("guesses", Record{ID: "42", Key: "round-1/user-1"})

	// The late push delivery is a duplicate.
	r.Reconcile("guesses", Record{ID: "42", Key: "round-1/user-1"})

	records := r.Collection("guesses", 0).Records()
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)

	stats := r.Stats()
	require.Equal(t, int64(1), stats.Confirmed)
	require.Equal(t, int64(1), stats.Duplicates)
	require.Equal(t, int64(0), stats.Absorbed)
}

func Test_Reconciler_FailRollsBackPlaceholder(t *testing.T) {
	r := NewReconciler()

	r.Reconcile("guesses", Record{ID: "41", Key: "round-1/user-9"})
	r.ApplyOptimistic("guesses", Record{ID: "tmp-1", Key: "round-1/user-1"})

	r.Fail("round-1/user-1")

	records := r.Collection("guesses", 0).Records()
	require.Len(t, records, 1)
	require.Equal(t, "41", records[0].ID)
	require.Equal(t, int64(1), r.Stats().Failed)

	// A second failure of the same key is ignored.
	r.Fail("round-1/user-1")
	require.Equal(t, int64(1), r.Stats().Failed)
}

func Test_Reconciler_FailAfterConfirmKeepsRecord(t *testing.T) {
	r := NewReconciler()

	r.ApplyOptimistic("guesses", Record{ID: "tmp-1", Key: "round-1/user-1"})
	r.Reconcile("guesses", Record{ID: "42", Key: "round-1/user-1"})

	// Rejection arriving after the push confirmed the write is stale.
	r.Fail("round-1/user-1")

	records := r.Collection("guesses", 0).Records()
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)
	require.Equal(t, int64(0), r.Stats().Failed)
}

func Test_Reconciler_RepeatedWritesShareCorrelationKey(t *testing.T) {
	r := NewReconciler()
	r.Collection("chat_messages", 100)

	// The same text sent twice back to back: both writes are in flight
	// under one correlation key.
	r.ApplyOptimistic("chat_messages", Record{ID: "tmp-1", Key: "user-1:gm"})
	r.ApplyOptimistic("chat_messages", Record{ID: "tmp-2", Key: "user-1:gm"})

	// The first send succeeds, the second one is rejected. Neither
	// placeholder may survive.
	r.Ack("chat_messages", Record{ID: "42", Key: "user-1:gm"})
	r.Fail("user-1:gm")

	records := r.Collection("chat_messages", 0).Records()
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)
	require.False(t, records[0].Pending)

	stats := r.Stats()
	require.Equal(t, int64(2), stats.Applied)
	require.Equal(t, int64(1), stats.Confirmed)
	require.Equal(t, int64(1), stats.Failed)
}

func Test_Reconciler_RepeatedWritesBothConfirmed(t *testing.T) {
	r := NewReconciler()
	r.Collection("chat_messages", 100)

	r.ApplyOptimistic("chat_messages", Record{ID: "tmp-1", Key: "user-1:gm"})
	r.ApplyOptimistic("chat_messages", Record{ID: "tmp-2", Key: "user-1:gm"})

	// The push channel beats the first ack; both writes settle.
	r.Reconcile("chat_messages", Record{ID: "42", Key: "user-1:gm"})
	r.Ack("chat_messages", Record{ID: "42", Key: "user-1:gm"})
	r.Ack("chat_messages", Record{ID: "43", Key: "user-1:gm"})

	records := r.Collection("chat_messages", 0).Records()
	require.Len(t, records, 2)
	for _, record := range records {
		require.False(t, record.Pending)
	}

	stats := r.Stats()
	require.Equal(t, int64(2), stats.Confirmed)
	require.Equal(t, int64(1), stats.Absorbed)
}

func Test_Reconciler_RefreshConfirmsMatchedPendingWrites(t *testing.T) {
	r := NewReconciler()

	r.ApplyOptimistic("guesses", Record{ID: "tmp-1", Key: "round-1/user-1"})
	r.ApplyOptimistic("guesses", Record{ID: "tmp-2", Key: "round-1/user-2"})

	r.Refresh("guesses", []Record{{ID: "42", Key: "round-1/user-1"}})

	stats := r.Stats()
	require.Equal(t, int64(1), stats.Confirmed)

	// The unmatched write is still pending; a later ack settles it.
	r.Ack("guesses", Record{ID: "43", Key: "round-1/user-2"})

	records := r.Collection("guesses", 0).Records()
	require.Len(t, records, 2)
	for _, record := range records {
		require.False(t, record.Pending)
	}
}
