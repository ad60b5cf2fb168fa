package delivery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuslink/internal/common"
	"campuslink/internal/config"
	"campuslink/internal/dbmysql"
)

// fakeTransport scripts the outcome of successive submit attempts per
// client token.
type fakeTransport struct {
	mu       sync.Mutex
	outcomes map[string][]error
	attempts map[string]int
	nextID   uint64
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		outcomes: make(map[string][]error),
		attempts: make(map[string]int),
		nextID:   100,
	}
}

func (f *fakeTransport) script(token string, outcomes ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[token] = outcomes
}

func (f *fakeTransport) Submit(ctx context.Context, req SendRequest) (*dbmysql.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.attempts[req.ClientToken]
	f.attempts[req.ClientToken] = n + 1

	outcomes := f.outcomes[req.ClientToken]
	if n < len(outcomes) && outcomes[n] != nil {
		return nil, outcomes[n]
	}

	f.nextID++
	return &dbmysql.Message{ID: f.nextID, Content: req.Content}, nil
}

func (f *fakeTransport) attemptCount(token string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[token]
}

func testConfig() *config.Config {
	return &config.Config{
		Delivery: config.DeliveryConfig{
			Workers:           2,
			ChannelBufferSize: 64,
			MaxRetries:        2,
			RetryDelay:        0,
		},
	}
}

func newTestOutbox(t *testing.T) (*Outbox, *fakeTransport) {
	transport := newFakeTransport()
	ob := NewOutbox(transport, testConfig())
	t.Cleanup(ob.Shutdown)
	return ob, transport
}

func directSend(token string) SendRequest {
	return SendRequest{
		ConversationID: "conv-123",
		SenderID:       42,
		Content:        "hello",
		ClientToken:    token,
	}
}

func waitForState(t *testing.T, ob *Outbox, senderID uint64, token string, want common.DeliveryState) Entry {
	t.Helper()
	var entry Entry
	require.Eventually(t, func() bool {
		e, ok := ob.Entry(senderID, token)
		if !ok {
			return false
		}
		entry = e
		return e.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return entry
}

func TestOutbox_EnqueueConfirms(t *testing.T) {
	ob, _ := newTestOutbox(t)

	entry, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, common.DeliveryPending, entry.State)

	confirmed := waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)
	assert.NotZero(t, confirmed.MessageID)
	assert.Equal(t, 1, confirmed.Attempts)
}

func TestOutbox_EnqueueValidation(t *testing.T) {
	ob, _ := newTestOutbox(t)

	_, err := ob.Enqueue(SendRequest{ConversationID: "conv-123", SenderID: 42, Content: "x"})
	assert.ErrorIs(t, err, common.ErrInvalid)

	_, err = ob.Enqueue(SendRequest{SenderID: 42, Content: "x", ClientToken: "t"})
	assert.ErrorIs(t, err, common.ErrInvalid)

	_, err = ob.Enqueue(SendRequest{ConversationID: "c", GroupID: "g", SenderID: 42, Content: "x", ClientToken: "t"})
	assert.ErrorIs(t, err, common.ErrInvalid)
}

func TestOutbox_DuplicateTokenReturnsExistingEntry(t *testing.T) {
	ob, transport := newTestOutbox(t)

	first, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)

	second, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	assert.Equal(t, first.Seq, second.Seq)

	// the duplicate must not reach the transport again
	assert.Equal(t, 1, transport.attemptCount("tok-1"))
}

func TestOutbox_TransientErrorsRetry(t *testing.T) {
	ob, transport := newTestOutbox(t)

	transient := common.Wrap(common.ErrTransient, "store unavailable")
	transport.script("tok-1", transient, transient, nil)

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)

	confirmed := waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)
	assert.Equal(t, 3, confirmed.Attempts)
}

func TestOutbox_RetryBudgetExhausted(t *testing.T) {
	ob, transport := newTestOutbox(t)

	transient := common.Wrap(common.ErrTransient, "store unavailable")
	transport.script("tok-1", transient, transient, transient, transient)

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)

	failed := waitForState(t, ob, 42, "tok-1", common.DeliveryFailed)
	// initial attempt plus MaxRetries
	assert.Equal(t, 3, failed.Attempts)
	assert.Contains(t, failed.LastError, "store unavailable")
}

func TestOutbox_TerminalErrorFailsWithoutRetry(t *testing.T) {
	ob, transport := newTestOutbox(t)

	transport.script("tok-1", common.Wrap(common.ErrForbidden, "sender is not a participant"))

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)

	failed := waitForState(t, ob, 42, "tok-1", common.DeliveryFailed)
	assert.Equal(t, 1, failed.Attempts)
}

func TestOutbox_Resubmit(t *testing.T) {
	ob, transport := newTestOutbox(t)

	transport.script("tok-1", common.Wrap(common.ErrForbidden, "not yet a member"), nil)

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-1", common.DeliveryFailed)

	_, err = ob.Resubmit(42, "tok-1")
	require.NoError(t, err)

	confirmed := waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)
	assert.NotZero(t, confirmed.MessageID)
}

func TestOutbox_ResubmitRequiresFailedState(t *testing.T) {
	ob, _ := newTestOutbox(t)

	_, err := ob.Resubmit(42, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)

	_, err = ob.Resubmit(42, "tok-1")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestOutbox_PendingOrderedBySubmission(t *testing.T) {
	transport := newFakeTransport()
	cfg := testConfig()
	// long retry delay parks failing sends in Pending
	cfg.Delivery.RetryDelay = 30
	ob := NewOutbox(transport, cfg)
	t.Cleanup(ob.Shutdown)

	transient := common.Wrap(common.ErrTransient, "down")
	tokens := []string{"tok-a", "tok-b", "tok-c"}
	for _, tok := range tokens {
		transport.script(tok, transient, transient, transient, transient)
	}

	for _, tok := range tokens {
		_, err := ob.Enqueue(directSend(tok))
		require.NoError(t, err)
	}

	pending := ob.Pending()
	require.Len(t, pending, 3)
	for i := 1; i < len(pending); i++ {
		assert.Less(t, pending[i-1].Seq, pending[i].Seq)
	}
}

func TestOutbox_ForgetRules(t *testing.T) {
	ob, transport := newTestOutbox(t)

	transport.script("tok-fail", common.Wrap(common.ErrInvalid, "bad content"))

	_, err := ob.Enqueue(directSend("tok-fail"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-fail", common.DeliveryFailed)

	assert.True(t, ob.Forget(42, "tok-fail"))
	_, found := ob.Entry(42, "tok-fail")
	assert.False(t, found)

	assert.False(t, ob.Forget(42, "unknown"))
}

func TestOutbox_TokensScopedPerSender(t *testing.T) {
	ob, transport := newTestOutbox(t)

	first, err := ob.Enqueue(SendRequest{
		ConversationID: "conv-a",
		SenderID:       1,
		Content:        "alice secret draft",
		ClientToken:    "tok-shared",
	})
	require.NoError(t, err)
	waitForState(t, ob, 1, "tok-shared", common.DeliveryConfirmed)

	second, err := ob.Enqueue(SendRequest{
		ConversationID: "conv-b",
		SenderID:       2,
		Content:        "bob reply",
		ClientToken:    "tok-shared",
	})
	require.NoError(t, err)

	// the second sender gets their own entry, not a snapshot of the
	// first sender's
	assert.Equal(t, uint64(2), second.Request.SenderID)
	assert.Equal(t, "bob reply", second.Request.Content)
	assert.NotEqual(t, first.Seq, second.Seq)

	waitForState(t, ob, 2, "tok-shared", common.DeliveryConfirmed)
	assert.Equal(t, 2, transport.attemptCount("tok-shared"))

	mine, ok := ob.Entry(1, "tok-shared")
	require.True(t, ok)
	assert.Equal(t, "alice secret draft", mine.Request.Content)
}

func TestOutbox_TokenReuseAcrossContainersConflicts(t *testing.T) {
	ob, _ := newTestOutbox(t)

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)

	_, err = ob.Enqueue(SendRequest{
		GroupID:     "grp-9",
		SenderID:    42,
		Content:     "hello",
		ClientToken: "tok-1",
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestOutbox_ObserverSeesTransitions(t *testing.T) {
	ob, _ := newTestOutbox(t)

	tracker := NewUnreadTracker()
	ob.Subscribe(tracker)

	_, err := ob.Enqueue(directSend("tok-1"))
	require.NoError(t, err)
	waitForState(t, ob, 42, "tok-1", common.DeliveryConfirmed)

	require.Eventually(t, func() bool {
		return tracker.Confirmed("conv-123") == 1
	}, 2*time.Second, 5*time.Millisecond)
}
