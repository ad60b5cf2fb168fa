package delivery

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"campuslink/internal/common"
	"campuslink/internal/config"
	"campuslink/internal/dbmysql"
)

// Transport submits one send attempt to the message store. Implemented
// by the message service; retries reuse the same client token, so a
// resubmission can never double-append.
type Transport interface {
	Submit(ctx context.Context, req SendRequest) (*dbmysql.Message, error)
}

// SendRequest is one outgoing message. Exactly one of ConversationID or
// GroupID is set.
type SendRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
	SenderID       uint64 `json:"sender_id"`
	Content        string `json:"content"`
	AttachmentRef  string `json:"attachment_ref,omitempty"`
	ClientToken    string `json:"client_token"`
}

func (req SendRequest) container() string {
	if req.ConversationID != "" {
		return req.ConversationID
	}
	return req.GroupID
}

// Client tokens are scoped per sender; two users may pick the same
// token without ever seeing each other's entries.
func sendKey(senderID uint64, clientToken string) string {
	return fmt.Sprintf("%d:%s", senderID, clientToken)
}

func (req SendRequest) key() string {
	return sendKey(req.SenderID, req.ClientToken)
}

// Entry is the client-observable state of one outgoing send.
type Entry struct {
	Request    SendRequest          `json:"request"`
	State      common.DeliveryState `json:"state"`
	MessageID  uint64               `json:"message_id,omitempty"`
	Attempts   int                  `json:"attempts"`
	LastError  string               `json:"last_error,omitempty"`
	Seq        uint64               `json:"seq"`
	EnqueuedAt time.Time            `json:"enqueued_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// Outbox runs the Pending -> Confirmed/Failed state machine for
// optimistic sends. A worker pool drains the queue; transient failures
// are retried with the original client token until the retry budget is
// spent.
type Outbox struct {
	transport  Transport
	maxRetries int
	retryDelay time.Duration

	observers    map[string]common.Observer
	entries      map[string]*Entry
	nextSeq      uint64
	queue        chan string
	eventChannel chan common.DeliveryEvent
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

func NewOutbox(transport Transport, cfg *config.Config) *Outbox {
	ctx, cancel := context.WithCancel(context.Background())

	ob := &Outbox{
		transport:    transport,
		maxRetries:   cfg.Delivery.MaxRetries,
		retryDelay:   time.Duration(cfg.Delivery.RetryDelay) * time.Second,
		observers:    make(map[string]common.Observer),
		entries:      make(map[string]*Entry),
		queue:        make(chan string, cfg.Delivery.ChannelBufferSize),
		eventChannel: make(chan common.DeliveryEvent, cfg.Delivery.ChannelBufferSize),
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 0; i < cfg.Delivery.Workers; i++ {
		ob.wg.Add(1)
		go ob.worker()
	}
	ob.wg.Add(1)
	go ob.dispatchEvents()

	return ob
}

func (ob *Outbox) Subscribe(observer common.Observer) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.observers[observer.Name()] = observer
	log.Printf("Observer %s subscribed", observer.Name())
}

func (ob *Outbox) Unsubscribe(observer common.Observer) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	delete(ob.observers, observer.Name())
	log.Printf("Observer %s unsubscribed", observer.Name())
}

func (ob *Outbox) Notify(event common.DeliveryEvent) {
	ob.mu.RLock()
	observers := make([]common.Observer, 0, len(ob.observers))
	for _, obs := range ob.observers {
		observers = append(observers, obs)
	}
	ob.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("Observer %s update failed: %v", observer.Name(), err)
		}
	}
}

func (ob *Outbox) NotifyAsync(event common.DeliveryEvent) {
	select {
	case ob.eventChannel <- event:
	case <-ob.ctx.Done():
	default:
		log.Printf("Delivery event channel full, dropping event for token %s", event.ClientToken)
	}
}

// Enqueue registers a new send and hands it to the workers. The entry
// is immediately visible as Pending, which is what the client renders
// as the optimistic placeholder.
func (ob *Outbox) Enqueue(req SendRequest) (Entry, error) {
	if req.ClientToken == "" {
		return Entry{}, common.Wrap(common.ErrInvalid, "client token cannot be empty")
	}
	if (req.ConversationID == "") == (req.GroupID == "") {
		return Entry{}, common.Wrap(common.ErrInvalid, "exactly one of conversation or group must be set")
	}

	key := req.key()

	ob.mu.Lock()
	if existing, ok := ob.entries[key]; ok {
		if existing.Request.container() != req.container() {
			ob.mu.Unlock()
			return Entry{}, common.Wrap(common.ErrConflict, "client token %s already used for a different destination", req.ClientToken)
		}
		snapshot := *existing
		ob.mu.Unlock()
		// Same token enqueued twice: hand back the existing state
		// machine instead of creating a second placeholder.
		return snapshot, nil
	}

	now := time.Now().UTC()
	ob.nextSeq++
	entry := &Entry{
		Request:    req,
		State:      common.DeliveryPending,
		Seq:        ob.nextSeq,
		EnqueuedAt: now,
		UpdatedAt:  now,
	}
	ob.entries[key] = entry
	snapshot := *entry
	ob.mu.Unlock()

	ob.NotifyAsync(ob.eventFor(&snapshot))

	select {
	case ob.queue <- key:
	case <-ob.ctx.Done():
		return snapshot, common.Wrap(common.ErrTransient, "outbox shutting down")
	}
	return snapshot, nil
}

// Resubmit re-queues a Failed entry with its original client token.
func (ob *Outbox) Resubmit(senderID uint64, clientToken string) (Entry, error) {
	key := sendKey(senderID, clientToken)

	ob.mu.Lock()
	entry, ok := ob.entries[key]
	if !ok {
		ob.mu.Unlock()
		return Entry{}, common.Wrap(common.ErrNotFound, "no send with token %s", clientToken)
	}
	if entry.State != common.DeliveryFailed {
		snapshot := *entry
		ob.mu.Unlock()
		return snapshot, common.Wrap(common.ErrConflict, "send is %s, only failed sends can be resubmitted", snapshot.State)
	}
	entry.State = common.DeliveryPending
	entry.LastError = ""
	entry.UpdatedAt = time.Now().UTC()
	snapshot := *entry
	ob.mu.Unlock()

	ob.NotifyAsync(ob.eventFor(&snapshot))

	select {
	case ob.queue <- key:
	case <-ob.ctx.Done():
		return snapshot, common.Wrap(common.ErrTransient, "outbox shutting down")
	}
	return snapshot, nil
}

// Entry returns a snapshot of one send's state machine. Lookups are
// scoped to the sender, so a token only ever resolves to its owner's
// entry.
func (ob *Outbox) Entry(senderID uint64, clientToken string) (Entry, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	entry, ok := ob.entries[sendKey(senderID, clientToken)]
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

// Pending lists unconfirmed sends in submission order. Clients render
// these after the last confirmed message, so a slow round trip never
// reorders the sender's own view.
func (ob *Outbox) Pending() []Entry {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	pending := make([]Entry, 0)
	for _, entry := range ob.entries {
		if entry.State == common.DeliveryPending {
			pending = append(pending, *entry)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Seq < pending[j].Seq })
	return pending
}

// Forget drops a Confirmed or Failed entry once the client has
// reconciled it. Pending entries stay: a locally-abandoned send may
// still confirm server-side and must remain reconcilable.
func (ob *Outbox) Forget(senderID uint64, clientToken string) bool {
	key := sendKey(senderID, clientToken)

	ob.mu.Lock()
	defer ob.mu.Unlock()
	entry, ok := ob.entries[key]
	if !ok || entry.State == common.DeliveryPending {
		return false
	}
	delete(ob.entries, key)
	return true
}

func (ob *Outbox) Shutdown() {
	ob.cancel()
	ob.wg.Wait()
	log.Println("Outbox shutdown complete")
}

func (ob *Outbox) worker() {
	defer ob.wg.Done()

	for {
		select {
		case key := <-ob.queue:
			ob.process(key)
		case <-ob.ctx.Done():
			return
		}
	}
}

// process drives one entry through submit-with-retry. Only transient
// errors consume the retry budget; terminal errors fail immediately.
func (ob *Outbox) process(key string) {
	ob.mu.RLock()
	entry, ok := ob.entries[key]
	if !ok {
		ob.mu.RUnlock()
		return
	}
	req := entry.Request
	ob.mu.RUnlock()

	var lastErr error
	for attempt := 0; attempt <= ob.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(ob.retryDelay):
			case <-ob.ctx.Done():
				return
			}
		}

		msg, err := ob.transport.Submit(ob.ctx, req)
		ob.recordAttempt(key)
		if err == nil {
			ob.transition(key, common.DeliveryConfirmed, msg.ID, "")
			return
		}

		lastErr = err
		if !common.IsRetryable(err) {
			break
		}
		log.Printf("Send attempt %d for token %s failed: %v", attempt+1, req.ClientToken, err)
	}

	ob.transition(key, common.DeliveryFailed, 0, lastErr.Error())
}

func (ob *Outbox) recordAttempt(key string) {
	ob.mu.Lock()
	if entry, ok := ob.entries[key]; ok {
		entry.Attempts++
		entry.UpdatedAt = time.Now().UTC()
	}
	ob.mu.Unlock()
}

func (ob *Outbox) transition(key string, state common.DeliveryState, messageID uint64, lastError string) {
	ob.mu.Lock()
	entry, ok := ob.entries[key]
	if !ok {
		ob.mu.Unlock()
		return
	}
	entry.State = state
	entry.MessageID = messageID
	entry.LastError = lastError
	entry.UpdatedAt = time.Now().UTC()
	snapshot := *entry
	ob.mu.Unlock()

	ob.NotifyAsync(ob.eventFor(&snapshot))
}

func (ob *Outbox) dispatchEvents() {
	defer ob.wg.Done()

	for {
		select {
		case event := <-ob.eventChannel:
			ob.Notify(event)
		case <-ob.ctx.Done():
			return
		}
	}
}

func (ob *Outbox) eventFor(entry *Entry) common.DeliveryEvent {
	return common.DeliveryEvent{
		ClientToken:    entry.Request.ClientToken,
		ConversationID: entry.Request.ConversationID,
		GroupID:        entry.Request.GroupID,
		SenderID:       entry.Request.SenderID,
		State:          entry.State,
		MessageID:      entry.MessageID,
		Attempts:       entry.Attempts,
		Error:          entry.LastError,
		OccurredAt:     entry.UpdatedAt,
	}
}
