package poller

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/presence"
	"github.com/JException/mentee-hotline/internal/services"
)

// Poller drives the periodic fetch cycles for one logged-in session:
// heartbeats every few seconds, the active group's messages while the chat
// view is open, tickets on demand. Cycle failures are logged and swallowed;
// the next tick simply tries again.
type Poller struct {
	client  *Client
	session *Session

	heartbeatEvery time.Duration
	messagesEvery  time.Duration

	mu         sync.Mutex
	group      int
	online     bool
	visible    bool
	chatActive bool
	messages   []services.MessageView
	counts     map[int]int
	partner    presence.Status
	tickets    json.RawMessage

	// Monotonic request sequencing: a fetch that resolves after a newer
	// one has already been applied is stale and must be discarded, since
	// there is no mid-flight cancellation.
	seq        uint64
	appliedSeq uint64

	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(client *Client, session *Session, heartbeatEvery, messagesEvery time.Duration) *Poller {
	return &Poller{
		client:         client,
		session:        session,
		heartbeatEvery: heartbeatEvery,
		messagesEvery:  messagesEvery,
		group:          session.GroupNum,
		online:         true,
		visible:        true,
		partner:        presence.StatusOffline,
		counts:         map[int]int{},
		stopCh:         make(chan struct{}),
	}
}

// Start launches the heartbeat and message cycles. Stop cancels both; a
// stopped poller never restarts.
func (p *Poller) Start() {
	go p.heartbeatLoop()
	go p.messageLoop()
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

func (p *Poller) heartbeatLoop() {
	p.heartbeatCycle()

	ticker := time.NewTicker(p.heartbeatEvery)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.heartbeatCycle()
		}
	}
}

func (p *Poller) heartbeatCycle() {
	if !p.Online() {
		return
	}

	counts, err := p.client.Heartbeat()
	if err != nil {
		// One immediate retry keeps a single dropped request from aging
		// the participant out of the online counts.
		counts, err = p.client.Heartbeat()
	}
	if err != nil {
		log.Printf("poller: heartbeat failed: %v", err)
		return
	}

	p.mu.Lock()
	p.counts = counts
	p.mu.Unlock()
}

func (p *Poller) messageLoop() {
	ticker := time.NewTicker(p.messagesEvery)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			if p.shouldFetchMessages() {
				p.fetchMessages()
			}
		}
	}
}

func (p *Poller) shouldFetchMessages() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online && p.visible && p.chatActive
}

func (p *Poller) fetchMessages() {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	group := p.group
	p.mu.Unlock()

	msgs, err := p.client.Messages(group)
	if err != nil {
		log.Printf("poller: message fetch failed: %v", err)
		return
	}

	p.applyMessages(seq, msgs)
}

// applyMessages installs a fetch result unless a newer one already landed.
// Last fetch wins, in sequence order rather than arrival order.
func (p *Poller) applyMessages(seq uint64, msgs []services.MessageView) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.appliedSeq {
		return
	}
	p.appliedSeq = seq
	p.messages = msgs
	p.partner = presence.Infer(toPresenceMessages(msgs), p.session.Role)
}

// EnterChat marks the chat view active, announces the join to the group
// and primes the local state without waiting for the first tick.
func (p *Poller) EnterChat() {
	p.mu.Lock()
	p.chatActive = true
	p.mu.Unlock()

	if p.Online() {
		if err := p.client.SendPresence(p.currentGroup(), models.PresenceEventJoined); err != nil {
			log.Printf("poller: join announcement failed: %v", err)
		}
	}
	p.fetchMessages()
}

// LeaveChat deactivates the message cycle without tearing the session down.
func (p *Poller) LeaveChat() {
	p.mu.Lock()
	p.chatActive = false
	p.mu.Unlock()
}

// SelectGroup switches the mentor's active group. Responses still in
// flight for the previous group are invalidated wholesale.
func (p *Poller) SelectGroup(group int) {
	p.mu.Lock()
	p.group = group
	p.appliedSeq = p.seq
	p.messages = nil
	p.partner = presence.StatusOffline
	active := p.chatActive && p.online
	p.mu.Unlock()

	if active {
		p.fetchMessages()
	}
}

// SetOnline records connectivity. Going offline gates future cycles; coming
// back does not resurrect a stopped poller, it only unblocks the gates.
func (p *Poller) SetOnline(online bool) {
	p.mu.Lock()
	p.online = online
	p.mu.Unlock()
}

func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

func (p *Poller) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Send posts a chat message and refreshes the local view immediately.
func (p *Poller) Send(content string) error {
	if !p.Online() {
		return ErrOffline
	}
	if _, err := p.client.SendMessage(p.currentGroup(), content); err != nil {
		return err
	}
	p.fetchMessages()
	return nil
}

// TogglePin flips a message's pinned flag and refreshes.
func (p *Poller) TogglePin(messageID uint, currentlyPinned bool) error {
	if !p.Online() {
		return ErrOffline
	}
	if err := p.client.PinMessage(messageID, !currentlyPinned); err != nil {
		return err
	}
	p.fetchMessages()
	return nil
}

// RefreshTickets fetches the ticket list on demand; tickets have no fixed
// timer cycle.
func (p *Poller) RefreshTickets() error {
	if !p.Online() {
		return ErrOffline
	}
	raw, err := p.client.Tickets(p.currentGroup())
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.tickets = raw
	p.mu.Unlock()
	return nil
}

// Logout announces the disconnect (best-effort, skipped offline) and stops
// all cycles. The session must not be reused afterwards.
func (p *Poller) Logout() {
	if p.Online() && p.chatActiveNow() {
		if err := p.client.SendPresence(p.currentGroup(), models.PresenceEventLeft); err != nil {
			log.Printf("poller: disconnect announcement failed: %v", err)
		}
	}
	p.Stop()
}

// NotifyTabClose fires the disconnect announcement without waiting for it,
// mirroring a keepalive beacon on page unload: shutdown must never block
// on the network.
func (p *Poller) NotifyTabClose() {
	if !p.Online() || !p.chatActiveNow() {
		return
	}
	group := p.currentGroup()
	go func() {
		if err := p.client.SendPresence(group, models.PresenceEventLeft); err != nil {
			log.Printf("poller: tab-close announcement failed: %v", err)
		}
	}()
}

// Messages returns a copy of the current local view.
func (p *Poller) Messages() []services.MessageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]services.MessageView, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *Poller) OnlineCounts() map[int]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[int]int, len(p.counts))
	for k, v := range p.counts {
		out[k] = v
	}
	return out
}

// PartnerStatus is the inferred presence of the chat counterpart, derived
// from the last applied message fetch.
func (p *Poller) PartnerStatus() presence.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.partner
}

func (p *Poller) Tickets() json.RawMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tickets
}

func (p *Poller) currentGroup() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.group
}

func (p *Poller) chatActiveNow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chatActive
}

func toPresenceMessages(msgs []services.MessageView) []presence.Message {
	out := make([]presence.Message, len(msgs))
	for i, m := range msgs {
		out[i] = presence.Message{
			SenderRole: m.Sender.Role,
			Kind:       m.Kind,
			Event:      m.Event,
			Content:    m.Content,
		}
	}
	return out
}
