package poller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JException/mentee-hotline/internal/models"
	"github.com/JException/mentee-hotline/internal/presence"
	"github.com/JException/mentee-hotline/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal stand-in for the HTTP API: canned responses,
// plus a record of what the client sent.
type fakeServer struct {
	mu             sync.Mutex
	counts         map[int]int
	messages       []services.MessageView
	heartbeatFails int
	heartbeatCalls int
	presenceEvents []string
	sentContents   []string
	authHeaders    []string

	srv *httptest.Server
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{counts: map[int]int{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/verify":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "test-token",
			"participant": services.SessionContext{
				ParticipantID: 7, Name: "Group 3 Representative", Role: models.RoleMember, GroupNum: 3,
			},
		})

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/heartbeat":
		f.mu.Lock()
		f.heartbeatCalls++
		fail := f.heartbeatFails > 0
		if fail {
			f.heartbeatFails--
		}
		counts := f.counts
		f.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "heartbeat service unavailable"})
			return
		}
		json.NewEncoder(w).Encode(counts)

	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/messages":
		f.mu.Lock()
		msgs := f.messages
		f.mu.Unlock()
		if msgs == nil {
			msgs = []services.MessageView{}
		}
		json.NewEncoder(w).Encode(msgs)

	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/messages":
		var body struct {
			Content string `json:"content"`
			Event   string `json:"event"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		if body.Event != "" {
			f.presenceEvents = append(f.presenceEvents, body.Event)
		} else {
			f.sentContents = append(f.sentContents, body.Content)
		}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(services.MessageView{Content: body.Content})

	case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/messages":
		json.NewEncoder(w).Encode(map[string]string{"message": "updated"})

	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/tickets":
		w.Write([]byte(`[{"id":1,"title":"Printer broken"}]`))

	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}
}

func (f *fakeServer) recordedEvents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.presenceEvents...)
}

func (f *fakeServer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heartbeatCalls
}

func newTestPoller(t *testing.T, f *fakeServer) (*Poller, *Session) {
	t.Helper()
	client := NewClient(f.srv.URL)
	session, err := Login(client, "331407")
	require.NoError(t, err)
	return New(client, session, time.Hour, time.Hour), session
}

func TestLoginBindsToken(t *testing.T) {
	f := newFakeServer(t)
	client := NewClient(f.srv.URL)

	session, err := Login(client, "331407")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, session.Role)
	assert.Equal(t, 3, session.GroupNum)
	assert.False(t, session.IsMentor())

	_, err = client.Heartbeat()
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.authHeaders, 2)
	assert.Empty(t, f.authHeaders[0]) // verify itself is unauthenticated
	assert.Equal(t, "Bearer test-token", f.authHeaders[1])
}

func TestHeartbeatCycleUpdatesCounts(t *testing.T) {
	f := newFakeServer(t)
	f.counts = map[int]int{3: 1, 5: 2}
	p, _ := newTestPoller(t, f)

	p.heartbeatCycle()
	assert.Equal(t, map[int]int{3: 1, 5: 2}, p.OnlineCounts())
}

func TestHeartbeatCycleRetriesOnce(t *testing.T) {
	f := newFakeServer(t)
	f.counts = map[int]int{3: 1}
	f.heartbeatFails = 1
	p, _ := newTestPoller(t, f)

	p.heartbeatCycle()
	assert.Equal(t, 2, f.calls())
	assert.Equal(t, map[int]int{3: 1}, p.OnlineCounts())

	// Two consecutive failures give up until the next tick.
	f.mu.Lock()
	f.heartbeatFails = 2
	f.counts = map[int]int{3: 9}
	f.mu.Unlock()
	p.heartbeatCycle()
	assert.Equal(t, map[int]int{3: 1}, p.OnlineCounts())
}

func TestHeartbeatSkippedWhileOffline(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	before := f.calls()

	p.SetOnline(false)
	p.heartbeatCycle()
	assert.Equal(t, before, f.calls())
}

// Responses must land in sequence order, not arrival order: a slow fetch
// resolving after a newer one is discarded.
func TestApplyMessagesDiscardsStale(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)

	newer := []services.MessageView{
		{Content: "hello", Kind: models.MessageKindChat, Sender: services.SenderInfo{Role: models.RoleMentor}},
	}
	older := []services.MessageView{
		{Content: "stale view", Kind: models.MessageKindChat, Sender: services.SenderInfo{Role: models.RoleMember}},
	}

	p.applyMessages(2, newer)
	p.applyMessages(1, older)

	msgs := p.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
	// The partner status tracks the applied fetch, not the discarded one.
	assert.Equal(t, presence.StatusOnline, p.PartnerStatus())
}

func TestSelectGroupInvalidatesInFlight(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)

	p.mu.Lock()
	p.seq = 3 // as if a fetch for the old group is still in flight
	p.mu.Unlock()

	p.SelectGroup(5)

	p.applyMessages(3, []services.MessageView{{Content: "old group"}})
	assert.Empty(t, p.Messages())
	assert.Equal(t, presence.StatusOffline, p.PartnerStatus())
}

func TestEnterChatAnnouncesJoinAndPrimes(t *testing.T) {
	f := newFakeServer(t)
	f.messages = []services.MessageView{
		{Content: "welcome", Kind: models.MessageKindChat, Sender: services.SenderInfo{Name: "Mentor", Role: models.RoleMentor}},
	}
	p, _ := newTestPoller(t, f)

	p.EnterChat()
	assert.Equal(t, []string{models.PresenceEventJoined}, f.recordedEvents())
	require.Len(t, p.Messages(), 1)
	assert.Equal(t, presence.StatusOnline, p.PartnerStatus())
	assert.True(t, p.shouldFetchMessages())

	p.LeaveChat()
	assert.False(t, p.shouldFetchMessages())
}

func TestMessageGateRequiresVisibility(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	p.EnterChat()

	p.SetVisible(false)
	assert.False(t, p.shouldFetchMessages())
	p.SetVisible(true)
	assert.True(t, p.shouldFetchMessages())

	p.SetOnline(false)
	assert.False(t, p.shouldFetchMessages())
}

func TestSendWhileOffline(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)

	p.SetOnline(false)
	assert.ErrorIs(t, p.Send("hello"), ErrOffline)
	assert.ErrorIs(t, p.TogglePin(1, false), ErrOffline)
	assert.ErrorIs(t, p.RefreshTickets(), ErrOffline)
}

func TestSendPostsAndRefreshes(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	p.EnterChat()

	require.NoError(t, p.Send("hello mentor"))

	f.mu.Lock()
	sent := append([]string(nil), f.sentContents...)
	f.mu.Unlock()
	assert.Equal(t, []string{"hello mentor"}, sent)
}

func TestRefreshTickets(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)

	require.NoError(t, p.RefreshTickets())
	assert.JSONEq(t, `[{"id":1,"title":"Printer broken"}]`, string(p.Tickets()))
}

func TestLogoutAnnouncesDisconnect(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	p.EnterChat()

	p.Logout()
	assert.Equal(t, []string{models.PresenceEventJoined, models.PresenceEventLeft}, f.recordedEvents())

	// Stop is idempotent.
	p.Stop()
}

func TestLogoutSkipsAnnouncementOffline(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	p.EnterChat()

	p.SetOnline(false)
	p.Logout()
	assert.Equal(t, []string{models.PresenceEventJoined}, f.recordedEvents())
}

func TestNotifyTabCloseFiresAsync(t *testing.T) {
	f := newFakeServer(t)
	p, _ := newTestPoller(t, f)
	p.EnterChat()

	p.NotifyTabClose()
	require.Eventually(t, func() bool {
		events := f.recordedEvents()
		return len(events) == 2 && events[1] == models.PresenceEventLeft
	}, 2*time.Second, 10*time.Millisecond)
}
