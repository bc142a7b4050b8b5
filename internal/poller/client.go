// Package poller is the client half of the system: it authenticates an
// access code into a session, then keeps a local view of messages, tickets
// and online counts eventually consistent with the server by periodic
// polling. There is no push requirement; the optional websocket stream
// only shortens the window the next poll would close anyway.
package poller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JException/mentee-hotline/internal/services"
)

// ErrOffline is returned when a send is suppressed because the client
// reported connectivity loss.
var ErrOffline = errors.New("client is offline")

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type VerifyResult struct {
	Token       string                   `json:"token"`
	Participant *services.SessionContext `json:"participant"`
}

func (c *Client) Verify(code string) (*VerifyResult, error) {
	var out VerifyResult
	err := c.call(http.MethodPost, "/api/v1/auth/verify", map[string]string{"code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Heartbeat records a beat for the authenticated participant and returns
// the per-group online counts.
func (c *Client) Heartbeat() (map[int]int, error) {
	var out map[int]int
	if err := c.call(http.MethodPost, "/api/v1/heartbeat", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Messages(group int) ([]services.MessageView, error) {
	var out []services.MessageView
	path := fmt.Sprintf("/api/v1/messages?group=%d", group)
	if err := c.call(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendMessage(group int, content string) (*services.MessageView, error) {
	var out services.MessageView
	body := map[string]interface{}{"group_num": group, "content": content}
	if err := c.call(http.MethodPost, "/api/v1/messages", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendPresence(group int, event string) error {
	body := map[string]interface{}{"group_num": group, "event": event}
	return c.call(http.MethodPost, "/api/v1/messages", body, nil)
}

func (c *Client) PinMessage(messageID uint, pinned bool) error {
	body := map[string]interface{}{"message_id": messageID, "is_pinned": pinned}
	return c.call(http.MethodPatch, "/api/v1/messages", body, nil)
}

func (c *Client) Tickets(group int) (json.RawMessage, error) {
	var out json.RawMessage
	path := fmt.Sprintf("/api/v1/tickets?group=%d", group)
	if err := c.call(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) TicketAction(body map[string]interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(http.MethodPatch, "/api/v1/tickets", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
	}
	return nil
}
