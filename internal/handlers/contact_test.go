package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/models"
)

type mailRecorder struct {
	calls []models.ContactRequest
	id    string
	err   error
}

func (m *mailRecorder) SendContactEmail(ctx context.Context, req models.ContactRequest) (string, error) {
	m.calls = append(m.calls, req)
	return m.id, m.err
}

func postContact(t *testing.T, h *ContactHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/forward", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Forward(rr, req)
	return rr
}

func TestForward_EmptyMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"whitespace only", "   \t\n "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mail := &mailRecorder{}
			h := NewContactHandler(mail, zerolog.Nop())

			body, _ := json.Marshal(models.ContactRequest{Name: "Bob", Email: "b@x.com", Message: tc.message})
			rr := postContact(t, h, body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}

			var resp models.ContactResponse
			json.NewDecoder(rr.Body).Decode(&resp)
			if resp.OK {
				t.Error("expected ok:false")
			}
			if resp.Error != "Empty message" {
				t.Errorf("expected 'Empty message' error, got %q", resp.Error)
			}
			if len(mail.calls) != 0 {
				t.Errorf("mail must not be invoked, got %d calls", len(mail.calls))
			}
		})
	}
}

func TestForward_InvalidJSON(t *testing.T) {
	mail := &mailRecorder{}
	h := NewContactHandler(mail, zerolog.Nop())

	rr := postContact(t, h, []byte(`{"name": "broken`))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	var resp models.ContactResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.OK || resp.Error == "" {
		t.Errorf("expected ok:false with error, got %+v", resp)
	}
	if len(mail.calls) != 0 {
		t.Error("mail must not be invoked on malformed body")
	}
}

func TestForward_InvokesMailOnceWithReplyTo(t *testing.T) {
	mail := &mailRecorder{id: "msg-1"}
	h := NewContactHandler(mail, zerolog.Nop())

	body, _ := json.Marshal(models.ContactRequest{Name: "Alice", Email: "a@x.com", Message: "Hello"})
	rr := postContact(t, h, body)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(mail.calls) != 1 {
		t.Fatalf("expected exactly one mail invocation, got %d", len(mail.calls))
	}
	if mail.calls[0].Email != "a@x.com" {
		t.Errorf("expected reply_to email a@x.com, got %q", mail.calls[0].Email)
	}

	var resp models.ContactResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if !resp.OK || resp.ID != "msg-1" {
		t.Errorf("expected {ok:true,id:msg-1}, got %+v", resp)
	}
}

func TestForward_NoDeduplication(t *testing.T) {
	mail := &mailRecorder{}
	h := NewContactHandler(mail, zerolog.Nop())

	body, _ := json.Marshal(models.ContactRequest{Name: "Alice", Email: "a@x.com", Message: "Hello"})

	const n = 3
	for i := 0; i < n; i++ {
		rr := postContact(t, h, body)
		if rr.Code != http.StatusOK {
			t.Fatalf("submission %d: expected 200, got %d", i, rr.Code)
		}
	}

	if len(mail.calls) != n {
		t.Errorf("expected %d independent mail sends, got %d", n, len(mail.calls))
	}
}

func TestForward_ProviderFailure(t *testing.T) {
	mail := &mailRecorder{err: errors.New("invalid sender domain")}
	h := NewContactHandler(mail, zerolog.Nop())

	body, _ := json.Marshal(models.ContactRequest{Name: "Alice", Email: "a@x.com", Message: "Hello"})
	rr := postContact(t, h, body)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}

	var resp models.ContactResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.OK {
		t.Error("expected ok:false")
	}
	if resp.Error != "invalid sender domain" {
		t.Errorf("expected provider message surfaced, got %q", resp.Error)
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("expected ok:true, got %v", body["ok"])
	}
	if _, ok := body["ts"].(float64); !ok {
		t.Errorf("expected numeric ts, got %T", body["ts"])
	}
}
