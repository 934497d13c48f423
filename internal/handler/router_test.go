package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	middlewarePkg "github.com/zhouzirui/pirate-chat/internal/middleware"
	"github.com/zhouzirui/pirate-chat/internal/model/persona"
	"github.com/zhouzirui/pirate-chat/internal/service/ai"
	chatService "github.com/zhouzirui/pirate-chat/internal/service/chat"
)

func newTestRouter(limiter *middlewarePkg.IPLimiter) http.Handler {
	store := persona.NewMemoryStore(persona.Seed())
	chatSvc := chatService.NewService(ai.NewEchoGenerator(), 50)
	return NewRouter(store, chatSvc, limiter)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := newTestRouter(nil)

	for _, path := range []string{"/healthz", "/metrics", "/api/personas"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestRouterConversationRoundTrip(t *testing.T) {
	r := newTestRouter(middlewarePkg.NewIPLimiter(100, 100))

	body, _ := json.Marshal(map[string]string{"personaId": "pirate"})
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		t.Fatalf("decode: %v", err)
	}

	body, _ = json.Marshal(map[string]string{"content": "Ahoy"})
	req = httptest.NewRequestWithContext(context.Background(), http.MethodPost, "/api/session/"+session.ID+"/messages", bytes.NewReader(body))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reply struct {
		Label string `json:"label"`
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Label != "Pirate Bot" || reply.Reply != "Echo: Ahoy" {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestRouterRateLimitsMessages(t *testing.T) {
	r := newTestRouter(middlewarePkg.NewIPLimiter(0.001, 1))

	var last int
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/session/missing/messages", bytes.NewReader([]byte(`{"content":"hi"}`)))
		req.RemoteAddr = "192.0.2.10:1234"
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		last = resp.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", last)
	}
}
