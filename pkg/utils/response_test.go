package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusTeapot, "no rum")

	if resp.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "no rum" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	big := `{"content":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(big)))
	resp := httptest.NewRecorder()

	var payload struct {
		Content string `json:"content"`
	}
	if err := DecodeJSON(resp, req, &payload); err == nil {
		t.Fatal("expected error for oversized body")
	}
}
