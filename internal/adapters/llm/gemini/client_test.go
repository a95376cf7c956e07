package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gadgetwall/backoffice/internal/domain"
)

func stubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL("test-key", "test-model", srv.URL)
}

func textResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestConversationReplaysHistory(t *testing.T) {
	var lastReq generateRequest
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(textResponse("reply"))
	})

	conv, err := c.Start(context.Background(), "be helpful")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := conv.Send(context.Background(), "first"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := conv.Send(context.Background(), "second"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if lastReq.SystemInstruction == nil || lastReq.SystemInstruction.Parts[0].Text != "be helpful" {
		t.Fatal("system instruction not carried")
	}
	// user, model, user
	if len(lastReq.Contents) != 3 {
		t.Fatalf("contents = %d, want 3", len(lastReq.Contents))
	}
	if lastReq.Contents[1].Role != "model" || lastReq.Contents[1].Parts[0].Text != "reply" {
		t.Fatalf("history not replayed: %+v", lastReq.Contents)
	}
	if lastReq.GenerationConfig == nil || lastReq.GenerationConfig.Temperature != 0.6 {
		t.Fatal("chat temperature not set")
	}
}

func TestGenerateGroundedReturnsCitations(t *testing.T) {
	c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Tools) != 1 {
			t.Error("google_search tool not requested")
		}
		res := textResponse(`[{"title": "lead"}]`)
		res["candidates"].([]map[string]any)[0]["groundingMetadata"] = map[string]any{
			"groundingChunks": []map[string]any{
				{"web": map[string]any{"uri": "https://src.example", "title": "Source"}},
			},
		}
		_ = json.NewEncoder(w).Encode(res)
	})

	text, chunks, err := c.GenerateGrounded(context.Background(), "find leads")
	if err != nil {
		t.Fatalf("grounded: %v", err)
	}
	if text != `[{"title": "lead"}]` {
		t.Fatalf("text = %q", text)
	}
	if len(chunks) != 1 || chunks[0].Web.URI != "https://src.example" {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestMissingKeyClassification(t *testing.T) {
	c := New("", "")
	if _, err := c.Start(context.Background(), "x"); domain.KindOf(err) != domain.ErrKindMissingCredential {
		t.Fatalf("kind = %v, want missing credential", domain.KindOf(err))
	}
	if _, _, err := c.GenerateGrounded(context.Background(), "x"); domain.KindOf(err) != domain.ErrKindMissingCredential {
		t.Fatalf("kind = %v, want missing credential", domain.KindOf(err))
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   domain.ErrKind
	}{
		{401, "unauthorized", domain.ErrKindBadCredential},
		{403, "forbidden", domain.ErrKindBadCredential},
		{400, `{"error": {"message": "API key not valid"}}`, domain.ErrKindBadCredential},
		{400, `{"error": {"message": "bad request"}}`, domain.ErrKindGeneric},
		{404, "not found", domain.ErrKindModelUnavailable},
		{500, "boom", domain.ErrKindGeneric},
	}
	for _, tc := range cases {
		c := stubServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		_, _, err := c.GenerateGrounded(context.Background(), "x")
		if domain.KindOf(err) != tc.want {
			t.Fatalf("status %d: kind = %v, want %v", tc.status, domain.KindOf(err), tc.want)
		}
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	c := NewWithBaseURL("key", "model", "http://127.0.0.1:1")
	_, _, err := c.GenerateGrounded(context.Background(), "x")
	if domain.KindOf(err) != domain.ErrKindNetwork {
		t.Fatalf("kind = %v, want network", domain.KindOf(err))
	}
}
