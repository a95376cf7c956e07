package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gadgetwall/backoffice/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client talks to the Gemini generateContent endpoint directly. The chat API is
// stateless, so conversations replay their transcript on every send.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-3-pro-preview"
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// NewWithBaseURL is for tests pointing at a stub server.
func NewWithBaseURL(apiKey, model, baseURL string) *Client {
	c := New(apiKey, model)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"response_mime_type,omitempty"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []domain.GroundingChunk `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, req generateRequest) (*generateResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, &domain.APIError{Kind: domain.ErrKindMissingCredential, Err: fmt.Errorf("gemini: API key not set")}
	}
	buf, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.ErrKindNetwork, Err: fmt.Errorf("gemini: %w", err)}
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, classifyStatus(res.StatusCode, body)
	}
	var out generateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, &domain.APIError{Kind: domain.ErrKindGeneric, Err: fmt.Errorf("gemini: decode response: %w", err)}
	}
	if len(out.Candidates) == 0 {
		return nil, &domain.APIError{Kind: domain.ErrKindGeneric, Err: fmt.Errorf("gemini: empty response")}
	}
	return &out, nil
}

func classifyStatus(code int, body []byte) error {
	err := fmt.Errorf("gemini: status %d: %s", code, string(body))
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &domain.APIError{Kind: domain.ErrKindBadCredential, Err: err}
	case code == http.StatusBadRequest && bytes.Contains(body, []byte("API key not valid")):
		return &domain.APIError{Kind: domain.ErrKindBadCredential, Err: err}
	case code == http.StatusNotFound:
		// "Requested entity was not found": model gone or key lacks access.
		return &domain.APIError{Kind: domain.ErrKindModelUnavailable, Err: err}
	default:
		return &domain.APIError{Kind: domain.ErrKindGeneric, Err: err}
	}
}

func (r *generateResponse) text() string {
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Start opens a conversation with the given system instruction at the sales
// temperature used by the storefront assistant.
func (c *Client) Start(ctx context.Context, systemPrompt string) (domain.Conversation, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, &domain.APIError{Kind: domain.ErrKindMissingCredential, Err: fmt.Errorf("gemini: API key not set")}
	}
	return &conversation{client: c, system: systemPrompt}, nil
}

type conversation struct {
	client *Client
	system string

	mu      sync.Mutex
	history []content
}

func (cv *conversation) Send(ctx context.Context, message string) (string, error) {
	cv.mu.Lock()
	contents := make([]content, len(cv.history), len(cv.history)+1)
	copy(contents, cv.history)
	cv.mu.Unlock()
	contents = append(contents, content{Role: "user", Parts: []part{{Text: message}}})

	res, err := cv.client.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: cv.system}}},
		Contents:          contents,
		GenerationConfig:  &generationConfig{Temperature: 0.6},
	})
	if err != nil {
		return "", err
	}
	reply := res.text()

	cv.mu.Lock()
	cv.history = append(contents, content{Role: "model", Parts: []part{{Text: reply}}})
	cv.mu.Unlock()
	return reply, nil
}

// GenerateGrounded runs a one-shot generation with the web-search tool enabled
// and returns the citation list alongside the text.
func (c *Client) GenerateGrounded(ctx context.Context, prompt string) (string, []domain.GroundingChunk, error) {
	res, err := c.generate(ctx, generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		Tools:    []tool{{}},
	})
	if err != nil {
		return "", nil, err
	}
	var chunks []domain.GroundingChunk
	if gm := res.Candidates[0].GroundingMetadata; gm != nil {
		chunks = gm.GroundingChunks
	}
	return res.text(), chunks, nil
}
