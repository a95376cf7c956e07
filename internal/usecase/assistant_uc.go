package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gadgetwall/backoffice/internal/domain"
)

// InvoiceData is the structured payload the model embeds in a reply when a
// sale is closed.
type InvoiceData struct {
	CustomerName string             `json:"customer_name"`
	Items        []domain.OrderItem `json:"items"`
	Total        float64            `json:"total"`
	Date         string             `json:"date"`
}

type ChatReply struct {
	Text    string         `json:"text"`
	Order   *domain.Order  `json:"order,omitempty"`
	Invoice *InvoiceResult `json:"invoice,omitempty"`
}

type InvoiceResult struct {
	Data      InvoiceData `json:"data"`
	Breakdown Breakdown   `json:"breakdown"`
}

// AssistantUC keeps one conversation handle per session and turns invoice
// payloads embedded in replies into ledger orders.
type AssistantUC struct {
	Model    domain.ChatModel
	Products domain.ProductRepo
	Orders   domain.OrderRepo

	mu    sync.Mutex
	convs map[string]domain.Conversation
}

func (uc *AssistantUC) conversation(sessionID string) domain.Conversation {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.convs[sessionID]
}

func (uc *AssistantUC) storeConversation(sessionID string, c domain.Conversation) {
	uc.mu.Lock()
	if uc.convs == nil {
		uc.convs = map[string]domain.Conversation{}
	}
	uc.convs[sessionID] = c
	uc.mu.Unlock()
}

// Reset drops the session's handle. An in-flight call is not cancelled; only
// its eventual effect is discarded.
func (uc *AssistantUC) Reset(sessionID string) {
	uc.mu.Lock()
	delete(uc.convs, sessionID)
	uc.mu.Unlock()
}

func (uc *AssistantUC) start(ctx context.Context) (domain.Conversation, error) {
	list, _, err := uc.Products.List(ctx, domain.ProductFilter{Page: 1, PageSize: 500})
	if err != nil {
		return nil, err
	}
	return uc.Model.Start(ctx, BuildSystemPrompt(list))
}

// SystemPrompt exposes the currently generated instruction for inspection.
func (uc *AssistantUC) SystemPrompt(ctx context.Context) (string, error) {
	list, _, err := uc.Products.List(ctx, domain.ProductFilter{Page: 1, PageSize: 500})
	if err != nil {
		return "", err
	}
	return BuildSystemPrompt(list), nil
}

// Send forwards the user's message on the session's conversation. A failed call
// restarts the handle once and retries; if that also fails the error is
// classified and degraded to a chat-message variant, never a transport error.
// Replies carrying an invoice_data block additionally append a confirmed Order
// to the ledger.
func (uc *AssistantUC) Send(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	conv := uc.conversation(sessionID)
	if conv == nil {
		c, err := uc.start(ctx)
		if err != nil {
			return &ChatReply{Text: userFacingError(err)}, nil
		}
		conv = c
		uc.storeConversation(sessionID, conv)
	}

	raw, err := conv.Send(ctx, message)
	if err != nil {
		log.Warn().Err(err).Msg("chat send failed, restarting conversation")
		c, startErr := uc.start(ctx)
		if startErr != nil {
			return &ChatReply{Text: userFacingError(startErr)}, nil
		}
		uc.storeConversation(sessionID, c)
		raw, err = c.Send(ctx, message)
		if err != nil {
			return &ChatReply{Text: userFacingError(err)}, nil
		}
	}

	clean, data := ExtractInvoiceData(raw)
	reply := &ChatReply{Text: clean}
	if reply.Text == "" {
		reply.Text = "Sorry, I could not process that. Could you rephrase?"
	}
	if data != nil {
		order := &domain.Order{
			ID:           fmt.Sprintf("ORD-%d", time.Now().UnixMilli()),
			CustomerName: data.CustomerName,
			Items:        data.Items,
			Total:        data.Total,
			Date:         data.Date,
			Status:       domain.OrderStatusConfirmed,
		}
		if err := uc.Orders.Append(ctx, order); err != nil {
			log.Error().Err(err).Str("order", order.ID).Msg("append order")
		} else {
			reply.Order = order
		}
		reply.Invoice = &InvoiceResult{Data: *data, Breakdown: ComputeBreakdown(data.Items).Rounded()}
	}
	return reply, nil
}

var invoiceRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\"invoice_data\".*?\\})\\s*```")

// ExtractInvoiceData pulls the first fenced invoice_data block out of a reply.
// An unparseable block is treated as plain text, not an error.
func ExtractInvoiceData(text string) (string, *InvoiceData) {
	m := invoiceRe.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}
	var wrapper struct {
		InvoiceData *InvoiceData `json:"invoice_data"`
	}
	if err := json.Unmarshal([]byte(m[1]), &wrapper); err != nil || wrapper.InvoiceData == nil {
		log.Debug().Err(err).Msg("invoice block present but unparseable")
		return text, nil
	}
	clean := strings.TrimSpace(invoiceRe.ReplaceAllString(text, ""))
	return clean, wrapper.InvoiceData
}

func userFacingError(err error) string {
	switch domain.KindOf(err) {
	case domain.ErrKindMissingCredential:
		return "The assistant is not configured yet: no API key is set for the AI service."
	case domain.ErrKindBadCredential:
		return "Invalid API key. Please verify the Gemini API key in the environment settings."
	case domain.ErrKindModelUnavailable:
		return "The AI model is currently unavailable or the API key does not have access to it."
	case domain.ErrKindNetwork:
		return "Network error: unable to connect to the AI service."
	default:
		return "Sorry, something went wrong talking to the assistant. Please try again."
	}
}
