package usecase

import (
	"strings"
	"testing"

	"github.com/gadgetwall/backoffice/internal/domain"
)

func TestBuildSystemPromptListsCatalog(t *testing.T) {
	prompt := BuildSystemPrompt([]domain.Product{
		{Name: "iPhone 15 128GB", Category: "Phone", Price: 829, Stock: 12, Brand: "Apple"},
	})
	if !strings.Contains(prompt, "- iPhone 15 128GB (Phone): €829.00. Stock: 12. Brand: Apple") {
		t.Fatalf("catalog line missing from prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"invoice_data"`) {
		t.Fatal("invoice contract missing from prompt")
	}
	if !strings.Contains(prompt, "Gadget Wall AI Sales Strategist") {
		t.Fatal("persona missing from prompt")
	}
}
