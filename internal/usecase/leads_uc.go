package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gadgetwall/backoffice/internal/domain"
)

// LeadsUC runs grounded lead-discovery queries. Results are ephemeral and
// rebuilt on every call.
type LeadsUC struct {
	Finder domain.GroundedGenerator
}

// Discover asks the model for prospect leads with web search enabled. A
// transport or auth failure of the call propagates to the caller; a reply that
// merely fails to parse yields an empty result set instead. Leads missing a
// source URL are back-filled positionally from the grounding citations.
func (uc *LeadsUC) Discover(ctx context.Context, query, lang string) ([]domain.Lead, error) {
	raw, grounding, err := uc.Finder.GenerateGrounded(ctx, buildLeadPrompt(query, lang))
	if err != nil {
		return nil, err
	}
	leads := ExtractLeads(raw)
	for i := range leads {
		if leads[i].SourceURL == "" && i < len(grounding) && grounding[i].Web.URI != "" {
			leads[i].SourceURL = grounding[i].Web.URI
		}
	}
	return leads, nil
}

func buildLeadPrompt(query, lang string) string {
	outreachLang := "English"
	if lang == "pt" {
		outreachLang = "Portuguese (PT-PT)"
	}
	return fmt.Sprintf(`Act as an AI Lead Discovery Engine for Gadget Wall, a mobile electronics business in Portugal.
User Query: %q
Target Language: %s

Perform the following actions:
1. Search for potential customers, retail buyers, or B2B shop owners looking for mobile phones or accessories in Europe (focusing on Portugal/Spain).
2. Analyze search results to identify "High Intent" leads (e.g., social media posts, forum questions, marketplace requests).
3. For each found lead, provide:
   - A title/name
   - A snippet of their request
   - An "Intent Score" (1-100)
   - A "Fit Score" (1-100) based on Gadget Wall's catalog (phones and accessories)
   - A personalized outreach message in %s.

Format your response as a JSON array of objects with fields:
title, snippet, intentScore, fitScore, outreachMessage, sourceUrl, platform.
Ensure you extract real URLs from the search results.`, query, lang, outreachLang)
}

// ExtractLeads pulls a lead list out of raw model text. The reply may wrap the
// JSON in prose or code fences, and the shape has drifted between a bare array
// and an object carrying one, so both are accepted. Anything unparseable maps
// to an empty list, never an error.
func ExtractLeads(raw string) []domain.Lead {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	if s := substringBetween(text, '[', ']'); s != "" {
		var leads []domain.Lead
		if err := json.Unmarshal([]byte(s), &leads); err == nil {
			return leads
		}
	}
	if s := substringBetween(text, '{', '}'); s != "" {
		var wrapper struct {
			Leads   []domain.Lead `json:"leads"`
			Results []domain.Lead `json:"results"`
		}
		if err := json.Unmarshal([]byte(s), &wrapper); err == nil {
			if len(wrapper.Leads) > 0 {
				return wrapper.Leads
			}
			if len(wrapper.Results) > 0 {
				return wrapper.Results
			}
		}
		var single domain.Lead
		if err := json.Unmarshal([]byte(s), &single); err == nil && single.Title != "" {
			return []domain.Lead{single}
		}
	}
	log.Debug().Str("raw", truncate(raw, 200)).Msg("no parseable lead JSON in response")
	return []domain.Lead{}
}

// substringBetween returns the widest slice from the first open delimiter to
// the last close delimiter.
func substringBetween(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
