package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gadgetwall/backoffice/internal/domain"
)

type fakeFinder struct {
	text       string
	chunks     []domain.GroundingChunk
	err        error
	lastPrompt string
}

func (f *fakeFinder) GenerateGrounded(_ context.Context, prompt string) (string, []domain.GroundingChunk, error) {
	f.lastPrompt = prompt
	return f.text, f.chunks, f.err
}

func chunk(uri string) domain.GroundingChunk {
	var c domain.GroundingChunk
	c.Web.URI = uri
	return c
}

func TestExtractLeadsArrayInProse(t *testing.T) {
	raw := "Here is what I found:\n" +
		`[{"title": "Shop owner in Porto", "snippet": "looking for chargers", "intentScore": 90, "fitScore": 80, "platform": "forum"}]` +
		"\nLet me know if you need more."
	leads := ExtractLeads(raw)
	require.Len(t, leads, 1)
	require.Equal(t, "Shop owner in Porto", leads[0].Title)
	require.Equal(t, 90.0, leads[0].IntentScore)
}

func TestExtractLeadsFencedArray(t *testing.T) {
	raw := "```json\n[{\"title\": \"Lisbon reseller\"}]\n```"
	leads := ExtractLeads(raw)
	require.Len(t, leads, 1)
	require.Equal(t, "Lisbon reseller", leads[0].Title)
}

func TestExtractLeadsObjectShapes(t *testing.T) {
	leads := ExtractLeads(`{"leads": [{"title": "A"}, {"title": "B"}]}`)
	require.Len(t, leads, 2)

	leads = ExtractLeads(`{"results": [{"title": "C"}]}`)
	require.Len(t, leads, 1)

	leads = ExtractLeads(`{"title": "Solo lead", "snippet": "wants phones"}`)
	require.Len(t, leads, 1)
	require.Equal(t, "Solo lead", leads[0].Title)
}

func TestExtractLeadsUnparseableGivesEmptySet(t *testing.T) {
	for _, raw := range []string{"", "no json here", "[broken", "{\"title\": }"} {
		leads := ExtractLeads(raw)
		require.NotNil(t, leads)
		require.Empty(t, leads, "raw: %q", raw)
	}
}

func TestDiscoverBackfillsSourceURLs(t *testing.T) {
	finder := &fakeFinder{
		text: `[{"title": "A"}, {"title": "B", "sourceUrl": "https://keep.example"}, {"title": "C"}, {"title": "D"}]`,
		chunks: []domain.GroundingChunk{
			chunk("https://one.example"),
			chunk("https://two.example"),
			chunk("https://three.example"),
		},
	}
	uc := &LeadsUC{Finder: finder}
	leads, err := uc.Discover(context.Background(), "accessory buyers", "en")
	require.NoError(t, err)
	require.Len(t, leads, 4)
	// positional: lead i takes citation i only when its own URL is empty
	require.Equal(t, "https://one.example", leads[0].SourceURL)
	require.Equal(t, "https://keep.example", leads[1].SourceURL)
	require.Equal(t, "https://three.example", leads[2].SourceURL)
	// no citation left for the fourth
	require.Empty(t, leads[3].SourceURL)
}

func TestDiscoverPropagatesCallErrors(t *testing.T) {
	wantErr := &domain.APIError{Kind: domain.ErrKindNetwork, Err: errors.New("dial timeout")}
	uc := &LeadsUC{Finder: &fakeFinder{err: wantErr}}
	_, err := uc.Discover(context.Background(), "anything", "en")
	require.Error(t, err)
	require.Equal(t, domain.ErrKindNetwork, domain.KindOf(err))
}

func TestDiscoverPromptLanguage(t *testing.T) {
	finder := &fakeFinder{text: "[]"}
	uc := &LeadsUC{Finder: finder}

	_, err := uc.Discover(context.Background(), "phone buyers", "pt")
	require.NoError(t, err)
	require.Contains(t, finder.lastPrompt, "Portuguese (PT-PT)")
	require.Contains(t, finder.lastPrompt, `"phone buyers"`)

	_, err = uc.Discover(context.Background(), "phone buyers", "en")
	require.NoError(t, err)
	require.Contains(t, finder.lastPrompt, "English")
}
