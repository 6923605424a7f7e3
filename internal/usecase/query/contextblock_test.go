package query

import (
	"strings"
	"testing"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
)

func makeHit(id string, score float64, source, text string, chunk, total int) domain.Hit {
	return domain.Hit{
		ID:    id,
		Score: score,
		Payload: domain.Payload{
			Text:        text,
			Source:      source,
			ChunkIndex:  chunk,
			TotalChunks: total,
		},
	}
}

func TestBuildContext_Format(t *testing.T) {
	hits := []domain.Hit{
		makeHit("1", 0.9123, "greetings.txt", "Anashi pia means hello.", 0, 3),
	}

	got := BuildContext(hits, 5)

	want := "[Result 1] (score: 0.912)\nSource: greetings.txt (chunk 1 of 3)\nAnashi pia means hello."
	if got != want {
		t.Errorf("unexpected block:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestBuildContext_TakesFirstN(t *testing.T) {
	hits := make([]domain.Hit, 8)
	for i := range hits {
		hits[i] = makeHit("id", 0.5, "doc.txt", "text", i, 8)
	}

	got := BuildContext(hits, 5)

	if strings.Count(got, "[Result ") != 5 {
		t.Errorf("expected 5 blocks, got %d", strings.Count(got, "[Result "))
	}
	if !strings.Contains(got, "[Result 5]") || strings.Contains(got, "[Result 6]") {
		t.Error("blocks must stop at maxResults")
	}
}

func TestBuildContext_TruncatesPassageAt800(t *testing.T) {
	long := strings.Repeat("x", 2500)
	hits := []domain.Hit{makeHit("1", 0.5, "doc.txt", long, 0, 1)}

	got := BuildContext(hits, 5)

	if strings.Count(got, "x") != 800 {
		t.Errorf("expected exactly 800 passage characters, got %d", strings.Count(got, "x"))
	}
	if strings.Contains(got, "...") {
		t.Error("no ellipsis marker should be added")
	}
}

func TestBuildContext_TruncationIsRuneSafe(t *testing.T) {
	long := strings.Repeat("ü", 900)
	hits := []domain.Hit{makeHit("1", 0.5, "doc.txt", long, 0, 1)}

	got := BuildContext(hits, 5)

	if !strings.HasSuffix(got, "ü") {
		t.Error("truncation must not split a multi-byte character")
	}
	if n := strings.Count(got, "ü"); n != 800 {
		t.Errorf("expected 800 runes of passage, got %d", n)
	}
}

func TestBuildContext_ShortPassageUnchanged(t *testing.T) {
	hits := []domain.Hit{makeHit("1", 0.5, "doc.txt", "short", 0, 1)}
	if !strings.HasSuffix(BuildContext(hits, 5), "short") {
		t.Error("short passages must pass through unchanged")
	}
}

func TestBuildContext_EmptyHits(t *testing.T) {
	if got := BuildContext(nil, 5); got != "" {
		t.Errorf("expected empty block for no hits, got %q", got)
	}
}

func TestBuildContext_DefaultsRenderWithoutPanic(t *testing.T) {
	// A hit normalized from an empty payload still renders a block.
	got := BuildContext([]domain.Hit{{ID: "x", Score: 0.1}}, 5)
	if !strings.Contains(got, "chunk 1 of 0") {
		t.Errorf("expected 1-based chunk over zero total, got %q", got)
	}
}

func TestBuildContext_NoSourceDeduplication(t *testing.T) {
	hits := []domain.Hit{
		makeHit("1", 0.9, "same.txt", "first", 0, 2),
		makeHit("2", 0.8, "same.txt", "second", 1, 2),
	}
	got := BuildContext(hits, 5)
	if strings.Count(got, "same.txt") != 2 {
		t.Error("hits from the same source must all be kept")
	}
}
