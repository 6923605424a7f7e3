package query

import (
	"fmt"
	"strings"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
)

// passageLimit is the hard character cut applied to each passage before it
// enters the context block. No ellipsis, no word-boundary awareness.
const passageLimit = 800

// BuildContext renders the first maxResults hits, in the order supplied,
// into the textual grounding block. Blocks carry the 1-based rank, the score
// to 3 decimals, the source label, the 1-based chunk position, and the
// truncated passage. No deduplication by source.
func BuildContext(hits []domain.Hit, maxResults int) string {
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Result %d] (score: %.3f)\nSource: %s (chunk %d of %d)\n%s",
			i+1, h.Score,
			h.Payload.Source, h.Payload.ChunkIndex+1, h.Payload.TotalChunks,
			truncate(h.Payload.Text, passageLimit))
	}
	return b.String()
}

// truncate hard-cuts s to at most limit characters (runes, so multi-byte
// text is never split mid-character).
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
