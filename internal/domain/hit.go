// Package domain holds the request-scoped value types shared between layers:
// search hits, the response bundle, and the embedding contracts.
package domain

import "strconv"

// Payload is the metadata stored alongside a vector. Every field is optional
// at the wire level; Normalize substitutes defaults for absent keys.
type Payload struct {
	Text            string `json:"text"`
	Source          string `json:"source"`
	ChunkIndex      int    `json:"chunk_index"`
	TotalChunks     int    `json:"total_chunks"`
	UploadTimestamp string `json:"upload_timestamp,omitempty"`
}

// Hit is one normalized retrieved neighbor.
type Hit struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

// RawHit is one neighbor as returned by the vector index, before
// normalization. The backend's native identifier (uuid or numeric) is already
// coerced to its string representation by the search client.
type RawHit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// SearchResponse is the aggregate returned to the caller. Results keep the
// backend's rank order; Error is set only when the whole retrieval was
// aborted.
type SearchResponse struct {
	Query      string `json:"query"`
	Results    []Hit  `json:"results"`
	AIResponse string `json:"aiResponse,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Normalize maps a raw hit into the stable Hit shape. It is total: unknown or
// missing payload fields resolve to type-appropriate defaults. The source
// label prefers a "file_name" key over "source".
func Normalize(raw RawHit) Hit {
	p := Payload{
		Text:            payloadString(raw.Payload, "text"),
		ChunkIndex:      payloadInt(raw.Payload, "chunk_index"),
		TotalChunks:     payloadInt(raw.Payload, "total_chunks"),
		UploadTimestamp: payloadString(raw.Payload, "upload_timestamp"),
	}

	if fn := payloadString(raw.Payload, "file_name"); fn != "" {
		p.Source = fn
	} else {
		p.Source = payloadString(raw.Payload, "source")
	}

	return Hit{ID: raw.ID, Score: raw.Score, Payload: p}
}

func payloadString(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
