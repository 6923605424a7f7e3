// Package qdrant implements the vector search client against a remote Qdrant
// collection over grpc.
package qdrant

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
	"github.com/fredygallego8/wayuulingo-api/internal/metrics"
)

// maxTopK is the hard ceiling on neighbors requested per search, regardless
// of the caller-supplied limit.
const maxTopK = 10

// Client is a Qdrant-backed similarity search client bound to one collection.
type Client struct {
	conn       *grpc.ClientConn
	points     pb.PointsClient
	qdrant     pb.QdrantClient
	collection string
	apiKey     string
}

// Config holds Qdrant connection settings.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// New connects to Qdrant. The connection is lazy; failures surface on the
// first search.
func New(cfg Config) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	creds := insecure.NewCredentials()
	if cfg.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}

	return &Client{
		conn:       conn,
		points:     pb.NewPointsClient(conn),
		qdrant:     pb.NewQdrantClient(conn),
		collection: cfg.Collection,
		apiKey:     cfg.APIKey,
	}, nil
}

// Search runs a nearest-neighbor query and returns scored hits with payload
// metadata. Stored vectors are not requested back. topK is clamped to
// maxTopK. Transport, auth, and collection-not-found failures propagate
// without retries.
func (c *Client) Search(ctx context.Context, vector []float32, topK int) ([]domain.RawHit, error) {
	if topK > maxTopK {
		topK = maxTopK
	}
	if topK < 1 {
		topK = 1
	}

	resp, err := c.points.Search(c.withAuth(ctx), &pb.SearchPoints{
		CollectionName: c.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
		WithVectors: &pb.WithVectorsSelector{
			SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: false},
		},
	})
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, c.collection)
		}
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()

	hits := make([]domain.RawHit, len(resp.Result))
	for i, pt := range resp.Result {
		hits[i] = domain.RawHit{
			ID:      pointIDString(pt.Id),
			Score:   float64(pt.Score),
			Payload: decodePayload(pt.Payload),
		}
	}
	return hits, nil
}

// HealthCheck pings the Qdrant instance.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.qdrant.HealthCheck(c.withAuth(ctx), &pb.HealthCheckRequest{}); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

// Close releases the grpc connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) withAuth(ctx context.Context) context.Context {
	if c.apiKey == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "api-key", c.apiKey)
}

// pointIDString coerces the backend-native identifier (uuid or numeric) to
// its string representation.
func pointIDString(id *pb.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// decodePayload converts grpc payload values into plain Go values for the
// normalizer. Nested kinds (lists, structs) are dropped.
func decodePayload(payload map[string]*pb.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		switch kind := v.Kind.(type) {
		case *pb.Value_StringValue:
			out[k] = kind.StringValue
		case *pb.Value_IntegerValue:
			out[k] = kind.IntegerValue
		case *pb.Value_DoubleValue:
			out[k] = kind.DoubleValue
		case *pb.Value_BoolValue:
			out[k] = kind.BoolValue
		}
	}
	return out
}
