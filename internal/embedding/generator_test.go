package embedding

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fredygallego8/wayuulingo-api/internal/domain"
)

type mockProvider struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	m.called = true
	return m.vec, m.err
}

func makeVec(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = float32(i) / float32(n)
	}
	return v
}

func TestGenerator_PrimaryExactDim(t *testing.T) {
	prov := &mockProvider{vec: makeVec(testDim)}
	gen := NewGenerator(prov, testDim, zap.NewNop())

	vec := gen.Embed(context.Background(), "hello")
	if len(vec) != testDim {
		t.Fatalf("expected %d components, got %d", testDim, len(vec))
	}
	if !prov.called {
		t.Error("expected primary provider to be called")
	}
	if vec[1] != prov.vec[1] {
		t.Error("primary vector should pass through unchanged")
	}
}

func TestGenerator_TruncatesLongerVector(t *testing.T) {
	prov := &mockProvider{vec: makeVec(768)}
	gen := NewGenerator(prov, testDim, zap.NewNop())

	vec := gen.Embed(context.Background(), "hello")
	if len(vec) != testDim {
		t.Fatalf("expected truncation to %d, got %d", testDim, len(vec))
	}
	// Front-truncation keeps the leading components untouched.
	for i := 0; i < testDim; i++ {
		if vec[i] != prov.vec[i] {
			t.Fatalf("component %d changed after truncation", i)
		}
	}
}

func TestGenerator_FallbackOnProviderError(t *testing.T) {
	prov := &mockProvider{err: domain.ErrEmbeddingProviderError}
	gen := NewGenerator(prov, testDim, zap.NewNop())

	vec := gen.Embed(context.Background(), "how do you say hello")
	if len(vec) != testDim {
		t.Fatalf("expected fallback vector of %d components, got %d", testDim, len(vec))
	}

	want := Fallback("how do you say hello", testDim)
	for i := range vec {
		if vec[i] != want[i] {
			t.Fatal("error path must produce the deterministic fallback vector")
		}
	}
}

func TestGenerator_FallbackOnShortVector(t *testing.T) {
	prov := &mockProvider{vec: makeVec(128)}
	gen := NewGenerator(prov, testDim, zap.NewNop())

	vec := gen.Embed(context.Background(), "short vector text")
	want := Fallback("short vector text", testDim)
	for i := range vec {
		if vec[i] != want[i] {
			t.Fatal("short primary vector must trigger the fallback, not padding")
		}
	}
}

func TestGenerator_NeverFails(t *testing.T) {
	prov := &mockProvider{err: errors.New("network unreachable")}
	gen := NewGenerator(prov, testDim, zap.NewNop())

	// Even an empty query with a failing provider yields a well-formed vector.
	vec := gen.Embed(context.Background(), "")
	if len(vec) != testDim {
		t.Fatalf("expected %d components, got %d", testDim, len(vec))
	}
}
