package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockKV struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, ErrCacheMiss
}

func (m *mockKV) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func TestCachedProvider_Miss(t *testing.T) {
	inner := &mockProvider{vec: []float32{0.1, 0.2, 0.3}}
	kv := &mockKV{}

	var setCalled bool
	var stored []byte
	kv.setFn = func(_ context.Context, _ string, value []byte, _ time.Duration) error {
		setCalled = true
		stored = value
		return nil
	}

	cp := NewCachedProvider(inner, kv, time.Hour, zap.NewNop())
	vec, err := cp.Embed(context.Background(), "test text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if !inner.called {
		t.Error("miss must call the inner provider")
	}
	if !setCalled {
		t.Error("miss must store the vector")
	}
	if len(stored) != 12 {
		t.Errorf("expected 12 encoded bytes, got %d", len(stored))
	}
}

func TestCachedProvider_Hit(t *testing.T) {
	inner := &mockProvider{vec: []float32{9, 9, 9}}
	kv := &mockKV{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return vectorToBytes([]float32{0.5, 0.25}), nil
		},
	}

	cp := NewCachedProvider(inner, kv, time.Hour, zap.NewNop())
	vec, err := cp.Embed(context.Background(), "cached text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 || vec[0] != 0.5 || vec[1] != 0.25 {
		t.Fatalf("unexpected cached vector: %v", vec)
	}
	if inner.called {
		t.Error("hit must not call the inner provider")
	}
}

func TestCachedProvider_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockProvider{vec: []float32{1, 2}}
	kv := &mockKV{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte{1, 2, 3}, nil // not a multiple of 4
		},
	}

	cp := NewCachedProvider(inner, kv, time.Hour, zap.NewNop())
	vec, err := cp.Embed(context.Background(), "corrupt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inner.called {
		t.Error("corrupt cache entry must fall through to the inner provider")
	}
	if len(vec) != 2 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestCachedProvider_InnerErrorPropagates(t *testing.T) {
	inner := &mockProvider{err: errors.New("provider down")}
	cp := NewCachedProvider(inner, &mockKV{}, time.Hour, zap.NewNop())

	if _, err := cp.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected inner provider error to propagate")
	}
}

func TestCachedProvider_StoreErrorIsNonFatal(t *testing.T) {
	inner := &mockProvider{vec: []float32{1}}
	kv := &mockKV{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("connection refused")
		},
		setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
			return errors.New("connection refused")
		},
	}

	cp := NewCachedProvider(inner, kv, time.Hour, zap.NewNop())
	vec, err := cp.Embed(context.Background(), "x")
	if err != nil {
		t.Fatalf("cache store failures must not fail the embed: %v", err)
	}
	if len(vec) != 1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestVectorCodec_RoundTrip(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := bytesToVector(vectorToBytes(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("component %d: %v != %v", i, in[i], out[i])
		}
	}
}
