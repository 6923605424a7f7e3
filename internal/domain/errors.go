package domain

import "errors"

var (
	// ErrEmbeddingProviderError signals a primary embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCollectionNotFound signals a missing vector collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrEmptyQuery signals a blank query string.
	ErrEmptyQuery = errors.New("query must not be empty")
)
