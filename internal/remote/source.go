package remote

import (
	"context"
	"errors"
)

var (
	ErrNetwork    = errors.New("remote catalog source unreachable")
	ErrPermission = errors.New("remote catalog source rejected request")
)

// Handlers receive full-collection pushes from the realtime stream. A nil
// handler skips its collection.
type Handlers struct {
	Products   func(ctx context.Context, records []ProductRecord) error
	Categories func(ctx context.Context, records []CategoryRecord) error
	Brands     func(ctx context.Context, records []BrandRecord) error
}

// Source is the boundary to the hosted catalog service: one-shot fetches plus
// a realtime push stream. Listen blocks until ctx is cancelled; transient
// failures are retried inside the implementation and never terminate the
// stream.
type Source interface {
	FetchProducts(ctx context.Context) ([]ProductRecord, error)
	FetchCategories(ctx context.Context) ([]CategoryRecord, error)
	FetchBrands(ctx context.Context) ([]BrandRecord, error)
	Listen(ctx context.Context, handlers Handlers) error
}

type combinedSource struct {
	*HTTPSource
	*KafkaSource
}

// NewSource combines the HTTP fetch path with the kafka push stream into one
// Source.
func NewSource(fetch *HTTPSource, listen *KafkaSource) Source {
	return &combinedSource{HTTPSource: fetch, KafkaSource: listen}
}
