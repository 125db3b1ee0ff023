package model

import (
	"context"
	"io"
)

// Storage keeps opaque objects by key. The backfill job uses it to save raw
// rows before rewriting them.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
}
