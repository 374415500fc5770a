//go:build mage

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/scholar-stats/internal/cache"
)

// Cache groups targets that maintain the search response cache.
type Cache mg.Namespace

// Prune deletes expired entries from the response cache in dir.
func (Cache) Prune(ctx context.Context, dir string, ttl string) error {
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("parsing ttl: %w", err)
	}
	store, err := cache.Open(dir, d)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Prune(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Pruned %d expired responses from %s\n", n, dir)
	return nil
}
