package seeds

import (
	"context"

	"github.com/VybCoding/OneWonderLake/internal/questions"
)

// SeedAll loads every bundled data set. Safe to run repeatedly.
func SeedAll(ctx context.Context, store questions.Store) error {
	if err := SeedFaqs(ctx, store); err != nil {
		return err
	}
	return nil
}
