package application

import (
	"context"
	"log/slog"

	"github.com/example/appointment-hub/internal/docstore"
)

// SeedCatalog inserts a starter catalog when the service collection is
// empty. Intended for demo and first-run environments; a populated catalog
// is left untouched.
func SeedCatalog(ctx context.Context, store CatalogStore, logger *slog.Logger) error {
	logger = defaultLogger(logger)

	existing, err := store.ListServices(ctx, docstore.ServiceOrderNone)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "catalog already populated, skipping seed", "count", len(existing))
		return nil
	}

	starter := []docstore.Service{
		{Title: "Consultation Session", Description: "One-on-one consultation to discuss your needs and goals.", Duration: 60, Availability: true},
		{Title: "Technical Support", Description: "Troubleshooting and hands-on help with technical issues.", Duration: 30, Availability: true},
		{Title: "Training Session", Description: "In-depth training tailored to your team.", Duration: 90, Availability: true},
		{Title: "Product Demo", Description: "Guided walkthrough of product features.", Duration: 45, Availability: true},
	}

	for _, service := range starter {
		if _, err := store.InsertService(ctx, service); err != nil {
			return err
		}
	}
	logger.InfoContext(ctx, "seeded starter catalog", "count", len(starter))
	return nil
}
