package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/appointment-hub/internal/docstore"
)

// CatalogStore exposes the service-collection operations the catalog needs.
type CatalogStore interface {
	InsertService(ctx context.Context, service docstore.Service) (docstore.Service, error)
	UpdateService(ctx context.Context, id string, patch docstore.ServicePatch) (docstore.Service, error)
	DeleteService(ctx context.Context, id string) error
	GetService(ctx context.Context, id string) (docstore.Service, error)
	ListServices(ctx context.Context, order docstore.ServiceOrder) ([]docstore.Service, error)
}

// CatalogService manages the bookable service catalog. Mutations are
// admin-only; reads are open to any authenticated user.
type CatalogService struct {
	services CatalogStore
	logger   *slog.Logger
}

// NewCatalogService wires dependencies for catalog operations.
func NewCatalogService(services CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{services: services, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// CreateService validates and stores a new catalog entry. Availability
// defaults to true when the caller leaves it unset.
func (s *CatalogService) CreateService(ctx context.Context, params CreateServiceParams) (docstore.Service, error) {
	if s == nil || s.services == nil {
		return docstore.Service{}, fmt.Errorf("catalog store not configured")
	}
	if !params.Principal.IsAdmin {
		return docstore.Service{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "CreateService", "title", params.Input.Title)

	if err := validateServiceInput(params.Input); err != nil {
		logger.ErrorContext(ctx, "service rejected", "error", err, "error_kind", ErrorKind(err))
		return docstore.Service{}, err
	}

	availability := true
	if params.Input.Availability != nil {
		availability = *params.Input.Availability
	}

	created, err := s.services.InsertService(ctx, docstore.Service{
		Title:        strings.TrimSpace(params.Input.Title),
		Description:  strings.TrimSpace(params.Input.Description),
		Duration:     params.Input.Duration,
		Availability: availability,
	})
	if err != nil {
		logger.ErrorContext(ctx, "service create failed", "error", err, "error_kind", ErrorKind(err))
		return docstore.Service{}, mapStoreError(err)
	}

	logger.With("service_id", created.ID).InfoContext(ctx, "service created")
	return created, nil
}

// UpdateService validates and applies a full edit to a catalog entry.
// Appointments that referenced the old values keep their snapshot copies.
func (s *CatalogService) UpdateService(ctx context.Context, params UpdateServiceParams) (docstore.Service, error) {
	if s == nil || s.services == nil {
		return docstore.Service{}, fmt.Errorf("catalog store not configured")
	}
	if !params.Principal.IsAdmin {
		return docstore.Service{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "UpdateService", "service_id", params.ServiceID)

	if err := validateServiceInput(params.Input); err != nil {
		logger.ErrorContext(ctx, "service rejected", "error", err, "error_kind", ErrorKind(err))
		return docstore.Service{}, err
	}

	title := strings.TrimSpace(params.Input.Title)
	description := strings.TrimSpace(params.Input.Description)
	duration := params.Input.Duration
	patch := docstore.ServicePatch{
		Title:        &title,
		Description:  &description,
		Duration:     &duration,
		Availability: params.Input.Availability,
	}

	updated, err := s.services.UpdateService(ctx, params.ServiceID, patch)
	if err != nil {
		logger.ErrorContext(ctx, "service update failed", "error", err, "error_kind", ErrorKind(err))
		return docstore.Service{}, mapStoreError(err)
	}

	logger.InfoContext(ctx, "service updated")
	return updated, nil
}

// DeleteService removes a catalog entry. Existing appointments are
// unaffected; they carry denormalized snapshots.
func (s *CatalogService) DeleteService(ctx context.Context, principal Principal, serviceID string) error {
	if s == nil || s.services == nil {
		return fmt.Errorf("catalog store not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteService", "service_id", serviceID)
	if err := s.services.DeleteService(ctx, serviceID); err != nil {
		logger.ErrorContext(ctx, "service delete failed", "error", err, "error_kind", ErrorKind(err))
		return mapStoreError(err)
	}
	logger.InfoContext(ctx, "service deleted")
	return nil
}

// GetService fetches one catalog entry.
func (s *CatalogService) GetService(ctx context.Context, serviceID string) (docstore.Service, error) {
	if s == nil || s.services == nil {
		return docstore.Service{}, fmt.Errorf("catalog store not configured")
	}
	service, err := s.services.GetService(ctx, serviceID)
	if err != nil {
		return docstore.Service{}, mapStoreError(err)
	}
	return service, nil
}

// ListServices returns catalog entries ordered by title. When includeHidden
// is false, entries marked unavailable are filtered out, which is the
// end-user view.
func (s *CatalogService) ListServices(ctx context.Context, includeHidden bool) ([]docstore.Service, error) {
	if s == nil || s.services == nil {
		return nil, fmt.Errorf("catalog store not configured")
	}

	services, err := s.services.ListServices(ctx, docstore.ServiceOrderTitle)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if includeHidden {
		return services, nil
	}

	visible := make([]docstore.Service, 0, len(services))
	for _, service := range services {
		if service.Availability {
			visible = append(visible, service)
		}
	}
	return visible, nil
}

func validateServiceInput(input ServiceInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		vErr.add("description", "description is required")
	}
	if input.Duration < 15 {
		vErr.add("duration", "duration must be at least 15 minutes")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
