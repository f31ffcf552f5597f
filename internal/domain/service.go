package domain

import (
	"context"
	"fmt"
	"time"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/entity"
	"invoicer/internal/core/id"
	"invoicer/internal/core/tx"
)

// CatalogEntity is a stored reference record with a UUID identity.
type CatalogEntity interface {
	entity.Validatable
	GetID() id.ID
	SetID(id.ID)
	Created() time.Time
	Stamp(now time.Time)
	Touch(now time.Time)
}

// CatalogRepository is the storage contract of a catalog. F is the
// catalog's list filter.
type CatalogRepository[T CatalogEntity, F any] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter F) ([]T, error)
}

// HookEvent names a point in the catalog write path.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	BeforeUpdate HookEvent = "before_update"
	BeforeDelete HookEvent = "before_delete"
)

// Hook runs at a HookEvent; an error aborts the operation.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry holds hooks per event.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: make(map[HookEvent][]Hook[T])}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// CatalogService provides CRUD for catalog entities. Entity-specific rules
// are attached as hooks.
type CatalogService[T CatalogEntity, F any] struct {
	repo      CatalogRepository[T, F]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string

	now func() time.Time
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T CatalogEntity, F any] struct {
	Repo       CatalogRepository[T, F]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T CatalogEntity, F any](cfg CatalogServiceConfig[T, F]) *CatalogService[T, F] {
	return &CatalogService[T, F]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		now:        time.Now,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T, F]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T, F]) normalizeGetErr(err error, entityID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID.String())
	}
	return err
}

// Create validates and stores a new entity with a fresh id.
func (s *CatalogService[T, F]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return err
	}

	entity.SetID(id.New())
	entity.Stamp(s.now())

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T, F]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID)
	}
	return entity, nil
}

// Update replaces the stored entity. CreatedAt is kept from the stored copy.
func (s *CatalogService[T, F]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, entity.GetID())
		if err != nil {
			return s.normalizeGetErr(err, entity.GetID())
		}
		if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
			return err
		}
		entity.Stamp(stored.Created())
		entity.Touch(s.now())
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Delete removes an entity permanently.
func (s *CatalogService[T, F]) Delete(ctx context.Context, entityID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return s.normalizeGetErr(err, entityID)
		}
		if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
}

// List retrieves entities with filtering.
func (s *CatalogService[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	return s.repo.List(ctx, filter)
}
