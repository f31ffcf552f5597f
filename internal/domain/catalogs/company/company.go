// Package company holds the single company profile record.
package company

import (
	"context"
	"strings"
	"time"

	"invoicer/pkg/logger"
)

// Company is the business issuing invoices.
type Company struct {
	LogoURL   *string   `db:"logo_url" json:"logoUrl"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Repository stores the single company record.
type Repository interface {
	// Get returns nil without error when no record exists.
	Get(ctx context.Context) (*Company, error)
	Save(ctx context.Context, c *Company) error
	Delete(ctx context.Context) error
}

// Service manages the company profile.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new company service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the company record, or nil when none was saved.
func (s *Service) Get(ctx context.Context) (*Company, error) {
	return s.repo.Get(ctx)
}

// LogoURL returns the stored logo URL or nil.
func (s *Service) LogoURL(ctx context.Context) (*string, error) {
	c, err := s.repo.Get(ctx)
	if err != nil || c == nil {
		return nil, err
	}
	return c.LogoURL, nil
}

// Save upserts the record. A blank URL is stored as null.
func (s *Service) Save(ctx context.Context, logoURL *string) (*Company, error) {
	c := &Company{UpdatedAt: s.now().UTC()}
	if logoURL != nil {
		if trimmed := strings.TrimSpace(*logoURL); trimmed != "" {
			c.LogoURL = &trimmed
		}
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	logger.Info(ctx, "company saved", "has_logo", c.LogoURL != nil)
	return c, nil
}

// Delete removes the record. Deleting a missing record is not an error.
func (s *Service) Delete(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "company deleted")
	return nil
}
