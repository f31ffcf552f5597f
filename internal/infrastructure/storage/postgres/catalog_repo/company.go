package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/infrastructure/storage/postgres"
)

// CompanyRepo implements company.Repository over a single-row table.
type CompanyRepo struct {
	txm *postgres.TxManager
}

// NewCompanyRepo creates a new company repository.
func NewCompanyRepo(txm *postgres.TxManager) *CompanyRepo {
	return &CompanyRepo{txm: txm}
}

var _ company.Repository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	var c company.Company
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c,
		`SELECT logo_url, updated_at FROM company WHERE id = 1`)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepo) Save(ctx context.Context, c *company.Company) error {
	_, err := r.txm.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO company (id, logo_url, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET logo_url = EXCLUDED.logo_url, updated_at = EXCLUDED.updated_at`,
		c.LogoURL, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context) error {
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, `DELETE FROM company WHERE id = 1`); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
