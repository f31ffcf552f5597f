package memory

import (
	"context"

	"invoicer/internal/domain/catalogs/company"
)

// CompanyRepo implements company.Repository.
type CompanyRepo struct {
	store *Store
}

// NewCompanyRepo creates a company repository over s.
func NewCompanyRepo(s *Store) *CompanyRepo {
	return &CompanyRepo{store: s}
}

var _ company.Repository = (*CompanyRepo)(nil)

func cloneCompany(c *company.Company) *company.Company {
	out := *c
	if c.LogoURL != nil {
		v := *c.LogoURL
		out.LogoURL = &v
	}
	return &out
}

func (r *CompanyRepo) Get(ctx context.Context) (*company.Company, error) {
	var out *company.Company
	r.store.read(func(st *state) {
		if st.company != nil {
			out = cloneCompany(st.company)
		}
	})
	return out, nil
}

func (r *CompanyRepo) Save(ctx context.Context, c *company.Company) error {
	return r.store.write(ctx, func(st *state) error {
		st.company = cloneCompany(c)
		return nil
	})
}

func (r *CompanyRepo) Delete(ctx context.Context) error {
	return r.store.write(ctx, func(st *state) error {
		st.company = nil
		return nil
	})
}
