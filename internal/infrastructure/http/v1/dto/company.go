package dto

// CompanyRequest is the body of POST /company.
type CompanyRequest struct {
	LogoURL *string `json:"logoUrl"`
}
