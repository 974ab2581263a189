package espocrm

import "github.com/xavierca1/landing-leads/internal/entity"

type listResponse struct {
	Total int                 `json:"total"`
	List  []entity.LeadRecord `json:"list"`
}
