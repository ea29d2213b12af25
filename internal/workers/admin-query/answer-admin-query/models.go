package answeradminquery

import (
	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/adminquery/respond"
)

type Input struct {
	Query         string `json:"query"`
	IsRightToLeft bool   `json:"isRightToLeft"`
}

type Output struct {
	ParsedQuery intent.ParsedQuery        `json:"parsedQuery"`
	Response    respond.GeneratedResponse `json:"response"`
}
