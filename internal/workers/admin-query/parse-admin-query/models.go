package parseadminquery

import "storefront-admin/internal/adminquery/intent"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	ParsedQuery intent.ParsedQuery `json:"parsedQuery"`
}
