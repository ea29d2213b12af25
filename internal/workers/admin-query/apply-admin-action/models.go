package applyadminaction

import (
	"storefront-admin/internal/adminquery/respond"
	"storefront-admin/internal/storefront"
)

type Input struct {
	Action respond.Action `json:"action"`
}

type Output struct {
	Result *storefront.ActionResult `json:"result"`
}
