package aggregatestorestats

import "storefront-admin/internal/adminquery/stats"

type Input struct {
	// ForceRefresh skips the cached snapshot.
	ForceRefresh bool `json:"forceRefresh"`
}

type Output struct {
	Stats  stats.StatsSnapshot `json:"stats"`
	Cached bool                `json:"cached"`
}
