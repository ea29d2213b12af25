// Package search filters the storefront collections by a FilterSet and a
// free-text term. Results keep the input order; inputs are never modified.
package search

import (
	"strings"
	"time"

	"storefront-admin/internal/adminquery/intent"
	kw "storefront-admin/internal/adminquery/keywords"
	"storefront-admin/internal/models"
)

// Catalog returns the items matching filters and term.
func Catalog(items []models.CatalogItem, term string, filters *intent.FilterSet) []models.CatalogItem {
	needle := normalizeTerm(term)
	out := make([]models.CatalogItem, 0, len(items))
	for _, it := range items {
		if filters != nil {
			if !matchExact(filters.Status, it.Status) ||
				!matchExact(filters.Category, it.Category) ||
				!inDateRange(it.CreatedAt, filters) ||
				!inPriceRange(it.Price.Amount(), filters) {
				continue
			}
			if filters.IsActive != nil && (it.Status == models.ProductStatusActive) != *filters.IsActive {
				continue
			}
		}
		if needle != "" && !containsAny(needle, append([]string{it.Title, it.TitleAr, it.Description, it.DescriptionAr, it.SKU}, it.Tags...)...) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func Orders(orders []models.Order, term string, filters *intent.FilterSet) []models.Order {
	needle := normalizeTerm(term)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if filters != nil {
			if !matchExact(filters.Status, o.Status) ||
				!matchExact(filters.PaymentMethod, o.PaymentMethod) ||
				!matchExact(filters.PaymentStatus, o.PaymentStatus) ||
				!inDateRange(o.CreatedAt, filters) ||
				!inPriceRange(o.Total, filters) {
				continue
			}
		}
		if needle != "" {
			fields := []string{o.OrderNumber, o.CustomerName, o.CustomerEmail, o.CustomerPhone}
			for _, item := range o.Items {
				fields = append(fields, item.Title)
			}
			if !containsAny(needle, fields...) {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

func Messages(messages []models.Message, term string, filters *intent.FilterSet) []models.Message {
	needle := normalizeTerm(term)
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if filters != nil {
			if !matchExact(filters.Status, m.Status) ||
				!matchExact(filters.Priority, m.Priority) ||
				!matchExact(filters.Category, m.Category) ||
				!inDateRange(m.CreatedAt, filters) {
				continue
			}
		}
		if needle != "" && !containsAny(needle, m.Name, m.Email, m.Subject, m.Body) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func DiscountCodes(codes []models.DiscountCode, term string, filters *intent.FilterSet) []models.DiscountCode {
	needle := normalizeTerm(term)
	out := make([]models.DiscountCode, 0, len(codes))
	for _, d := range codes {
		if filters != nil {
			if !matchExact(filters.DiscountType, d.Type) ||
				!inDateRange(d.CreatedAt, filters) ||
				!inPriceRange(d.Value, filters) {
				continue
			}
			if filters.IsActive != nil && d.IsActive != *filters.IsActive {
				continue
			}
			if filters.OneUserOnly != nil && d.OneUserOnly != *filters.OneUserOnly {
				continue
			}
		}
		if needle != "" && !containsAny(needle, d.Code, d.Description) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func normalizeTerm(term string) string {
	return kw.Normalize(strings.TrimSpace(term))
}

// matchExact passes when no constraint is set or the values are equal.
func matchExact(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}

func inDateRange(t time.Time, f *intent.FilterSet) bool {
	if f.DateFrom != nil && t.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.After(*f.DateTo) {
		return false
	}
	return true
}

func inPriceRange(v float64, f *intent.FilterSet) bool {
	if f.MinPrice != nil && v < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && v > *f.MaxPrice {
		return false
	}
	return true
}

func containsAny(needle string, fields ...string) bool {
	for _, field := range fields {
		if field != "" && strings.Contains(kw.Normalize(field), needle) {
			return true
		}
	}
	return false
}
