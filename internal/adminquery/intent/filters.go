package intent

import (
	"regexp"
	"strconv"
	"time"

	kw "storefront-admin/internal/adminquery/keywords"
)

var (
	minPricePattern = regexp.MustCompile(`(?:more than|greater than|higher than|above|over|at least|اكثر من|اعلي من|اعلى من|اكبر من|فوق)\s*(\d+(?:\.\d+)?)`)
	maxPricePattern = regexp.MustCompile(`(?:less than|lower than|cheaper than|below|under|at most|اقل من|ادني من|ادنى من|اصغر من|تحت)\s*(\d+(?:\.\d+)?)`)
)

// ExtractFilters returns the constraints mentioned in text relative to now,
// or nil if the text mentions none.
func ExtractFilters(text string, now time.Time) *FilterSet {
	normalized := kw.Normalize(text)
	f := &FilterSet{}

	if status, ok := kw.OrderStatuses.Match(normalized); ok {
		f.Status = status
	} else if status, ok := kw.MessageStatuses.Match(normalized); ok {
		f.Status = status
	} else if status, ok := kw.ProductStatuses.Match(normalized); ok {
		f.Status = status
	}

	if priority, ok := kw.Priorities.Match(normalized); ok {
		f.Priority = priority
	}
	if method, ok := kw.PaymentMethods.Match(normalized); ok {
		f.PaymentMethod = method
	}
	if status, ok := kw.PaymentStatuses.Match(normalized); ok {
		f.PaymentStatus = status
	}
	if category, ok := kw.Categories.Match(normalized); ok {
		f.Category = category
	}
	if discountType, ok := kw.DiscountTypes.Match(normalized); ok {
		f.DiscountType = discountType
	}

	switch {
	case kw.Inactive.In(normalized):
		f.IsActive = boolPtr(false)
	case kw.Active.In(normalized):
		f.IsActive = boolPtr(true)
	}

	if kw.OneUserOnly.In(normalized) {
		f.OneUserOnly = boolPtr(true)
	}

	// Each window overrides the one before it, so the widest mentioned
	// window is kept.
	if kw.Today.In(normalized) {
		f.DateFrom = timePtr(startOfDay(now))
	}
	if kw.Week.In(normalized) {
		f.DateFrom = timePtr(startOfDay(now).AddDate(0, 0, -7))
	}
	if kw.Month.In(normalized) {
		f.DateFrom = timePtr(startOfDay(now).AddDate(0, -1, 0))
	}
	if kw.Year.In(normalized) {
		f.DateFrom = timePtr(startOfDay(now).AddDate(-1, 0, 0))
	}

	if v, ok := matchAmount(minPricePattern, normalized); ok {
		f.MinPrice = &v
	}
	if v, ok := matchAmount(maxPricePattern, normalized); ok {
		f.MaxPrice = &v
	}

	if f.empty() {
		return nil
	}
	return f
}

func matchAmount(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func boolPtr(b bool) *bool {
	return &b
}

func timePtr(t time.Time) *time.Time {
	return &t
}
