package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	kw "storefront-admin/internal/adminquery/keywords"
)

// Parser runs classification and extraction against a clock. The clock only
// affects relative date windows.
type Parser struct {
	now func() time.Time
}

type Option func(*Parser)

func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ClassifyAndExtract parses text with the wall clock.
func ClassifyAndExtract(text string) ParsedQuery {
	return defaultParser.Parse(text)
}

func (p *Parser) Parse(text string) ParsedQuery {
	c := Classify(text)
	q := ParsedQuery{
		Type:       c.Type,
		Confidence: c.Confidence,
	}
	if strings.TrimSpace(text) == "" {
		return q
	}

	q.Filters = ExtractFilters(text, p.now())
	q.SearchTerm = extractSearchTerm(text)

	switch q.Type {
	case DiscountCreate:
		q.StructuredPayload = extractDiscountPayload(text)
	case DiscountUpdate, DiscountDelete, DiscountSearch:
		q.TargetCode = extractCode(text)
	case BulkOperation:
		q.Bulk = extractBulk(text)
	}
	return q
}

func (p *Parser) ExtractFilters(text string) *FilterSet {
	return ExtractFilters(text, p.now())
}

var (
	quotedPattern = regexp.MustCompile(`["“”«»]([^"“”«»]+)["“”«»]`)
	searchPattern = regexp.MustCompile(`(?:search for|search|find|look for|look up|ابحث عن|بحث عن|ابحث|دور علي|دور على)\s+(.+)`)

	// Uppercase tokens such as SAVE10 or RAMADAN-25.
	codeTokenPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9_-]{2,}\b`)
	codeAfterPattern = regexp.MustCompile(`(?i)(?:code|coupon|كود|كوبون)\s+([A-Za-z0-9_-]*[0-9][A-Za-z0-9_-]*)`)

	percentPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent|بالمئة|بالمية)`)
	fixedPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kwd|kd|دينار|د\.ك)`)
	usageLimitPattern = regexp.MustCompile(`(?:limit(?:ed)?(?: to)?|max(?:imum)?|حد)\s*(\d+)|(\d+)\s*(?:uses|times|redemptions|مرات|مرة|استخدامات)`)
	minOrderPattern   = regexp.MustCompile(`(?:minimum order|min order|orders? over|orders? above|الحد الادني|حد ادني)\s*(?:of\s*)?(\d+(?:\.\d+)?)`)
)

// reservedTokens are uppercase words that are never discount codes.
var reservedTokens = map[string]bool{
	"KWD": true, "KD": true, "CSV": true, "SKU": true, "USD": true, "SAR": true, "AED": true,
}

var searchNoise = kw.Normalize(" ?؟.!,،")

var searchStopWords = []string{
	"products", "product", "items", "item", "orders", "order", "messages", "message",
	"discount codes", "discount code", "codes", "coupons", "coupon",
	"for", "about", "named", "called", "with", "in", "from", "by", "of", "the", "all", "me",
	"عن", "من", "باسم", "المنتجات", "منتج", "الطلبات", "طلب", "الرسائل", "رسالة", "كود", "خصم",
}

func extractSearchTerm(text string) string {
	if m := quotedPattern.FindStringSubmatch(text); len(m) == 2 {
		if term := strings.TrimSpace(m[1]); term != "" {
			return term
		}
	}

	normalized := kw.Normalize(text)
	m := searchPattern.FindStringSubmatch(normalized)
	if len(m) < 2 {
		return ""
	}

	words := strings.Fields(strings.Map(func(r rune) rune {
		if strings.ContainsRune(searchNoise, r) {
			return ' '
		}
		return r
	}, m[1]))

	kept := make([]string, 0, len(words))
	for _, w := range words {
		if isSearchStopWord(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func isSearchStopWord(w string) bool {
	for _, s := range searchStopWords {
		if w == s {
			return true
		}
	}
	return false
}

func extractCode(text string) string {
	for _, tok := range codeTokenPattern.FindAllString(text, -1) {
		if !reservedTokens[tok] {
			return tok
		}
	}
	if m := codeAfterPattern.FindStringSubmatch(text); len(m) == 2 {
		return strings.ToUpper(m[1])
	}
	return ""
}

func extractDiscountPayload(text string) *CreateDiscountPayload {
	normalized := kw.Normalize(text)
	p := &CreateDiscountPayload{Code: extractCode(text)}

	if v, ok := matchAmount(percentPattern, normalized); ok {
		p.Type = "percentage"
		p.Value = v
	} else if v, ok := matchAmount(fixedPattern, normalized); ok {
		p.Type = "fixed"
		p.Value = v
	} else if t, ok := kw.DiscountTypes.Match(normalized); ok {
		p.Type = t
	}

	if m := usageLimitPattern.FindStringSubmatch(normalized); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if n, err := strconv.Atoi(raw); err == nil {
			p.UsageLimit = n
		}
	}
	if v, ok := matchAmount(minOrderPattern, normalized); ok {
		p.MinOrderAmount = v
	}
	p.OneUserOnly = kw.OneUserOnly.In(normalized)
	return p
}

var (
	bulkMarkRead = kw.Set{"mark as read", "mark read", "تعليم كمقروء", "كمقروءة", "كمقروء"}
	bulkArchive  = kw.Set{"archive", "ارشفة", "أرشفة"}

	bulkDeactivate = kw.Set{"deactivate", "تعطيل"}
	bulkActivate   = kw.Set{"activate", "تفعيل"}
)

func extractBulk(text string) *BulkRequest {
	normalized := kw.Normalize(text)
	req := &BulkRequest{Entity: entityOf(normalized)}
	if req.Entity == EntityNone {
		req.Entity = EntityCatalog
	}
	req.Operation = bulkOperationOf(normalized)
	req.Scope = bulkScopeOf(req, normalized)
	return req
}

// bulkOperationOf prefers explicit verbs over state adjectives, so "activate
// inactive codes" activates.
func bulkOperationOf(text string) string {
	switch {
	case bulkMarkRead.In(text):
		return BulkMarkRead
	case bulkArchive.In(text):
		return BulkArchive
	case kw.Delete.In(text):
		return BulkDelete
	case bulkDeactivate.In(text):
		return BulkDeactivate
	case bulkActivate.In(text):
		return BulkActivate
	case kw.Inactive.In(text):
		return BulkDeactivate
	case kw.Active.In(text):
		return BulkActivate
	}
	return ""
}

func bulkScopeOf(req *BulkRequest, text string) string {
	switch req.Entity {
	case EntityDiscounts:
		switch {
		case kw.Expired.In(text):
			return BulkScopeExpired
		case kw.Unused.In(text):
			return BulkScopeUnused
		}
	case EntityCatalog:
		if kw.OutOfStock.In(text) {
			return BulkScopeOutOfStock
		}
	default:
		return ""
	}
	// "make codes inactive" names the target state, not the selection.
	if req.Operation != BulkDeactivate && kw.Inactive.In(text) {
		return BulkScopeInactive
	}
	return ""
}
