package respond

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"storefront-admin/internal/models"
)

// maxRows is the number of records listed in one response.
const maxRows = 10

// t picks the template for the request locale.
func (r *request) t(en, ar string) string {
	if r.ar {
		return ar
	}
	return en
}

func (r *request) money(v float64) string {
	return fmt.Sprintf("%.3f %s", v, r.t(models.BaseCurrency, "د.ك"))
}

// percent renders v with one decimal; non-finite values render as 0.
func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.1f%%", v)
}

func signedPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v > 0 {
		return "+" + percent(v)
	}
	return percent(v)
}

func (r *request) responseTime(d time.Duration, known bool) string {
	if !known {
		return r.t("N/A", "غير متوفر")
	}
	minutes := int(d / time.Minute)
	switch {
	case minutes < 1:
		return r.t("< 1 minute", "أقل من دقيقة")
	case minutes < 60:
		return fmt.Sprintf(r.t("%d minutes", "%d دقيقة"), minutes)
	default:
		return fmt.Sprintf(r.t("%d hours %d minutes", "%d ساعة %d دقيقة"), minutes/60, minutes%60)
	}
}

func (r *request) date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

var arabicLabels = map[string]string{
	"active":        "نشط",
	"draft":         "مسودة",
	"archived":      "مؤرشف",
	"pending":       "قيد الانتظار",
	"processing":    "قيد المعالجة",
	"shipped":       "تم الشحن",
	"delivered":     "تم التوصيل",
	"cancelled":     "ملغي",
	"paid":          "مدفوع",
	"unpaid":        "غير مدفوع",
	"refunded":      "مسترد",
	"failed":        "فشل",
	"cash":          "نقدي",
	"card":          "بطاقة",
	"knet":          "كي نت",
	"bank_transfer": "تحويل بنكي",
	"unread":        "غير مقروءة",
	"read":          "مقروءة",
	"replied":       "تم الرد",
	"low":           "منخفضة",
	"normal":        "عادية",
	"high":          "عالية",
	"urgent":        "عاجلة",
	"percentage":    "نسبة مئوية",
	"fixed":         "مبلغ ثابت",
	"free_shipping": "شحن مجاني",
	"inactive":      "غير نشط",
	"expired":       "منتهي",
	"electronics":   "إلكترونيات",
	"clothing":      "ملابس",
	"accessories":   "إكسسوارات",
	"home":          "منزل",
	"beauty":        "تجميل",
	"food":          "أغذية",
	"books":         "كتب",
	"toys":          "ألعاب",
	"sports":        "رياضة",
	"complaint":     "شكوى",
	"inquiry":       "استفسار",
	"support":       "دعم",
	"feedback":      "ملاحظات",
	"unknown":       "غير محدد",
	"uncategorized": "بدون فئة",
}

var englishLabels = map[string]string{
	"bank_transfer": "bank transfer",
	"free_shipping": "free shipping",
}

// label renders a stored enum value for display.
func (r *request) label(value string) string {
	if r.ar {
		if l, ok := arabicLabels[value]; ok {
			return l
		}
		return value
	}
	if l, ok := englishLabels[value]; ok {
		return l
	}
	return value
}

// breakdown renders counts as "- key: n" lines, largest first.
func (r *request) breakdown(b *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(b, "\n**%s**\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", r.label(k), counts[k])
	}
}

// list writes up to maxRows rendered rows and a trailing "and N more" line.
func (r *request) list(b *strings.Builder, n int, row func(i int) string) {
	shown := n
	if shown > maxRows {
		shown = maxRows
	}
	for i := 0; i < shown; i++ {
		b.WriteString(row(i))
		b.WriteByte('\n')
	}
	if n > shown {
		fmt.Fprintf(b, r.t("...and %d more\n", "...و %d أخرى\n"), n-shown)
	}
}

func (r *request) productRow(it models.CatalogItem) string {
	title := it.Title
	if r.ar && it.TitleAr != "" {
		title = it.TitleAr
	}
	row := fmt.Sprintf("- %s · %s · %s", title, r.money(it.Price.Amount()), fmt.Sprintf(r.t("stock %d", "المخزون %d"), it.Stock))
	if it.SKU != "" {
		row += " · " + it.SKU
	}
	return row
}

func (r *request) orderRow(o models.Order) string {
	return fmt.Sprintf("- #%s · %s · %s · %s · %s",
		o.OrderNumber, o.CustomerName, r.money(o.Total), r.label(o.Status), r.date(o.CreatedAt))
}

func (r *request) messageRow(m models.Message) string {
	return fmt.Sprintf("- %s · %s · %s · %s", m.Subject, m.Name, r.label(m.Status), r.label(m.Priority))
}

func (r *request) discountValue(d models.DiscountCode) string {
	switch d.Type {
	case models.DiscountTypePercentage:
		return fmt.Sprintf("%g%%", d.Value)
	case models.DiscountTypeFreeShipping:
		return r.label(models.DiscountTypeFreeShipping)
	default:
		return r.money(d.Value)
	}
}

func (r *request) discountRow(d models.DiscountCode) string {
	limit := "∞"
	if d.UsageLimit > 0 {
		limit = fmt.Sprintf("%d", d.UsageLimit)
	}
	state := "inactive"
	switch {
	case d.Expired(r.now):
		state = "expired"
	case d.IsActive:
		state = "active"
	}
	return fmt.Sprintf("- %s · %s · %s · %s",
		d.Code, r.discountValue(d), fmt.Sprintf(r.t("used %d/%s", "استخدم %d/%s"), d.UsedCount, limit), r.label(state))
}
