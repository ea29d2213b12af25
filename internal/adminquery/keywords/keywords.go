package keywords

// Set is a list of normalized synonyms for one concept.
type Set []string

func newSet(words ...string) Set {
	out := make(Set, 0, len(words))
	for _, w := range words {
		out = append(out, Normalize(w))
	}
	return out
}

// In reports whether any keyword of the set occurs in normalized text.
func (s Set) In(text string) bool {
	_, ok := s.First(text)
	return ok
}

// First returns the first keyword of the set found in normalized text.
func (s Set) First(text string) (string, bool) {
	for _, kw := range s {
		if containsKeyword(text, kw) {
			return kw, true
		}
	}
	return "", false
}

// Entry maps a canonical value to the keywords that select it.
type Entry struct {
	Value    string
	Keywords Set
}

// Table is an ordered list of entries; the first matching entry wins.
type Table []Entry

func (t Table) Match(text string) (string, bool) {
	for _, e := range t {
		if e.Keywords.In(text) {
			return e.Value, true
		}
	}
	return "", false
}

// Concepts.
var (
	Count = newSet("how many", "count", "number of", "total number", "كم", "عدد")
	Stats = newSet("stats", "statistics", "breakdown", "إحصائيات", "احصائيات", "إحصاء", "احصاء")

	Search = newSet("search", "find", "look for", "look up", "show me", "show", "list",
		"ابحث", "بحث", "اعرض", "عرض", "أظهر", "اظهر", "أين", "وين")

	Catalog = newSet("product", "item", "catalog", "catalogue", "stock", "sku",
		"منتج", "المنتجات", "سلعة", "سلع", "بضاعة", "المخزون", "مخزون")
	Orders = newSet("order", "purchase", "طلب", "الطلبات", "اوردر", "أوردر", "مشتريات")
	Messages = newSet("message", "inbox", "inquiries", "contact", "رسالة", "رسائل", "الرسائل", "استفسار", "بريد")
	Discounts = newSet("discount", "coupon", "promo", "voucher",
		"كود خصم", "كوبون", "خصم", "خصومات", "الخصومات", "قسيمة", "كود")

	Revenue = newSet("revenue", "income", "earnings", "sales", "profit",
		"إيرادات", "الإيرادات", "مبيعات", "المبيعات", "دخل", "أرباح", "ارباح")
	Report   = newSet("report", "تقرير")
	Overview = newSet("overview", "dashboard", "summary", "how is the store", "how's the store",
		"نظرة عامة", "ملخص", "لوحة التحكم", "وضع المتجر")

	Export    = newSet("export", "download", "csv", "excel", "تصدير", "تنزيل", "تحميل")
	Analytics = newSet("analytics", "trend", "growth", "compare", "comparison", "performance",
		"تحليل", "تحليلات", "اتجاه", "نمو", "مقارنة", "أداء", "اداء")
	Bulk = newSet("bulk", "mass ", "batch", "all at once", "جماعي", "دفعة واحدة", "بالجملة", "الكل مرة")

	AddProduct = newSet("add product", "add a product", "add new product", "add a new product",
		"new product", "create product", "create a product",
		"أضف منتج", "اضف منتج", "إضافة منتج", "اضافة منتج", "منتج جديد")

	Create = newSet("create", "new ", "add ", "generate", "make ",
		"أنشئ", "انشئ", "إنشاء", "انشاء", "جديد", "أضف", "اضف", "اصنع")
	Update = newSet("update", "edit", "modify", "change", "deactivate", "activate",
		"تعديل", "تحديث", "تغيير", "تعطيل", "تفعيل")
	Delete = newSet("delete", "remove", "erase",
		"حذف", "احذف", "إزالة", "ازالة", "امسح")

	LowStock = newSet("low stock", "running low", "almost out", "restock", "low inventory",
		"مخزون منخفض", "مخزونها منخفض", "منخفض المخزون", "منخفضة المخزون",
		"مخزون قليل", "ينفد", "قارب على النفاد", "كمية قليلة")
	OutOfStock = newSet("out of stock", "sold out", "no stock", "unavailable",
		"نفدت", "نفد المخزون", "غير متوفر", "خلصت", "خلص المخزون")
	Unused  = newSet("unused", "never used", "not used", "غير مستخدم", "لم تستخدم", "لم يستخدم")
	Expired = newSet("expired", "used up", "exhausted", "منتهي", "انتهت", "المنتهية")
	Best    = newSet("best", "most", "top", "popular", "best selling",
		"الأكثر", "الاكثر", "أفضل", "افضل", "الأعلى")

	Active   = newSet("active", "enabled", "live", "فعال", "فعالة", "نشط", "نشطة", "مفعل")
	Inactive = newSet("inactive", "disabled", "not active", "غير فعال", "غير نشط", "معطل")

	Unread  = newSet("unread", "not read", "غير مقروء", "غير مقروءة", "غير المقروء", "غير المقروءة", "لم تقرأ", "لم يقرأ")
	Urgent  = newSet("urgent", "emergency", "عاجل", "عاجلة", "طارئ", "طارئة")
	Pending = newSet("pending", "awaiting", "waiting", "on hold", "قيد الانتظار", "معلق", "معلقة", "بانتظار")

	Recent = newSet("recent", "latest", "last", "newest", "أحدث", "الأخيرة", "الاخيرة", "آخر")

	Today = newSet("today", "اليوم")
	Week  = newSet("this week", "week", "الأسبوع", "الاسبوع", "أسبوع", "اسبوع")
	Month = newSet("this month", "month", "الشهر", "شهر")
	Year  = newSet("this year", "year", "السنة", "العام", "سنة")

	OneUserOnly = newSet("one use per user", "once per user", "single use", "one user", "one time",
		"مرة واحدة", "لمستخدم واحد", "استخدام واحد")
)

// Value tables, ordered by precedence.
var (
	OrderStatuses = Table{
		{"pending", Pending},
		{"processing", newSet("processing", "in progress", "being prepared", "قيد المعالجة", "قيد التجهيز", "جاري التجهيز")},
		{"shipped", newSet("shipped", "in transit", "out for delivery", "تم الشحن", "مشحون", "مشحونة")},
		{"delivered", newSet("delivered", "completed", "تم التوصيل", "مكتمل", "مكتملة", "تم التسليم")},
		{"cancelled", newSet("cancelled", "canceled", "ملغي", "ملغاة", "ملغى", "ملغية")},
	}

	MessageStatuses = Table{
		{"unread", Unread},
		{"replied", newSet("replied", "answered", "تم الرد", "مجاب")},
		{"archived", newSet("archived", "مؤرشف", "مؤرشفة", "الأرشيف")},
	}

	ProductStatuses = Table{
		{"draft", newSet("draft", "مسودة")},
	}

	Priorities = Table{
		{"urgent", Urgent},
		{"high", newSet("high priority", "important", "أولوية عالية", "مهم", "مهمة")},
		{"low", newSet("low priority", "أولوية منخفضة")},
		{"normal", newSet("normal priority", "أولوية عادية")},
	}

	PaymentMethods = Table{
		{"knet", newSet("knet", "k-net", "كي نت", "كي-نت")},
		{"cash", newSet("cash", "cash on delivery", "نقد", "نقدي", "كاش", "الدفع عند الاستلام")},
		{"card", newSet("credit card", "card", "visa", "mastercard", "بطاقة", "فيزا", "ماستر")},
		{"bank_transfer", newSet("bank transfer", "wire transfer", "تحويل بنكي")},
	}

	PaymentStatuses = Table{
		{"unpaid", newSet("unpaid", "not paid", "غير مدفوع", "غير مدفوعة", "لم تدفع")},
		{"paid", newSet("paid", "مدفوع", "مدفوعة")},
		{"refunded", newSet("refunded", "refund", "مسترد", "مسترجع", "مستردة")},
		{"failed", newSet("failed payment", "payment failed", "فشل الدفع", "دفع فاشل")},
	}

	DiscountTypes = Table{
		{"free_shipping", newSet("free shipping", "free delivery", "شحن مجاني", "توصيل مجاني")},
		{"percentage", newSet("percent", "percentage", "%", "نسبة", "بالمئة", "بالمية")},
		{"fixed", newSet("fixed", "flat", "ثابت", "مبلغ ثابت")},
	}

	Categories = Table{
		{"electronics", newSet("electronics", "electronic", "gadget", "إلكترونيات", "الكترونيات")},
		{"clothing", newSet("clothing", "clothes", "apparel", "fashion", "ملابس", "أزياء")},
		{"accessories", newSet("accessories", "accessory", "إكسسوارات", "اكسسوارات")},
		{"home", newSet("home", "furniture", "kitchen", "منزل", "أثاث", "مطبخ")},
		{"beauty", newSet("beauty", "cosmetics", "skincare", "perfume", "تجميل", "عطور", "مستحضرات")},
		{"food", newSet("food", "grocery", "snacks", "طعام", "أغذية", "مأكولات")},
		{"books", newSet("book", "كتب", "كتاب")},
		{"toys", newSet("toys", "toy", "games", "ألعاب", "العاب")},
		{"sports", newSet("sports", "sport", "fitness", "رياضة", "رياضية")},
		{"complaint", newSet("complaint", "شكوى", "شكاوى")},
		{"inquiry", newSet("inquiry", "question", "استفسار", "سؤال")},
		{"support", newSet("support", "دعم فني", "مساعدة")},
		{"feedback", newSet("feedback", "suggestion", "اقتراح", "ملاحظات")},
	}
)
