package respond

import (
	"fmt"
	"strings"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/adminquery/stats"
	"storefront-admin/internal/models"
)

func bulkOperation(r *request) GeneratedResponse {
	req := r.query.Bulk
	if req == nil || req.Operation == "" {
		return GeneratedResponse{
			Content: r.t(
				"Which bulk action should I prepare? For example: \"bulk deactivate expired discount codes\" or \"bulk mark messages as read\".",
				"ما العملية الجماعية المطلوبة؟ مثال: \"تعطيل جماعي لأكواد الخصم المنتهية\" أو \"تعليم كل الرسائل كمقروءة دفعة واحدة\".",
			),
			Kind: KindText,
		}
	}

	if !intent.BulkSupported(req.Entity, req.Operation) {
		return GeneratedResponse{
			Content: fmt.Sprintf(r.t("Bulk %s is not available for %s.", "لا يمكن %s %s بشكل جماعي."),
				r.bulkVerb(req.Operation), r.entityName(req.Entity)),
			Kind:    KindText,
			Actions: []Action{r.navigate(r.t("Open list", "فتح القائمة"), entityTarget(req.Entity))},
		}
	}

	ids := r.bulkTargets(req)
	if len(ids) == 0 {
		return r.nothingFound(r.t("No records match this bulk action.", "لا توجد سجلات تطابق هذه العملية الجماعية."), entityTarget(req.Entity))
	}

	content := fmt.Sprintf(r.t("This will %s **%d** %s. Continue?", "سيتم %s **%d** %s. هل تريد المتابعة؟"),
		r.bulkVerb(req.Operation), len(ids), r.entityName(req.Entity))
	return GeneratedResponse{
		Content: content,
		Kind:    KindText,
		Payload: map[string]interface{}{"entity": req.Entity, "operation": req.Operation, "scope": req.Scope, "count": len(ids)},
		Actions: r.confirmPair(r.t("Confirm", "تأكيد"), OpBulk, map[string]interface{}{
			"entity":        string(req.Entity),
			"bulkOperation": req.Operation,
			"ids":           ids,
		}),
	}
}

func entityTarget(e intent.Entity) string {
	switch e {
	case intent.EntityDiscounts:
		return TargetDiscounts
	case intent.EntityMessages:
		return TargetMessages
	case intent.EntityOrders:
		return TargetOrders
	default:
		return TargetProducts
	}
}

// bulkTargets returns the ids in the request scope that the operation would
// change. Records already in the target state are skipped.
func (r *request) bulkTargets(req *intent.BulkRequest) []string {
	ids := []string{}
	switch req.Entity {
	case intent.EntityDiscounts:
		for _, d := range r.codes {
			if !r.discountInScope(d, req.Scope) {
				continue
			}
			switch {
			case req.Operation == intent.BulkActivate && (d.IsActive || d.Expired(r.now)):
			case req.Operation == intent.BulkDeactivate && !d.IsActive:
			default:
				ids = append(ids, d.ID)
			}
		}

	case intent.EntityMessages:
		for _, m := range r.messages {
			switch {
			case req.Operation == intent.BulkMarkRead && m.Status != models.MessageStatusUnread:
			case req.Operation == intent.BulkArchive && m.Status == models.MessageStatusArchived:
			default:
				ids = append(ids, m.ID)
			}
		}

	case intent.EntityCatalog:
		for _, it := range r.catalog {
			if !productInScope(it, req.Scope) {
				continue
			}
			switch {
			case req.Operation == intent.BulkActivate && it.Status == models.ProductStatusActive:
			case req.Operation == intent.BulkDeactivate && it.Status != models.ProductStatusActive:
			case req.Operation == intent.BulkArchive && it.Status == models.ProductStatusArchived:
			default:
				ids = append(ids, it.ID)
			}
		}
	}
	return ids
}

func (r *request) discountInScope(d models.DiscountCode, scope string) bool {
	switch scope {
	case intent.BulkScopeExpired:
		return d.Expired(r.now)
	case intent.BulkScopeUnused:
		return d.UsedCount == 0
	case intent.BulkScopeInactive:
		return !d.IsActive
	default:
		return true
	}
}

func productInScope(it models.CatalogItem, scope string) bool {
	switch scope {
	case intent.BulkScopeOutOfStock:
		return it.Stock <= 0
	case intent.BulkScopeInactive:
		return it.Status != models.ProductStatusActive
	default:
		return true
	}
}

func (r *request) bulkVerb(op string) string {
	switch op {
	case intent.BulkActivate:
		return r.t("activate", "تفعيل")
	case intent.BulkDeactivate:
		return r.t("deactivate", "تعطيل")
	case intent.BulkDelete:
		return r.t("delete", "حذف")
	case intent.BulkMarkRead:
		return r.t("mark as read", "تعليم كمقروءة")
	case intent.BulkArchive:
		return r.t("archive", "أرشفة")
	default:
		return op
	}
}

func (r *request) entityName(e intent.Entity) string {
	switch e {
	case intent.EntityDiscounts:
		return r.t("discount codes", "كود خصم")
	case intent.EntityMessages:
		return r.t("messages", "رسالة")
	case intent.EntityOrders:
		return r.t("orders", "طلب")
	default:
		return r.t("products", "منتج")
	}
}

func analyticsTrend(r *request) GeneratedResponse {
	ov := r.stats.Overview
	var b strings.Builder
	b.WriteString(r.t("**This month vs last month**\n\n", "**هذا الشهر مقارنة بالشهر الماضي**\n\n"))
	fmt.Fprintf(&b, r.t("- Orders: %d vs %d (%s)\n", "- الطلبات: %d مقابل %d (%s)\n"),
		ov.ThisMonthOrders, ov.LastMonthOrders, signedPercent(ov.OrdersGrowth))
	fmt.Fprintf(&b, r.t("- Revenue: %s vs %s (%s)\n", "- الإيرادات: %s مقابل %s (%s)\n"),
		r.money(ov.ThisMonthRevenue), r.money(ov.LastMonthRevenue), signedPercent(ov.RevenueGrowth))
	fmt.Fprintf(&b, r.t("- New products this month: %d\n", "- منتجات جديدة هذا الشهر: %d\n"), ov.NewProductsThisMonth)
	fmt.Fprintf(&b, r.t("- Messages this month: %d\n", "- رسائل هذا الشهر: %d\n"), ov.MessagesThisMonth)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindChart,
		Payload: map[string]interface{}{
			"orders":  []int{ov.LastMonthOrders, ov.ThisMonthOrders},
			"revenue": []float64{ov.LastMonthRevenue, ov.ThisMonthRevenue},
		},
		Actions: []Action{r.navigate(r.t("Open analytics", "فتح التحليلات"), TargetAnalytics)},
	}
}

func salesReport(r *request) GeneratedResponse {
	os := r.stats.Orders
	ov := r.stats.Overview
	var b strings.Builder
	b.WriteString(r.t("**Sales report**\n\n", "**تقرير المبيعات**\n\n"))
	fmt.Fprintf(&b, r.t("- Total revenue: %s\n", "- إجمالي الإيرادات: %s\n"), r.money(os.TotalRevenue))
	fmt.Fprintf(&b, r.t("- Paid orders: %d of %d\n", "- الطلبات المدفوعة: %d من %d\n"), os.PaidCount, os.Total)
	fmt.Fprintf(&b, r.t("- Average order value: %s\n", "- متوسط قيمة الطلب: %s\n"), r.money(os.AverageOrderValue))
	fmt.Fprintf(&b, r.t("- This month: %s (%s)\n", "- هذا الشهر: %s (%s)\n"), r.money(ov.ThisMonthRevenue), signedPercent(ov.RevenueGrowth))
	r.breakdown(&b, r.t("By payment method", "حسب طريقة الدفع"), os.ByPaymentMethod)

	if len(os.TopSellingProducts) > 0 {
		b.WriteString(r.t("\n**Top products**\n", "\n**المنتجات الأكثر مبيعاً**\n"))
		for i, p := range firstProducts(os.TopSellingProducts, 5) {
			fmt.Fprintf(&b, r.t("%d. %s: %d sold\n", "%d. %s: تم بيع %d\n"), i+1, p.Title, p.Quantity)
		}
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{"orders": os, "overview": ov},
		Actions: []Action{
			r.navigate(r.t("View orders", "عرض الطلبات"), TargetOrders),
			r.exportAction(ExportOrders, r.orders),
		},
	}
}

func firstProducts(list []stats.ProductSales, n int) []stats.ProductSales {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func inventoryReport(r *request) GeneratedResponse {
	cs := r.stats.Catalog
	var b strings.Builder
	b.WriteString(r.t("**Inventory report**\n\n", "**تقرير المخزون**\n\n"))
	fmt.Fprintf(&b, r.t("- Products: %d\n", "- المنتجات: %d\n"), cs.Total)
	fmt.Fprintf(&b, r.t("- Units in stock: %d\n", "- الوحدات في المخزون: %d\n"), cs.TotalStock)
	fmt.Fprintf(&b, r.t("- Inventory value: %s\n", "- قيمة المخزون: %s\n"), r.money(cs.InventoryValue))
	fmt.Fprintf(&b, r.t("- Low stock: %d\n", "- مخزون منخفض: %d\n"), cs.LowStockCount)
	fmt.Fprintf(&b, r.t("- Out of stock: %d\n", "- نفد من المخزون: %d\n"), cs.OutOfStockCount)
	r.breakdown(&b, r.t("By category", "حسب الفئة"), cs.ByCategory)

	if len(cs.LowStock) > 0 {
		b.WriteString(r.t("\n**Restock soon**\n", "\n**يحتاج إلى إعادة تخزين**\n"))
		r.list(&b, len(cs.LowStock), func(i int) string {
			return r.stockRow(cs.LowStock[i].Title, cs.LowStock[i].TitleAr, cs.LowStock[i].Stock)
		})
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: cs,
		Actions: []Action{
			r.navigate(r.t("View products", "عرض المنتجات"), TargetProducts),
			r.exportAction(ExportProducts, r.catalog),
		},
	}
}

func overview(r *request) GeneratedResponse {
	ov := r.stats.Overview
	var b strings.Builder
	b.WriteString(r.t("**Store overview**\n\n", "**نظرة عامة على المتجر**\n\n"))
	fmt.Fprintf(&b, r.t("- Orders today: %d (%s)\n", "- طلبات اليوم: %d (%s)\n"), ov.OrdersToday, r.money(ov.RevenueToday))
	fmt.Fprintf(&b, r.t("- Orders this month: %d (%s vs last month)\n", "- طلبات هذا الشهر: %d (%s مقارنة بالشهر الماضي)\n"), ov.ThisMonthOrders, signedPercent(ov.OrdersGrowth))
	fmt.Fprintf(&b, r.t("- Revenue this month: %s (%s vs last month)\n", "- إيرادات هذا الشهر: %s (%s مقارنة بالشهر الماضي)\n"), r.money(ov.ThisMonthRevenue), signedPercent(ov.RevenueGrowth))
	fmt.Fprintf(&b, r.t("- New products this month: %d\n", "- منتجات جديدة هذا الشهر: %d\n"), ov.NewProductsThisMonth)
	fmt.Fprintf(&b, r.t("- Messages this month: %d\n", "- رسائل هذا الشهر: %d\n"), ov.MessagesThisMonth)

	actions := []Action{r.navigate(r.t("Open dashboard", "فتح لوحة التحكم"), TargetDashboard)}
	if len(ov.NeedsAttention) == 0 {
		b.WriteString(r.t("\nNothing needs your attention right now.\n", "\nلا يوجد ما يحتاج إلى انتباهك حالياً.\n"))
	} else {
		b.WriteString(r.t("\n**Needs attention**\n", "\n**يحتاج إلى انتباهك**\n"))
		for _, item := range ov.NeedsAttention {
			label, target := r.attention(item.Kind)
			fmt.Fprintf(&b, "- %s: %d\n", label, item.Count)
			actions = append(actions, r.navigate(label, target))
		}
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: ov,
		Actions: actions,
	}
}

func (r *request) attention(kind string) (string, string) {
	switch kind {
	case stats.AttentionPendingOrders:
		return r.t("Pending orders", "طلبات قيد الانتظار"), TargetOrders
	case stats.AttentionUnreadMessages:
		return r.t("Unread messages", "رسائل غير مقروءة"), TargetMessages
	case stats.AttentionLowStock:
		return r.t("Low stock products", "منتجات مخزونها منخفض"), TargetProducts
	case stats.AttentionOutOfStock:
		return r.t("Out of stock products", "منتجات نفدت"), TargetProducts
	case stats.AttentionExpiringCodes:
		return r.t("Discount codes expiring this week", "أكواد خصم تنتهي هذا الأسبوع"), TargetDiscounts
	default:
		return kind, TargetDashboard
	}
}

func revenue(r *request) GeneratedResponse {
	os := r.stats.Orders
	ov := r.stats.Overview
	var b strings.Builder
	fmt.Fprintf(&b, r.t("Total revenue: **%s** from %d paid orders.\n\n", "إجمالي الإيرادات: **%s** من %d طلب مدفوع.\n\n"), r.money(os.TotalRevenue), os.PaidCount)
	fmt.Fprintf(&b, r.t("- Today: %s\n", "- اليوم: %s\n"), r.money(ov.RevenueToday))
	fmt.Fprintf(&b, r.t("- This month: %s\n", "- هذا الشهر: %s\n"), r.money(ov.ThisMonthRevenue))
	fmt.Fprintf(&b, r.t("- Last month: %s\n", "- الشهر الماضي: %s\n"), r.money(ov.LastMonthRevenue))
	fmt.Fprintf(&b, r.t("- Change: %s\n", "- التغير: %s\n"), signedPercent(ov.RevenueGrowth))
	fmt.Fprintf(&b, r.t("- Average order value: %s\n", "- متوسط قيمة الطلب: %s\n"), r.money(os.AverageOrderValue))

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{
			"totalRevenue":     os.TotalRevenue,
			"paidOrders":       os.PaidCount,
			"revenueToday":     ov.RevenueToday,
			"thisMonthRevenue": ov.ThisMonthRevenue,
			"lastMonthRevenue": ov.LastMonthRevenue,
		},
		Actions: []Action{r.navigate(r.t("Open analytics", "فتح التحليلات"), TargetAnalytics)},
	}
}

const helpEnglish = `I can answer questions about your store. Try:
- "How many products do I have?"
- "Show pending orders"
- "Unread messages"
- "Expired discount codes"
- "Create discount code SAVE10 for 10% off"
- "Products running low"
- "Sales report"
- "Store overview"`

const helpArabic = `يمكنني الإجابة عن أسئلة حول متجرك. جرّب:
- "كم عدد المنتجات؟"
- "الطلبات المعلقة"
- "الرسائل غير المقروءة"
- "أكواد الخصم المنتهية"
- "أنشئ كود خصم بنسبة 10%"
- "منتجات مخزونها منخفض"
- "تقرير المبيعات"
- "نظرة عامة على المتجر"`

// help is the terminal fallback. It reads nothing but the locale.
func help(r *request) GeneratedResponse {
	return GeneratedResponse{
		Content: r.t(helpEnglish, helpArabic),
		Kind:    KindText,
		Actions: []Action{r.navigate(r.t("Open dashboard", "فتح لوحة التحكم"), TargetDashboard)},
	}
}
