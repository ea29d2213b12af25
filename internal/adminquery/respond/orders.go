package respond

import (
	"fmt"
	"sort"
	"strings"

	"storefront-admin/internal/models"
)

func orderCount(r *request) GeneratedResponse {
	os := r.stats.Orders
	var b strings.Builder
	switch {
	case r.query.Filters != nil && r.query.Filters.Status != "":
		fmt.Fprintf(&b, r.t("You have **%d** %s orders (out of %d in total).\n", "لديك **%d** طلب %s (من أصل %d).\n"),
			len(r.orders), r.label(r.query.Filters.Status), os.Total)
	case r.filtered():
		fmt.Fprintf(&b, r.t("**%d** orders match your query (out of %d in total).\n", "**%d** طلب يطابق طلبك (من أصل %d).\n"), len(r.orders), os.Total)
	default:
		fmt.Fprintf(&b, r.t("You have **%d** orders in total.\n", "لديك **%d** طلب إجمالاً.\n"), len(r.orders))
	}
	r.breakdown(&b, r.t("By status", "حسب الحالة"), os.ByStatus)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{"count": len(r.orders), "total": os.Total, "byStatus": os.ByStatus},
		Actions: []Action{r.navigateFiltered(r.t("View orders", "عرض الطلبات"), TargetOrders)},
	}
}

func orderSearch(r *request) GeneratedResponse {
	if len(r.orders) == 0 {
		return r.nothingFound(r.t("No orders found matching your search.", "لم يتم العثور على طلبات مطابقة لبحثك."), TargetOrders)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("Found **%d** orders:\n\n", "تم العثور على **%d** طلب:\n\n"), len(r.orders))
	r.list(&b, len(r.orders), func(i int) string { return r.orderRow(r.orders[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: r.orders,
		Actions: []Action{r.navigateFiltered(r.t("View all results", "عرض كل النتائج"), TargetOrders)},
	}
}

func orderStats(r *request) GeneratedResponse {
	os := r.stats.Orders
	var b strings.Builder
	b.WriteString(r.t("**Order statistics**\n\n", "**إحصائيات الطلبات**\n\n"))
	fmt.Fprintf(&b, r.t("- Total orders: %d\n", "- إجمالي الطلبات: %d\n"), os.Total)
	fmt.Fprintf(&b, r.t("- Paid orders: %d\n", "- الطلبات المدفوعة: %d\n"), os.PaidCount)
	fmt.Fprintf(&b, r.t("- Revenue: %s\n", "- الإيرادات: %s\n"), r.money(os.TotalRevenue))
	fmt.Fprintf(&b, r.t("- Average order value: %s\n", "- متوسط قيمة الطلب: %s\n"), r.money(os.AverageOrderValue))
	r.breakdown(&b, r.t("By status", "حسب الحالة"), os.ByStatus)
	r.breakdown(&b, r.t("By payment method", "حسب طريقة الدفع"), os.ByPaymentMethod)
	r.breakdown(&b, r.t("By payment status", "حسب حالة الدفع"), os.ByPaymentStatus)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: os,
		Actions: []Action{r.navigate(r.t("View orders", "عرض الطلبات"), TargetOrders)},
	}
}

func orderPending(r *request) GeneratedResponse {
	pending := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if o.Status == models.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return r.nothingFound(r.t("There are no pending orders.", "لا توجد طلبات قيد الانتظار."), TargetOrders)
	}

	var b strings.Builder
	fmt.Fprintf(&b, r.t("**%d** orders are waiting to be processed:\n\n", "**%d** طلب بانتظار المعالجة:\n\n"), len(pending))
	r.list(&b, len(pending), func(i int) string { return r.orderRow(pending[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: pending,
		Actions: []Action{{
			Label:  r.t("Show pending orders", "عرض الطلبات المعلقة"),
			Kind:   ActionFilter,
			Target: TargetOrders,
			Data:   map[string]interface{}{"status": models.OrderStatusPending},
		}},
	}
}

func orderRecent(r *request) GeneratedResponse {
	if len(r.orders) == 0 {
		return r.nothingFound(r.t("No orders in this period.", "لا توجد طلبات في هذه الفترة."), TargetOrders)
	}
	recent := make([]models.Order, len(r.orders))
	copy(recent, r.orders)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })

	var total float64
	for _, o := range recent {
		if o.PaymentStatus == models.PaymentStatusPaid {
			total += o.Total
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, r.t("**%d** recent orders, %s paid:\n\n", "**%d** طلب حديث، المدفوع منها %s:\n\n"), len(recent), r.money(total))
	r.list(&b, len(recent), func(i int) string { return r.orderRow(recent[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: recent,
		Actions: []Action{r.navigateFiltered(r.t("View orders", "عرض الطلبات"), TargetOrders)},
	}
}

func orderRevenue(r *request) GeneratedResponse {
	if r.query.Filters != nil {
		var total float64
		var paid int
		for _, o := range r.orders {
			if o.PaymentStatus == models.PaymentStatusPaid {
				total += o.Total
				paid++
			}
		}
		return GeneratedResponse{
			Content: fmt.Sprintf(r.t("Revenue from **%d** paid orders matching your query: **%s**.", "الإيرادات من **%d** طلب مدفوع يطابق طلبك: **%s**."), paid, r.money(total)),
			Kind:    KindStats,
			Payload: map[string]interface{}{"revenue": total, "paidOrders": paid},
			Actions: []Action{r.navigateFiltered(r.t("View orders", "عرض الطلبات"), TargetOrders)},
		}
	}
	return revenue(r)
}

func orderExport(r *request) GeneratedResponse {
	if len(r.orders) == 0 {
		return r.nothingFound(r.t("There are no orders to export.", "لا توجد طلبات للتصدير."), TargetOrders)
	}
	return GeneratedResponse{
		Content: fmt.Sprintf(r.t("Ready to export **%d** orders.", "جاهز لتصدير **%d** طلب."), len(r.orders)),
		Kind:    KindText,
		Payload: map[string]interface{}{"count": len(r.orders)},
		Actions: []Action{r.exportAction(ExportOrders, r.orders)},
	}
}
