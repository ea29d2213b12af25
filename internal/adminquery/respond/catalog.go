package respond

import (
	"fmt"
	"strings"
)

func catalogCount(r *request) GeneratedResponse {
	cs := r.stats.Catalog
	var b strings.Builder
	if r.filtered() {
		fmt.Fprintf(&b, r.t("**%d** products match your query (out of %d in total).\n", "**%d** منتج يطابق طلبك (من أصل %d).\n"), len(r.catalog), cs.Total)
	} else {
		fmt.Fprintf(&b, r.t("You have **%d** products in your catalog.\n", "لديك **%d** منتج في المتجر.\n"), len(r.catalog))
	}
	r.breakdown(&b, r.t("By status", "حسب الحالة"), cs.ByStatus)
	r.breakdown(&b, r.t("By category", "حسب الفئة"), cs.ByCategory)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{"count": len(r.catalog), "total": cs.Total, "byStatus": cs.ByStatus, "byCategory": cs.ByCategory},
		Actions: []Action{r.navigateFiltered(r.t("View products", "عرض المنتجات"), TargetProducts)},
	}
}

func catalogSearch(r *request) GeneratedResponse {
	if len(r.catalog) == 0 {
		return r.nothingFound(r.t("No products found matching your search.", "لم يتم العثور على منتجات مطابقة لبحثك."), TargetProducts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("Found **%d** products:\n\n", "تم العثور على **%d** منتج:\n\n"), len(r.catalog))
	r.list(&b, len(r.catalog), func(i int) string { return r.productRow(r.catalog[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: r.catalog,
		Actions: []Action{r.navigateFiltered(r.t("View all results", "عرض كل النتائج"), TargetProducts)},
	}
}

func catalogStats(r *request) GeneratedResponse {
	cs := r.stats.Catalog
	var b strings.Builder
	b.WriteString(r.t("**Catalog statistics**\n\n", "**إحصائيات المنتجات**\n\n"))
	fmt.Fprintf(&b, r.t("- Total products: %d\n", "- إجمالي المنتجات: %d\n"), cs.Total)
	fmt.Fprintf(&b, r.t("- Units in stock: %d\n", "- الوحدات في المخزون: %d\n"), cs.TotalStock)
	fmt.Fprintf(&b, r.t("- Inventory value: %s\n", "- قيمة المخزون: %s\n"), r.money(cs.InventoryValue))
	fmt.Fprintf(&b, r.t("- Average price: %s\n", "- متوسط السعر: %s\n"), r.money(cs.AveragePrice))
	fmt.Fprintf(&b, r.t("- Low stock: %d\n", "- مخزون منخفض: %d\n"), cs.LowStockCount)
	fmt.Fprintf(&b, r.t("- Out of stock: %d\n", "- نفد من المخزون: %d\n"), cs.OutOfStockCount)
	r.breakdown(&b, r.t("By status", "حسب الحالة"), cs.ByStatus)
	r.breakdown(&b, r.t("By category", "حسب الفئة"), cs.ByCategory)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: cs,
		Actions: []Action{r.navigate(r.t("View products", "عرض المنتجات"), TargetProducts)},
	}
}

func catalogLowStock(r *request) GeneratedResponse {
	low := r.stats.Catalog.LowStock
	if len(low) == 0 {
		return r.nothingFound(r.t("No products are running low on stock.", "لا توجد منتجات ذات مخزون منخفض."), TargetProducts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("**%d** products are running low on stock:\n\n", "**%d** منتج مخزونه منخفض:\n\n"), len(low))
	r.list(&b, len(low), func(i int) string { return r.stockRow(low[i].Title, low[i].TitleAr, low[i].Stock) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: low,
		Actions: []Action{{
			Label:  r.t("Show low stock products", "عرض المنتجات منخفضة المخزون"),
			Kind:   ActionFilter,
			Target: TargetProducts,
			Data:   map[string]interface{}{"stock": "low"},
		}},
	}
}

func catalogOutOfStock(r *request) GeneratedResponse {
	out := r.stats.Catalog.OutOfStock
	if len(out) == 0 {
		return r.nothingFound(r.t("All products are in stock.", "جميع المنتجات متوفرة في المخزون."), TargetProducts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("**%d** products are out of stock:\n\n", "**%d** منتج نفد من المخزون:\n\n"), len(out))
	r.list(&b, len(out), func(i int) string { return r.stockRow(out[i].Title, out[i].TitleAr, out[i].Stock) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: out,
		Actions: []Action{{
			Label:  r.t("Show out of stock products", "عرض المنتجات النافدة"),
			Kind:   ActionFilter,
			Target: TargetProducts,
			Data:   map[string]interface{}{"stock": "out"},
		}},
	}
}

func (r *request) stockRow(title, titleAr string, stock int) string {
	if r.ar && titleAr != "" {
		title = titleAr
	}
	return fmt.Sprintf(r.t("- %s: %d left", "- %s: متبقي %d"), title, stock)
}

func catalogBestSellers(r *request) GeneratedResponse {
	top := r.stats.Orders.TopSellingProducts
	if len(top) == 0 {
		return r.nothingFound(r.t("No sales have been recorded yet.", "لم يتم تسجيل أي مبيعات بعد."), TargetProducts)
	}
	var b strings.Builder
	b.WriteString(r.t("**Best selling products**\n\n", "**المنتجات الأكثر مبيعاً**\n\n"))
	for i, p := range top {
		fmt.Fprintf(&b, r.t("%d. %s: %d sold (%s)\n", "%d. %s: تم بيع %d (%s)\n"), i+1, p.Title, p.Quantity, r.money(p.Revenue))
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindChart,
		Payload: top,
		Actions: []Action{r.navigate(r.t("Open analytics", "فتح التحليلات"), TargetAnalytics)},
	}
}

func catalogByCategory(r *request) GeneratedResponse {
	var category string
	if r.query.Filters != nil {
		category = r.query.Filters.Category
	}
	if category == "" {
		var b strings.Builder
		b.WriteString(r.t("Products per category:\n", "المنتجات حسب الفئة:\n"))
		r.breakdown(&b, r.t("By category", "حسب الفئة"), r.stats.Catalog.ByCategory)
		return GeneratedResponse{
			Content: b.String(),
			Kind:    KindStats,
			Payload: r.stats.Catalog.ByCategory,
			Actions: []Action{r.navigate(r.t("View products", "عرض المنتجات"), TargetProducts)},
		}
	}

	if len(r.catalog) == 0 {
		return r.nothingFound(fmt.Sprintf(r.t("No products found in the %s category.", "لا توجد منتجات في فئة %s."), r.label(category)), TargetProducts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("**%d** products in the %s category:\n\n", "**%d** منتج في فئة %s:\n\n"), len(r.catalog), r.label(category))
	r.list(&b, len(r.catalog), func(i int) string { return r.productRow(r.catalog[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: r.catalog,
		Actions: []Action{r.navigateFiltered(r.t("View category", "عرض الفئة"), TargetProducts)},
	}
}

func catalogAdd(r *request) GeneratedResponse {
	return GeneratedResponse{
		Content: r.t(
			"Open the product form to add a new product. You will need a title, a price and the stock quantity.",
			"افتح نموذج المنتج لإضافة منتج جديد. ستحتاج إلى العنوان والسعر وكمية المخزون.",
		),
		Kind: KindText,
		Actions: []Action{{
			Label:  r.t("Add product", "إضافة منتج"),
			Kind:   ActionCreate,
			Target: TargetNewProduct,
		}},
	}
}

func catalogExport(r *request) GeneratedResponse {
	if len(r.catalog) == 0 {
		return r.nothingFound(r.t("There are no products to export.", "لا توجد منتجات للتصدير."), TargetProducts)
	}
	return GeneratedResponse{
		Content: fmt.Sprintf(r.t("Ready to export **%d** products.", "جاهز لتصدير **%d** منتج."), len(r.catalog)),
		Kind:    KindText,
		Payload: map[string]interface{}{"count": len(r.catalog)},
		Actions: []Action{r.exportAction(ExportProducts, r.catalog)},
	}
}

// nothingFound is the empty-result response shared by list handlers.
func (r *request) nothingFound(msg, target string) GeneratedResponse {
	return GeneratedResponse{
		Content: msg,
		Kind:    KindText,
		Actions: []Action{r.navigate(r.t("Open list", "فتح القائمة"), target)},
	}
}
