package respond

import (
	"fmt"
	"strings"

	"storefront-admin/internal/adminquery/intent"
	"storefront-admin/internal/models"
)

func discountCount(r *request) GeneratedResponse {
	ds := r.stats.Discounts
	var b strings.Builder
	if r.filtered() {
		fmt.Fprintf(&b, r.t("**%d** discount codes match your query (out of %d in total).\n", "**%d** كود خصم يطابق طلبك (من أصل %d).\n"), len(r.codes), ds.Total)
	} else {
		fmt.Fprintf(&b, r.t("You have **%d** discount codes.\n", "لديك **%d** كود خصم.\n"), len(r.codes))
	}
	r.breakdown(&b, r.t("By status", "حسب الحالة"), ds.ByStatus)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{"count": len(r.codes), "total": ds.Total, "byStatus": ds.ByStatus},
		Actions: []Action{r.navigateFiltered(r.t("View discount codes", "عرض أكواد الخصم"), TargetDiscounts)},
	}
}

func discountSearch(r *request) GeneratedResponse {
	return r.codeList(r.codes,
		r.t("Found **%d** discount codes:\n\n", "تم العثور على **%d** كود خصم:\n\n"),
		r.t("No discount codes found matching your search.", "لم يتم العثور على أكواد خصم مطابقة لبحثك."))
}

func discountStats(r *request) GeneratedResponse {
	ds := r.stats.Discounts
	var b strings.Builder
	b.WriteString(r.t("**Discount code statistics**\n\n", "**إحصائيات أكواد الخصم**\n\n"))
	fmt.Fprintf(&b, r.t("- Total codes: %d\n", "- إجمالي الأكواد: %d\n"), ds.Total)
	fmt.Fprintf(&b, r.t("- Active: %d\n", "- نشطة: %d\n"), ds.Active)
	fmt.Fprintf(&b, r.t("- Inactive: %d\n", "- غير نشطة: %d\n"), ds.Inactive)
	fmt.Fprintf(&b, r.t("- Expired: %d\n", "- منتهية: %d\n"), ds.Expired)
	fmt.Fprintf(&b, r.t("- Never used: %d\n", "- لم تستخدم: %d\n"), ds.Unused)
	fmt.Fprintf(&b, r.t("- Total redemptions: %d\n", "- إجمالي الاستخدامات: %d\n"), ds.TotalUsage)
	r.breakdown(&b, r.t("By type", "حسب النوع"), ds.ByType)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: ds,
		Actions: []Action{r.navigate(r.t("View discount codes", "عرض أكواد الخصم"), TargetDiscounts)},
	}
}

func discountActive(r *request) GeneratedResponse {
	active := r.selectCodes(func(d models.DiscountCode) bool { return d.IsActive && !d.Expired(r.now) })
	return r.codeList(active,
		r.t("**%d** discount codes are active:\n\n", "**%d** كود خصم نشط:\n\n"),
		r.t("There are no active discount codes.", "لا توجد أكواد خصم نشطة."))
}

func discountExpired(r *request) GeneratedResponse {
	expired := r.selectCodes(func(d models.DiscountCode) bool { return d.Expired(r.now) })
	resp := r.codeList(expired,
		r.t("**%d** discount codes are expired or used up:\n\n", "**%d** كود خصم منتهي أو مستنفد:\n\n"),
		r.t("No discount codes have expired.", "لا توجد أكواد خصم منتهية."))
	if ids := activeCodeIDs(expired); len(ids) > 0 {
		resp.Actions = append(resp.Actions, r.confirmPair(
			r.t("Deactivate expired codes", "تعطيل الأكواد المنتهية"),
			OpBulk,
			map[string]interface{}{"entity": string(intent.EntityDiscounts), "bulkOperation": intent.BulkDeactivate, "ids": ids},
		)...)
	}
	return resp
}

func discountUnused(r *request) GeneratedResponse {
	unused := r.selectCodes(func(d models.DiscountCode) bool { return d.UsedCount == 0 })
	return r.codeList(unused,
		r.t("**%d** discount codes have never been used:\n\n", "**%d** كود خصم لم يستخدم أبداً:\n\n"),
		r.t("Every discount code has been used at least once.", "تم استخدام جميع أكواد الخصم مرة واحدة على الأقل."))
}

func discountMostUsed(r *request) GeneratedResponse {
	top := r.stats.Discounts.MostUsed
	if len(top) == 0 {
		return r.nothingFound(r.t("No discount code has been used yet.", "لم يتم استخدام أي كود خصم بعد."), TargetDiscounts)
	}
	var b strings.Builder
	b.WriteString(r.t("**Most used discount codes**\n\n", "**أكواد الخصم الأكثر استخداماً**\n\n"))
	for i, c := range top {
		fmt.Fprintf(&b, r.t("%d. %s: used %d times\n", "%d. %s: استخدم %d مرة\n"), i+1, c.Code, c.UsedCount)
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindChart,
		Payload: top,
		Actions: []Action{r.navigate(r.t("View discount codes", "عرض أكواد الخصم"), TargetDiscounts)},
	}
}

func discountCreate(r *request) GeneratedResponse {
	p := r.query.StructuredPayload
	if p == nil {
		p = &intent.CreateDiscountPayload{}
	}

	if missing := p.Missing(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, f := range missing {
			names = append(names, r.fieldName(f))
		}
		return GeneratedResponse{
			Content: fmt.Sprintf(r.t(
				"To create a discount code I still need: %s. For example: \"create discount code SAVE10 for 10%% off\".",
				"لإنشاء كود الخصم أحتاج إلى: %s. مثال: \"أنشئ كود خصم SAVE10 بنسبة 10%%\".",
			), strings.Join(names, r.t(", ", "، "))),
			Kind:    KindText,
			Payload: p,
			Actions: []Action{{
				Label:  r.t("Open discount form", "فتح نموذج الخصم"),
				Kind:   ActionCreate,
				Target: TargetNewCode,
				Data:   map[string]interface{}{"draft": p},
			}},
		}
	}

	if r.codeExists(p.Code) {
		return GeneratedResponse{
			Content: fmt.Sprintf(r.t("A discount code named %s already exists.", "يوجد كود خصم باسم %s مسبقاً."), p.Code),
			Kind:    KindText,
			Payload: p,
			Actions: []Action{r.navigate(r.t("View discount codes", "عرض أكواد الخصم"), TargetDiscounts)},
		}
	}

	var b strings.Builder
	b.WriteString(r.t("Create this discount code?\n\n", "هل تريد إنشاء كود الخصم التالي؟\n\n"))
	fmt.Fprintf(&b, r.t("- Code: %s\n", "- الكود: %s\n"), p.Code)
	fmt.Fprintf(&b, r.t("- Type: %s\n", "- النوع: %s\n"), r.label(payloadType(p)))
	if p.Type != models.DiscountTypeFreeShipping {
		fmt.Fprintf(&b, r.t("- Value: %s\n", "- القيمة: %s\n"), r.discountValue(models.DiscountCode{Type: payloadType(p), Value: p.Value}))
	}
	if p.UsageLimit > 0 {
		fmt.Fprintf(&b, r.t("- Usage limit: %d\n", "- حد الاستخدام: %d\n"), p.UsageLimit)
	}
	if p.MinOrderAmount > 0 {
		fmt.Fprintf(&b, r.t("- Minimum order: %s\n", "- الحد الأدنى للطلب: %s\n"), r.money(p.MinOrderAmount))
	}
	if p.OneUserOnly {
		b.WriteString(r.t("- One use per customer\n", "- استخدام واحد لكل عميل\n"))
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindText,
		Payload: p,
		Actions: r.confirmPair(r.t("Create code", "إنشاء الكود"), OpCreateDiscount, map[string]interface{}{"payload": p}),
	}
}

// payloadType defaults an unspecified type to percentage.
func payloadType(p *intent.CreateDiscountPayload) string {
	if p.Type == "" {
		return models.DiscountTypePercentage
	}
	return p.Type
}

func (r *request) fieldName(field string) string {
	switch field {
	case "code":
		return r.t("the code", "الكود")
	case "value":
		return r.t("the discount value", "قيمة الخصم")
	default:
		return field
	}
}

func discountUpdate(r *request) GeneratedResponse {
	d, ok := r.targetCode()
	if !ok {
		return r.codeNotFound()
	}

	activate := !d.IsActive
	if r.query.Filters != nil && r.query.Filters.IsActive != nil {
		activate = *r.query.Filters.IsActive
	}
	label := r.t("Deactivate %s", "تعطيل %s")
	if activate {
		label = r.t("Activate %s", "تفعيل %s")
	}

	var b strings.Builder
	b.WriteString(r.t("Current settings:\n\n", "الإعدادات الحالية:\n\n"))
	b.WriteString(r.discountRow(d))
	b.WriteByte('\n')

	actions := r.confirmPair(fmt.Sprintf(label, d.Code), OpUpdateDiscount, map[string]interface{}{
		"id":      d.ID,
		"code":    d.Code,
		"changes": map[string]interface{}{"isActive": activate},
	})
	actions = append(actions, Action{
		Label:  r.t("Edit code", "تعديل الكود"),
		Kind:   ActionUpdate,
		Target: TargetDiscounts + "/" + d.ID,
	})

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindText,
		Payload: d,
		Actions: actions,
	}
}

func discountDelete(r *request) GeneratedResponse {
	d, ok := r.targetCode()
	if !ok {
		return r.codeNotFound()
	}

	var b strings.Builder
	fmt.Fprintf(&b, r.t("Delete discount code **%s**? This cannot be undone.\n\n", "هل تريد حذف كود الخصم **%s**؟ لا يمكن التراجع عن ذلك.\n\n"), d.Code)
	b.WriteString(r.discountRow(d))
	b.WriteByte('\n')

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindText,
		Payload: d,
		Actions: r.confirmPair(r.t("Delete code", "حذف الكود"), OpDeleteDiscount, map[string]interface{}{"id": d.ID, "code": d.Code}),
	}
}

func discountExport(r *request) GeneratedResponse {
	if len(r.codes) == 0 {
		return r.nothingFound(r.t("There are no discount codes to export.", "لا توجد أكواد خصم للتصدير."), TargetDiscounts)
	}
	return GeneratedResponse{
		Content: fmt.Sprintf(r.t("Ready to export **%d** discount codes.", "جاهز لتصدير **%d** كود خصم."), len(r.codes)),
		Kind:    KindText,
		Payload: map[string]interface{}{"count": len(r.codes)},
		Actions: []Action{r.exportAction(ExportDiscountCodes, r.codes)},
	}
}

func (r *request) codeList(list []models.DiscountCode, headline, empty string) GeneratedResponse {
	if len(list) == 0 {
		return r.nothingFound(empty, TargetDiscounts)
	}
	var b strings.Builder
	fmt.Fprintf(&b, headline, len(list))
	r.list(&b, len(list), func(i int) string { return r.discountRow(list[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: list,
		Actions: []Action{r.navigateFiltered(r.t("View discount codes", "عرض أكواد الخصم"), TargetDiscounts)},
	}
}

func (r *request) selectCodes(keep func(models.DiscountCode) bool) []models.DiscountCode {
	out := make([]models.DiscountCode, 0, len(r.codes))
	for _, d := range r.codes {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// targetCode finds the code named by the query. With no name, a single
// remaining code is taken as the target.
func (r *request) targetCode() (models.DiscountCode, bool) {
	if r.query.TargetCode == "" {
		if len(r.codes) == 1 {
			return r.codes[0], true
		}
		return models.DiscountCode{}, false
	}
	for _, d := range r.codes {
		if strings.EqualFold(d.Code, r.query.TargetCode) {
			return d, true
		}
	}
	return models.DiscountCode{}, false
}

func (r *request) codeExists(code string) bool {
	for _, d := range r.codes {
		if strings.EqualFold(d.Code, code) {
			return true
		}
	}
	return false
}

func (r *request) codeNotFound() GeneratedResponse {
	msg := r.t("Please name the discount code, for example \"delete code SAVE10\".", "يرجى تحديد كود الخصم، مثال: \"احذف كود SAVE10\".")
	if r.query.TargetCode != "" {
		msg = fmt.Sprintf(r.t("Discount code %s was not found.", "لم يتم العثور على كود الخصم %s."), r.query.TargetCode)
	}
	return r.nothingFound(msg, TargetDiscounts)
}

func activeCodeIDs(codes []models.DiscountCode) []string {
	ids := make([]string, 0, len(codes))
	for _, d := range codes {
		if d.IsActive {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
