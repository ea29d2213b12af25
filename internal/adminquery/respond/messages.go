package respond

import (
	"fmt"
	"strings"

	"storefront-admin/internal/models"
)

func messageCount(r *request) GeneratedResponse {
	ms := r.stats.Messages
	var b strings.Builder
	if r.filtered() {
		fmt.Fprintf(&b, r.t("**%d** messages match your query (out of %d in total).\n", "**%d** رسالة تطابق طلبك (من أصل %d).\n"), len(r.messages), ms.Total)
	} else {
		fmt.Fprintf(&b, r.t("You have **%d** messages.\n", "لديك **%d** رسالة.\n"), len(r.messages))
	}
	r.breakdown(&b, r.t("By status", "حسب الحالة"), ms.ByStatus)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: map[string]interface{}{"count": len(r.messages), "total": ms.Total, "byStatus": ms.ByStatus},
		Actions: []Action{r.navigateFiltered(r.t("Open inbox", "فتح صندوق الرسائل"), TargetMessages)},
	}
}

func messageSearch(r *request) GeneratedResponse {
	if len(r.messages) == 0 {
		return r.nothingFound(r.t("No messages found matching your search.", "لم يتم العثور على رسائل مطابقة لبحثك."), TargetMessages)
	}
	var b strings.Builder
	fmt.Fprintf(&b, r.t("Found **%d** messages:\n\n", "تم العثور على **%d** رسالة:\n\n"), len(r.messages))
	r.list(&b, len(r.messages), func(i int) string { return r.messageRow(r.messages[i]) })

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: r.messages,
		Actions: []Action{r.navigateFiltered(r.t("View all results", "عرض كل النتائج"), TargetMessages)},
	}
}

func messageStats(r *request) GeneratedResponse {
	ms := r.stats.Messages
	var b strings.Builder
	b.WriteString(r.t("**Inbox statistics**\n\n", "**إحصائيات الرسائل**\n\n"))
	fmt.Fprintf(&b, r.t("- Total messages: %d\n", "- إجمالي الرسائل: %d\n"), ms.Total)
	fmt.Fprintf(&b, r.t("- Unread: %d\n", "- غير مقروءة: %d\n"), ms.Unread)
	fmt.Fprintf(&b, r.t("- Urgent: %d\n", "- عاجلة: %d\n"), ms.Urgent)
	fmt.Fprintf(&b, r.t("- Response rate: %s\n", "- نسبة الرد: %s\n"), percent(ms.ResponseRate))
	fmt.Fprintf(&b, r.t("- Average response time: %s\n", "- متوسط وقت الرد: %s\n"), r.responseTime(ms.AverageResponseTime, ms.HasResponseTime))
	r.breakdown(&b, r.t("By category", "حسب الفئة"), ms.ByCategory)
	r.breakdown(&b, r.t("By priority", "حسب الأولوية"), ms.ByPriority)

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindStats,
		Payload: ms,
		Actions: []Action{r.navigate(r.t("Open inbox", "فتح صندوق الرسائل"), TargetMessages)},
	}
}

func messageUnread(r *request) GeneratedResponse {
	unread := selectMessages(r.messages, func(m models.Message) bool { return m.Status == models.MessageStatusUnread })
	return r.messageList(unread,
		r.t("You have **%d** unread messages.\n", "لديك **%d** رسالة غير مقروءة.\n"),
		map[string]interface{}{"status": models.MessageStatusUnread})
}

func messageUrgent(r *request) GeneratedResponse {
	urgent := selectMessages(r.messages, func(m models.Message) bool { return m.Priority == models.PriorityUrgent })
	return r.messageList(urgent,
		r.t("You have **%d** urgent messages.\n", "لديك **%d** رسالة عاجلة.\n"),
		map[string]interface{}{"priority": models.PriorityUrgent})
}

// messageList renders a headline count, the response rate and the rows.
// An empty list is still a count answer, not a "nothing found".
func (r *request) messageList(list []models.Message, headline string, filter map[string]interface{}) GeneratedResponse {
	var b strings.Builder
	fmt.Fprintf(&b, headline, len(list))
	fmt.Fprintf(&b, r.t("Response rate: %s\n", "نسبة الرد: %s\n"), percent(r.stats.Messages.ResponseRate))
	if len(list) > 0 {
		b.WriteByte('\n')
		r.list(&b, len(list), func(i int) string { return r.messageRow(list[i]) })
	}

	return GeneratedResponse{
		Content: b.String(),
		Kind:    KindTable,
		Payload: list,
		Actions: []Action{{
			Label:  r.t("Open inbox", "فتح صندوق الرسائل"),
			Kind:   ActionFilter,
			Target: TargetMessages,
			Data:   filter,
		}},
	}
}

func messageExport(r *request) GeneratedResponse {
	if len(r.messages) == 0 {
		return r.nothingFound(r.t("There are no messages to export.", "لا توجد رسائل للتصدير."), TargetMessages)
	}
	return GeneratedResponse{
		Content: fmt.Sprintf(r.t("Ready to export **%d** messages.", "جاهز لتصدير **%d** رسالة."), len(r.messages)),
		Kind:    KindText,
		Payload: map[string]interface{}{"count": len(r.messages)},
		Actions: []Action{r.exportAction(ExportMessages, r.messages)},
	}
}

func selectMessages(messages []models.Message, keep func(models.Message) bool) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
