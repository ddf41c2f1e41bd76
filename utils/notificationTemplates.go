package utils

import (
	"coachhub/models"
	"fmt"
	"regexp"
	"sort"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// NotificationTemplate describes how a notification type is worded and delivered.
type NotificationTemplate struct {
	Type      string   `json:"type"`
	TitleJa   string   `json:"title_ja"`
	MessageJa string   `json:"message_ja"`
	TitleEn   string   `json:"title_en"`
	MessageEn string   `json:"message_en"`
	Channels  []string `json:"channels"`
	Priority  string   `json:"priority"`
	Category  string   `json:"category"`
	Rich      bool     `json:"rich"`
}

var NotificationTemplates = map[string]NotificationTemplate{
	"badge_earned": {
		TitleJa:   "バッジを獲得しました！",
		MessageJa: "{student_name}さんが{sport}の{category}で{badge_type}バッジを獲得しました。",
		TitleEn:   "New badge earned!",
		MessageEn: "{student_name} earned a {badge_type} badge in {sport} ({category}).",
		Channels:  []string{models.ChannelApp, models.ChannelLine},
		Priority:  PriorityNormal,
		Category:  "achievement",
		Rich:      true,
	},
	"certification_expiring": {
		TitleJa:   "資格の有効期限が近づいています",
		MessageJa: "{coach_name}さんの資格「{certification_name}」は{expiry_date}に期限切れになります（残り{days_left}日）。",
		TitleEn:   "Certification expiring soon",
		MessageEn: "{coach_name}'s certification \"{certification_name}\" expires on {expiry_date} ({days_left} days left).",
		Channels:  []string{models.ChannelApp, models.ChannelEmail},
		Priority:  PriorityHigh,
		Category:  "certification",
	},
	"certification_expired": {
		TitleJa:   "資格の有効期限が切れました",
		MessageJa: "{coach_name}さんの資格「{certification_name}」は{expiry_date}に期限切れになりました。更新手続きを行ってください。",
		TitleEn:   "Certification expired",
		MessageEn: "{coach_name}'s certification \"{certification_name}\" expired on {expiry_date}. Please renew it.",
		Channels:  []string{models.ChannelApp, models.ChannelEmail, models.ChannelLine},
		Priority:  PriorityUrgent,
		Category:  "certification",
	},
	"lesson_reminder": {
		TitleJa:   "レッスンのお知らせ",
		MessageJa: "{date} {start_time}から{school}校でレッスンがあります。",
		TitleEn:   "Lesson reminder",
		MessageEn: "You have a lesson at {school} on {date} from {start_time}.",
		Channels:  []string{models.ChannelApp, models.ChannelLine},
		Priority:  PriorityNormal,
		Category:  "schedule",
	},
	"shift_assigned": {
		TitleJa:   "シフトが登録されました",
		MessageJa: "{date} {start_time}〜{end_time}（{school}校）のシフトが登録されました。",
		TitleEn:   "Shift assigned",
		MessageEn: "A shift on {date} {start_time}-{end_time} at {school} was assigned to you.",
		Channels:  []string{models.ChannelApp},
		Priority:  PriorityNormal,
		Category:  "schedule",
	},
	"lesson_assigned": {
		TitleJa:   "レッスン担当のお知らせ",
		MessageJa: "{date} {start_time}〜{end_time}（{school}校）のレッスン「{title}」の担当になりました。",
		TitleEn:   "Lesson assigned",
		MessageEn: "You were assigned to \"{title}\" on {date} {start_time}-{end_time} at {school}.",
		Channels:  []string{models.ChannelApp},
		Priority:  PriorityNormal,
		Category:  "schedule",
	},
	"mission_completed": {
		TitleJa:   "ミッション達成！",
		MessageJa: "{student_name}さんが{lesson_date}のミッションをすべて達成しました。",
		TitleEn:   "Mission completed!",
		MessageEn: "{student_name} completed every mission for {lesson_date}.",
		Channels:  []string{models.ChannelApp},
		Priority:  PriorityNormal,
		Category:  "mission",
	},
	"evaluation_added": {
		TitleJa:   "評価が登録されました",
		MessageJa: "{student_name}さんの「{skill_name}」の評価が登録されました（{rating}/3）。",
		TitleEn:   "New evaluation",
		MessageEn: "{student_name} was rated {rating}/3 on \"{skill_name}\".",
		Channels:  []string{models.ChannelApp},
		Priority:  PriorityLow,
		Category:  "evaluation",
	},
	"report_published": {
		TitleJa:   "月次レポートが公開されました",
		MessageJa: "{student_name}さんの{year}年{month}月のレポートが公開されました。出席率は{attendance_rate}%です。",
		TitleEn:   "Monthly report published",
		MessageEn: "{student_name}'s report for {month}/{year} is ready. Attendance rate: {attendance_rate}%.",
		Channels:  []string{models.ChannelApp, models.ChannelEmail, models.ChannelLine},
		Priority:  PriorityNormal,
		Category:  "report",
		Rich:      true,
	},
	"payment_completed": {
		TitleJa:   "お支払いが完了しました",
		MessageJa: "{player_name}さん、{plan}プランのお支払いが完了しました（注文番号 {order_id}）。",
		TitleEn:   "Payment completed",
		MessageEn: "Thanks {player_name}! Your {plan} plan payment is complete (order {order_id}).",
		Channels:  []string{models.ChannelEmail},
		Priority:  PriorityNormal,
		Category:  "payment",
	},
	"system_announcement": {
		TitleJa:   "{title}",
		MessageJa: "{message}",
		TitleEn:   "{title}",
		MessageEn: "{message}",
		Channels:  []string{models.ChannelApp},
		Priority:  PriorityNormal,
		Category:  "system",
	},
}

func init() {
	for key, tmpl := range NotificationTemplates {
		tmpl.Type = key
		NotificationTemplates[key] = tmpl
	}
}

// SortedTemplates lists the templates ordered by type.
func SortedTemplates() []NotificationTemplate {
	out := make([]NotificationTemplate, 0, len(NotificationTemplates))
	for _, t := range NotificationTemplates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// ExpandTemplate substitutes {key} with data[key]. Unknown keys are left as written.
func ExpandTemplate(tmpl string, data map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[1 : len(match)-1]
		value, ok := data[key]
		if !ok || value == nil {
			return match
		}
		return fmt.Sprint(value)
	})
}

// Render returns the title and message in the requested locale.
func (t NotificationTemplate) Render(locale string, data map[string]interface{}) (string, string) {
	if locale == "en" {
		return ExpandTemplate(t.TitleEn, data), ExpandTemplate(t.MessageEn, data)
	}
	return ExpandTemplate(t.TitleJa, data), ExpandTemplate(t.MessageJa, data)
}
