package i18n

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Message keys referenced by templates and renderers.
const (
	KeySubjectTag       = "report.subject_tag"
	KeyBodyHeading      = "report.body_heading"
	KeyLabelType        = "report.label_type"
	KeyLabelNetwork     = "report.label_network"
	KeyLabelEntity      = "report.label_entity"
	KeyLabelAddress     = "report.label_address"
	KeyLabelLinks       = "report.label_links"
	KeyLabelContact     = "report.label_contact"
	KeyDetailsHeading   = "report.details_heading"
	KeyNotSpecified     = "report.not_specified"
	KeyNotProvided      = "report.not_provided"
	KeyNoDetails        = "report.no_details"
	KeyLabelPage        = "report.label_page"
	KeyLabelComposed    = "report.label_composed"
	KeySelectPrompt     = "form.select_prompt"
	KeyStatusCopied     = "status.copied"
	KeyStatusMissing    = "status.missing_core"
	KeyStatusNoEvidence = "status.missing_evidence"
	KeyStatusCooldown   = "status.cooldown"
	KeyStatusCopyFailed = "status.copy_failed"
	KeyBadgeHigh        = "badge.high"
	KeyBadgeMedium      = "badge.medium"
	KeyBadgeInfo        = "badge.info"
	KeyFeedEmptyTitle   = "feed.empty_title"
	KeyFeedEmptyBadge   = "feed.empty_badge"
	KeyFeedEmptyHint    = "feed.empty_hint"
	KeyFeedViewProfile  = "feed.view_profile"
	KeyFeedView         = "feed.view"
	KeyFeedTitle        = "feed.title"
	KeyFormTitle        = "form.title"
	KeyFormSend         = "form.send"
	KeyFormCopy         = "form.copy"
	KeyFormSendGmail    = "form.send_gmail"
	KeyFormSendOutlook  = "form.send_outlook"
	KeyTableSearch      = "table.search"
)

// Catalog maps (locale, key) to display strings. Lookups fall back to the
// default locale and finally to the empty string, so an incomplete
// translation table can never fail a render.
type Catalog struct {
	tables map[Locale]map[string]string
}

// NewCatalog returns a catalog preloaded with the built-in en/ar tables.
func NewCatalog() *Catalog {
	c := &Catalog{tables: make(map[Locale]map[string]string)}
	c.tables[LocaleEN] = builtinEN()
	c.tables[LocaleAR] = builtinAR()
	return c
}

// Resolve returns the string for key in the given locale, falling back to
// the default locale and then to "".
func (c *Catalog) Resolve(locale Locale, key string) string {
	if table, ok := c.tables[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if locale != DefaultLocale {
		if msg, ok := c.tables[DefaultLocale][key]; ok {
			return msg
		}
	}
	return ""
}

// LoadOverlays merges per-locale YAML files (<locale>.yaml, flat key: value
// maps) from dir over the built-in tables. Files for unsupported locales are
// ignored. A missing directory is not an error.
func (c *Catalog) LoadOverlays(dir string) error {
	if dir == "" {
		return nil
	}
	for _, locale := range Supported() {
		path := filepath.Join(dir, string(locale)+".yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read overlay %s: %w", path, err)
		}
		overlay := make(map[string]string)
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return fmt.Errorf("parse overlay %s: %w", path, err)
		}
		if c.tables[locale] == nil {
			c.tables[locale] = make(map[string]string)
		}
		for k, v := range overlay {
			c.tables[locale][k] = v
		}
	}
	return nil
}

func builtinEN() map[string]string {
	return map[string]string{
		KeySubjectTag:       "Whale Protocol Official – New Report",
		KeyBodyHeading:      "Whale Protocol Official – New Report",
		KeyLabelType:        "Report Type",
		KeyLabelNetwork:     "Network/Chain",
		KeyLabelEntity:      "Project/Token/Wallet",
		KeyLabelAddress:     "Suspicious Address/Contract",
		KeyLabelLinks:       "Evidence Links",
		KeyLabelContact:     "Reporter Contact",
		KeyDetailsHeading:   "Report Details:",
		KeyNotSpecified:     "Not specified",
		KeyNotProvided:      "Not provided",
		KeyNoDetails:        "(No details provided)",
		KeyLabelPage:        "Page",
		KeyLabelComposed:    "Composed (UTC)",
		KeySelectPrompt:     "Select…",
		KeyStatusCopied:     "Report copied. Paste it anywhere to share.",
		KeyStatusMissing:    "Please choose a report type and describe what happened.",
		KeyStatusNoEvidence: "Add a suspicious address or at least one evidence link.",
		KeyStatusCooldown:   "Please wait a moment before sending another report.",
		KeyStatusCopyFailed: "Copy failed. Please copy manually.",
		KeyBadgeHigh:        "High Risk",
		KeyBadgeMedium:      "Medium Risk",
		KeyBadgeInfo:        "Info",
		KeyFeedEmptyTitle:   "No reports yet",
		KeyFeedEmptyBadge:   "Soon",
		KeyFeedEmptyHint:    "Edit reports.json to publish verified alerts.",
		KeyFeedViewProfile:  "View on X",
		KeyFeedView:         "View",
		KeyFeedTitle:        "Published Reports",
		KeyFormTitle:        "Report a Scam",
		KeyFormSend:         "Send Report",
		KeyFormCopy:         "Copy Report",
		KeyFormSendGmail:    "Send via Gmail",
		KeyFormSendOutlook:  "Send via Outlook",
		KeyTableSearch:      "Search coin…",
	}
}

func builtinAR() map[string]string {
	return map[string]string{
		KeySubjectTag:       "Whale Protocol Official – بلاغ جديد",
		KeyBodyHeading:      "Whale Protocol Official – بلاغ جديد",
		KeyLabelType:        "نوع البلاغ",
		KeyLabelNetwork:     "الشبكة",
		KeyLabelEntity:      "الاسم/الرمز",
		KeyLabelAddress:     "العنوان/العقد",
		KeyLabelLinks:       "روابط الأدلة",
		KeyLabelContact:     "وسيلة تواصل",
		KeyDetailsHeading:   "تفاصيل البلاغ:",
		KeyNotSpecified:     "غير محدد",
		KeyNotProvided:      "غير متوفر",
		KeyNoDetails:        "(لا توجد تفاصيل)",
		KeyLabelPage:        "الصفحة",
		KeyLabelComposed:    "وقت الإنشاء (UTC)",
		KeySelectPrompt:     "اختر…",
		KeyStatusCopied:     "تم نسخ البلاغ. الصقه في أي مكان للمشاركة.",
		KeyStatusMissing:    "يرجى اختيار نوع البلاغ وكتابة التفاصيل.",
		KeyStatusNoEvidence: "أضف عنوانًا مشبوهًا أو رابط دليل واحدًا على الأقل.",
		KeyStatusCooldown:   "يرجى الانتظار قليلًا قبل إرسال بلاغ آخر.",
		KeyStatusCopyFailed: "فشل النسخ. يرجى النسخ يدويًا.",
		KeyBadgeHigh:        "خطر مرتفع",
		KeyBadgeMedium:      "خطر متوسط",
		KeyBadgeInfo:        "معلومات",
		KeyFeedEmptyTitle:   "لا توجد تقارير بعد",
		KeyFeedEmptyBadge:   "قريبًا",
		KeyFeedEmptyHint:    "حرّر ملف reports.json لنشر تقاريرك الموثقة.",
		KeyFeedViewProfile:  "View on X",
		KeyFeedView:         "عرض",
		KeyFeedTitle:        "التقارير المنشورة",
		KeyFormTitle:        "الإبلاغ عن احتيال",
		KeyFormSend:         "إرسال البلاغ",
		KeyFormCopy:         "نسخ البلاغ",
		KeyFormSendGmail:    "الإرسال عبر Gmail",
		KeyFormSendOutlook:  "الإرسال عبر Outlook",
		KeyTableSearch:      "ابحث عن عملة…",
	}
}
