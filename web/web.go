// Package web holds the console's embedded HTML templates and the helper
// functions they render with.
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/erickaser0011-byte/royal-fox-admin/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded console templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html"))
}

// FuncMap returns the helpers the templates use.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"orNA":        OrNA,
		"yesNo":       YesNo,
		"fmtDate":     FormatDate,
		"fmtDateTime": FormatDateTime,
		"nextExpand":  NextExpand,
		"add":         func(a, b int) int { return a + b },
	}
}

// OrNA substitutes the placeholder for missing scalar fields.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// YesNo renders a boolean field.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// FormatDate renders a date field in the viewer's local formatting, or the
// placeholder when absent.
func FormatDate(t model.Timestamp) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("1/2/2006")
}

// FormatDateTime renders a full timestamp, or the placeholder when absent.
func FormatDateTime(t model.Timestamp) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}

// NextExpand computes the expansion state after selecting a card: selecting
// the already-expanded card collapses it, selecting another card replaces
// the expansion. At most one card is ever expanded.
func NextExpand(current, selected string) string {
	if current == selected {
		return ""
	}
	return selected
}
