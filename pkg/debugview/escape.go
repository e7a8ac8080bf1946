package debugview

import "strings"

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape makes s safe for use inside a double-quoted markup attribute.
func Escape(s string) string {
	return attrEscaper.Replace(s)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
