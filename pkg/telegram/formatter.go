package telegram

import (
	"fmt"
	"strings"
)

// FormatSubscriptionEvent renders a subscription lifecycle event as a Markdown
// message for the ops channel.
func FormatSubscriptionEvent(event, userID, productID, status string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*Subscription %s*\n", escapeMarkdown(event)))
	b.WriteString(fmt.Sprintf("User: `%s`\n", escapeMarkdown(userID)))
	if productID != "" {
		b.WriteString(fmt.Sprintf("Product: `%s`\n", escapeMarkdown(productID)))
	}
	b.WriteString(fmt.Sprintf("Status: *%s*", escapeMarkdown(status)))
	return b.String()
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
	return replacer.Replace(s)
}
