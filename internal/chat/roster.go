package chat

import "strings"

const rosterHeading = "Subscribers:"

// FormatRoster renders the participant list as space-joined @handles.
func FormatRoster(users []User) string {
	var b strings.Builder
	for _, u := range users {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('@')
		b.WriteString(u.DisplayName())
	}
	return b.String()
}

// RebuildRoster strips any prior roster suffix from text and appends a fresh
// one for users. Applying it twice with the same users yields the same text.
func RebuildRoster(text string, users []User) string {
	base := text
	if i := strings.Index(base, rosterHeading); i >= 0 {
		base = base[:i]
	}
	return base + rosterHeading + "\n" + FormatRoster(users)
}
