package chat

import "testing"

func TestFormatRosterPrefersUsername(t *testing.T) {
	got := FormatRoster([]User{
		{ID: 1, Username: "alice"},
		{ID: 2, FirstName: "Bob"},
	})
	if got != "@alice @Bob" {
		t.Fatalf("FormatRoster() = %q", got)
	}
}

func TestRebuildRosterStripsPriorSuffix(t *testing.T) {
	text := "New Pomodoro!\n\nSubscribers:\n@alice"
	users := []User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}

	got := RebuildRoster(text, users)
	want := "New Pomodoro!\n\nSubscribers:\n@alice @bob"
	if got != want {
		t.Fatalf("RebuildRoster() = %q, want %q", got, want)
	}

	// Idempotent when applied again with the same roster.
	if again := RebuildRoster(got, users); again != want {
		t.Fatalf("RebuildRoster() second pass = %q, want %q", again, want)
	}
}

func TestRebuildRosterWithoutPriorSuffix(t *testing.T) {
	got := RebuildRoster("Hello\n\n", []User{{ID: 1, Username: "alice"}})
	if got != "Hello\n\nSubscribers:\n@alice" {
		t.Fatalf("RebuildRoster() = %q", got)
	}
}
