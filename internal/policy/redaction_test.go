package policy

import "testing"

func TestRedactToken(t *testing.T) {
	token := "123456:ABC-def_ghi"

	out, changed := RedactToken(token, "send failed: Post \"https://api.telegram.org/bot123456:ABC-def_ghi/sendMessage\": EOF")
	if !changed {
		t.Fatalf("token not detected")
	}
	if want := "send failed: Post \"https://api.telegram.org/bot[REDACTED_TOKEN]/sendMessage\": EOF"; out != want {
		t.Fatalf("RedactToken() = %q, want %q", out, want)
	}

	// Even with no exact token provided, URL token segments are masked.
	out, changed = RedactToken("", "GET https://api.telegram.org/bot987:xyz/getUpdates")
	if !changed || out != "GET https://api.telegram.org/bot[REDACTED_TOKEN]/getUpdates" {
		t.Fatalf("RedactToken() = %q (changed=%v)", out, changed)
	}

	out, changed = RedactToken(token, "nothing sensitive here")
	if changed || out != "nothing sensitive here" {
		t.Fatalf("clean input modified: %q", out)
	}
}
