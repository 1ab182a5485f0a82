package telegram

import "testing"

func TestParseNewCodeArgs(t *testing.T) {
	t.Run("role, uses and explicit code", func(t *testing.T) {
		role, uses, code, err := parseNewCodeArgs("vip 5 ABC123")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if role != "vip" || uses != 5 || code != "ABC123" {
			t.Errorf("got %q/%d/%q", role, uses, code)
		}
	})

	t.Run("code may be omitted", func(t *testing.T) {
		role, uses, code, err := parseNewCodeArgs("vip 1")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if role != "vip" || uses != 1 || code != "" {
			t.Errorf("got %q/%d/%q", role, uses, code)
		}
	})

	t.Run("rejects bad shapes", func(t *testing.T) {
		for _, args := range []string{"", "vip", "vip five", "vip 5 ABC extra"} {
			if _, _, _, err := parseNewCodeArgs(args); err == nil {
				t.Errorf("parse(%q) succeeded, want error", args)
			}
		}
	})
}
