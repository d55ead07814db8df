package env

import "testing"

func TestGetFallback(t *testing.T) {
	if got := Get("SKYLIGHT_TEST_UNSET_KEY", "fallback"); got != "fallback" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestGetSet(t *testing.T) {
	t.Setenv("SKYLIGHT_TEST_KEY", "value")
	if got := Get("SKYLIGHT_TEST_KEY", "fallback"); got != "value" {
		t.Fatalf("unexpected value %q", got)
	}
}
