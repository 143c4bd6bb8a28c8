package utils

import "testing"

func TestGetEnv(t *testing.T) {
	if got := GetEnv("STOREFRONT_TEST_UNSET", "fallback", nil); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
	t.Setenv("STOREFRONT_TEST_SET", "value")
	if got := GetEnv("STOREFRONT_TEST_SET", "fallback", nil); got != "value" {
		t.Fatalf("got %q, want value", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	if got := GetEnvAsInt("STOREFRONT_TEST_UNSET", 42, nil); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	t.Setenv("STOREFRONT_TEST_INT", "7")
	if got := GetEnvAsInt("STOREFRONT_TEST_INT", 42, nil); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	t.Setenv("STOREFRONT_TEST_INT", "not-a-number")
	if got := GetEnvAsInt("STOREFRONT_TEST_INT", 42, nil); got != 42 {
		t.Fatalf("got %d, want fallback 42", got)
	}
}
