package slug

import (
	"regexp"
	"testing"
)

func TestMakeCases(t *testing.T) {
	cases := map[string]string{
		"Latest Nvidia Stocks-api": "latest-nvidia-stocks-api",
		"Hello, World!":            "hello-world",
		"already-clean":            "already-clean",
		"under_score ok":           "under_score-ok",
		"--trim--me--":             "trim-me",
		"Múltïple Açcents":         "m-lt-ple-a-cents",
		"!!!":                      "",
		"  spaces  ":               "spaces",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeIdempotent(t *testing.T) {
	inputs := []string{
		"Latest Nvidia Stocks-api",
		"Weather in São Paulo",
		"a--b__c  d",
		"",
		"UPPER CASE NAME",
	}
	for _, in := range inputs {
		once := Make(in)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestMakeCharset(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9_]([a-z0-9_-]*[a-z0-9_])?$`)
	inputs := []string{
		"Latest Nvidia Stocks-api",
		"hello!!world",
		"___",
		"-a-",
		"x",
		"42 is The Answer?",
	}
	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			continue
		}
		if !valid.MatchString(got) {
			t.Errorf("Make(%q) = %q, not in expected charset", in, got)
		}
	}
}
