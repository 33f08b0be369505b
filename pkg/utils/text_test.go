package utils

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestTruncateSentences(t *testing.T) {
	short := "One. Two. Three."
	if TruncateSentences(short, 100, 2) != short {
		t.Error("short input should be returned unchanged")
	}

	long := strings.Repeat("word ", 50) + "end. " +
		"Second sentence here. Third sentence here. Fourth sentence here."
	got := TruncateSentences(long, 10, 2)
	if !strings.HasSuffix(got, ".") {
		t.Errorf("expected trailing period, got %q", got)
	}
	if strings.Count(got, ". ") > 1 {
		t.Errorf("expected at most 2 sentences, got %q", got)
	}
}
