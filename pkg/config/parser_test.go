package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	p := &Parser{}

	content := `{
  "core": {
    "filemode": "false",
    "bare": "true"
  },
  "user": {
    "name": "Ada",
    "email": "ada@example.com"
  }
}`

	entries, err := p.Parse(content, "test-file", RepositoryLevel)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := map[string]string{
		"core.filemode": "false",
		"core.bare":     "true",
		"user.name":     "Ada",
		"user.email":    "ada@example.com",
	}
	for key, value := range want {
		list := entries[key]
		if len(list) != 1 || list[0].Value != value {
			t.Errorf("entries[%q] = %v, want %q", key, list, value)
		}
	}

	if entries["user.name"][0].Level != RepositoryLevel {
		t.Error("level not propagated")
	}
	if entries["user.name"][0].Source != "test-file" {
		t.Error("source not propagated")
	}
}

func TestParseEdgeCases(t *testing.T) {
	p := &Parser{}

	t.Run("empty content", func(t *testing.T) {
		entries, err := p.Parse("", "s", UserLevel)
		if err != nil || len(entries) != 0 {
			t.Errorf("Parse(empty) = %v, %v", entries, err)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := p.Parse("{not json", "s", UserLevel); err == nil {
			t.Error("invalid JSON accepted")
		}
	})

	t.Run("array becomes multi-value", func(t *testing.T) {
		entries, err := p.Parse(`{"custom": {"tags": ["a", "b"]}}`, "s", UserLevel)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries["custom.tags"]) != 2 {
			t.Errorf("custom.tags = %v", entries["custom.tags"])
		}
	})

	t.Run("non-string scalars stringified", func(t *testing.T) {
		entries, err := p.Parse(`{"core": {"repositoryformatversion": 0}}`, "s", UserLevel)
		if err != nil {
			t.Fatal(err)
		}
		if entries["core.repositoryformatversion"][0].Value != "0" {
			t.Errorf("value = %q", entries["core.repositoryformatversion"][0].Value)
		}
	})

	t.Run("deep nesting", func(t *testing.T) {
		entries, err := p.Parse(`{"a": {"b": {"c": "deep"}}}`, "s", UserLevel)
		if err != nil {
			t.Fatal(err)
		}
		if entries["a.b.c"][0].Value != "deep" {
			t.Errorf("a.b.c = %v", entries["a.b.c"])
		}
	})
}

func TestValidate(t *testing.T) {
	p := &Parser{}

	if r := p.Validate(`{"core": {"bare": "false"}}`); !r.Valid {
		t.Errorf("valid config rejected: %v", r.Errors)
	}
	if r := p.Validate(`[1, 2]`); r.Valid {
		t.Error("top-level array accepted")
	}
	if r := p.Validate(`{bad`); r.Valid {
		t.Error("broken JSON accepted")
	}
	if r := p.Validate(`{"k": [{"nested": "object"}]}`); r.Valid {
		t.Error("object inside array accepted")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	p := &Parser{}

	original := `{
  "core": {
    "bare": "false"
  },
  "user": {
    "email": "ada@example.com",
    "name": "Ada"
  }
}`

	entries, err := p.Parse(original, "s", UserLevel)
	if err != nil {
		t.Fatal(err)
	}

	serialized, err := p.Serialize(entries)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	reparsed, err := p.Parse(serialized, "s", UserLevel)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	if len(reparsed) != len(entries) {
		t.Fatalf("round-trip key count %d != %d", len(reparsed), len(entries))
	}
	for key, list := range entries {
		got := reparsed[key]
		if len(got) != len(list) || got[0].Value != list[0].Value {
			t.Errorf("round-trip changed %q: %v vs %v", key, got, list)
		}
	}
}

func TestFormatForDisplayTakesEffectiveValue(t *testing.T) {
	p := &Parser{}

	entries := map[string][]*ConfigEntry{
		"user.name": {
			NewEntry("user.name", "older", UserLevel, "s", 0),
			NewEntry("user.name", "newest", UserLevel, "s", 0),
		},
	}

	out, err := p.FormatForDisplay(entries)
	if err != nil {
		t.Fatalf("FormatForDisplay: %v", err)
	}
	if !strings.Contains(out, "newest") || strings.Contains(out, "older") {
		t.Errorf("display output = %s", out)
	}
}
