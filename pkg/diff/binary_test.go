package diff

import "testing"

func TestLooksBinary(t *testing.T) {
	cases := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"plain text", []byte("hello world\n"), false},
		{"nul byte", []byte("hello\x00world"), true},
		{"empty", []byte{}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := looksBinary(c.content); got != c.want {
				t.Errorf("looksBinary(%q) = %v, want %v", c.content, got, c.want)
			}
		})
	}
}
