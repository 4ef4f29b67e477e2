package ignore

import "testing"

const testIgnoreFile = `# noise
*.log
build/
/rooted.txt
!important.log
`

func newTestSet(t *testing.T) *PatternSet {
	t.Helper()
	ps := NewPatternSet()
	ps.AddPatternsFromText(testIgnoreFile, "")
	return ps
}

func TestAddPatternsFromText(t *testing.T) {
	ps := newTestSet(t)

	if got := len(ps.IgnoredPatterns()); got != 3 {
		t.Errorf("ignore patterns = %d, want 3", got)
	}
	if got := len(ps.UnignoredPatterns()); got != 1 {
		t.Errorf("negation patterns = %d, want 1", got)
	}
}

func TestIsIgnored(t *testing.T) {
	ps := newTestSet(t)

	tests := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{"debug.log", false, true},
		{"nested/trace.log", false, true},
		{"build", true, true},
		{"build/a.o", false, true},
		{"rooted.txt", false, true},
		{"sub/rooted.txt", false, false},
		{"main.go", false, false},
		// The negation rescues this one despite *.log.
		{"important.log", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ps.IsIgnored(tt.path, tt.isDir, ""); got != tt.ignored {
				t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.ignored)
			}
		})
	}
}

func TestClear(t *testing.T) {
	ps := newTestSet(t)
	ps.Clear()

	if len(ps.IgnoredPatterns()) != 0 || len(ps.UnignoredPatterns()) != 0 {
		t.Error("Clear left patterns behind")
	}
	if ps.IsIgnored("debug.log", false, "") {
		t.Error("cleared set still ignoring")
	}
}

func TestDefaultIgnoreParses(t *testing.T) {
	ps := NewPatternSet()
	ps.AddPatternsFromText(DefaultIgnore, "")

	if len(ps.IgnoredPatterns()) == 0 {
		t.Fatal("default ignore text produced no patterns")
	}
	for _, path := range []string{"build", ".vscode", ".DS_Store"} {
		if !ps.IsIgnored(path, true, "") && !ps.IsIgnored(path, false, "") {
			t.Errorf("default set does not ignore %q", path)
		}
	}
}
