package refs

import "testing"

func TestRefPathIsValid(t *testing.T) {
	tests := []struct {
		path RefPath
		want bool
	}{
		{"refs/heads/main", true},
		{"refs/tags/v1.0.0", true},
		{"HEAD", true},
		{"refs/heads/my branch", false},
		{"refs/../heads/main", false},
		{"refs/heads/main.lock", false},
		{".refs/heads/main", false},
		{"refs/heads/a~b", false},
		{"refs//heads", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if got := tt.path.IsValid(); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRefPathCategories(t *testing.T) {
	tests := []struct {
		path     RefPath
		isBranch bool
		isTag    bool
		isRemote bool
		isHEAD   bool
	}{
		{"refs/heads/main", true, false, false, false},
		{"refs/tags/v1.0.0", false, true, false, false},
		{"refs/remotes/origin/main", false, false, true, false},
		{"HEAD", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if tt.path.IsBranch() != tt.isBranch {
				t.Errorf("IsBranch() = %v", tt.path.IsBranch())
			}
			if tt.path.IsTag() != tt.isTag {
				t.Errorf("IsTag() = %v", tt.path.IsTag())
			}
			if tt.path.IsRemote() != tt.isRemote {
				t.Errorf("IsRemote() = %v", tt.path.IsRemote())
			}
			if tt.path.IsHEAD() != tt.isHEAD {
				t.Errorf("IsHEAD() = %v", tt.path.IsHEAD())
			}
		})
	}
}

func TestRefPathShortName(t *testing.T) {
	tests := []struct {
		path RefPath
		want string
	}{
		{"refs/heads/main", "main"},
		{"refs/heads/feature/login", "feature/login"},
		{"refs/tags/v1.0.0", "v1.0.0"},
		{"refs/remotes/origin/main", "origin/main"},
		{"HEAD", "HEAD"},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			if got := tt.path.ShortName(); got != tt.want {
				t.Errorf("ShortName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewBranchRef(t *testing.T) {
	ref, err := NewBranchRef("feature/login")
	if err != nil {
		t.Fatalf("NewBranchRef: %v", err)
	}
	if ref != "refs/heads/feature/login" {
		t.Errorf("ref = %q", ref)
	}

	for _, bad := range []string{"", "has space", "dot.", "a..b"} {
		if _, err := NewBranchRef(bad); err == nil {
			t.Errorf("NewBranchRef(%q) should fail", bad)
		}
	}
}

func TestNewTagRef(t *testing.T) {
	ref, err := NewTagRef("v2.1.0")
	if err != nil {
		t.Fatalf("NewTagRef: %v", err)
	}
	if ref != "refs/tags/v2.1.0" {
		t.Errorf("ref = %q", ref)
	}

	if _, err := NewTagRef(""); err == nil {
		t.Error("empty tag name should fail")
	}
}

func TestNewRemoteRef(t *testing.T) {
	ref, err := NewRemoteRef("origin", "main")
	if err != nil {
		t.Fatalf("NewRemoteRef: %v", err)
	}
	if ref != "refs/remotes/origin/main" {
		t.Errorf("ref = %q", ref)
	}

	if _, err := NewRemoteRef("", "main"); err == nil {
		t.Error("empty remote should fail")
	}
	if _, err := NewRemoteRef("origin", ""); err == nil {
		t.Error("empty branch should fail")
	}
}
