package objects

import (
	"fmt"
	"os"
)

// FileMode packs an entry's type and permission bits the way trees and
// the index store them: type in the upper 4 bits, permissions in the
// lower 9. Values render in octal, e.g. 100644.
type FileMode uint32

const (
	FileModeTypeMask FileMode = 0xF000
	FileModePermMask FileMode = 0x01FF
	FileModeExecMask FileMode = 0x0049

	// Type bits.
	FileModeTypeRegular FileMode = 0x8000
	FileModeTypeSymlink FileMode = 0xA000
	FileModeTypeGitlink FileMode = 0xE000
	FileModeTypeDir     FileMode = 0x4000

	// The full mode values that actually appear on the wire.
	FileModeRegular    FileMode = 0o100644
	FileModeExecutable FileMode = 0o100755
	FileModeSymlink    FileMode = 0o120000
	FileModeGitlink    FileMode = 0o160000
	FileModeDirectory  FileMode = 0o040000
)

// Type returns just the type bits.
func (m FileMode) Type() FileMode {
	return m & FileModeTypeMask
}

// Permissions returns just the permission bits.
func (m FileMode) Permissions() FileMode {
	return m & FileModePermMask
}

func (m FileMode) IsRegular() bool {
	return m.Type() == FileModeTypeRegular
}

func (m FileMode) IsSymbolicLink() bool {
	return m.Type() == FileModeTypeSymlink
}

func (m FileMode) IsGitlink() bool {
	return m.Type() == FileModeTypeGitlink
}

func (m FileMode) IsDirectory() bool {
	return m.Type() == FileModeTypeDir
}

// IsExecutable reports whether any execute bit is set.
func (m FileMode) IsExecutable() bool {
	return (m & FileModeExecMask) != 0
}

// IsFile reports whether this is a blob-backed file entry.
func (m FileMode) IsFile() bool {
	return m.IsRegular()
}

func (m FileMode) String() string {
	switch m.Type() {
	case FileModeTypeRegular:
		return fmt.Sprintf("regular(%o)", m.Permissions())
	case FileModeTypeSymlink:
		return "symlink"
	case FileModeTypeGitlink:
		return "gitlink"
	case FileModeTypeDir:
		return "directory"
	default:
		return fmt.Sprintf("unknown(%o)", m)
	}
}

// ToOctalString renders the mode the way tree output shows it,
// zero-padded to six digits.
func (m FileMode) ToOctalString() string {
	return fmt.Sprintf("%06o", m)
}

// FromOctalString parses an octal mode string from a tree entry.
func FromOctalString(s string) (FileMode, error) {
	var mode uint32
	if _, err := fmt.Sscanf(s, "%o", &mode); err != nil {
		return 0, fmt.Errorf("invalid mode string %q: %w", s, err)
	}
	return FileMode(mode), nil
}

// FromOSFileMode classifies a working-tree stat into one of the three
// storable file modes. Used while staging.
func FromOSFileMode(mode os.FileMode) FileMode {
	if mode&os.ModeSymlink != 0 {
		return FileModeSymlink
	}
	if mode&0o111 != 0 {
		return FileModeExecutable
	}
	return FileModeRegular
}

// ToOSFileMode maps back to filesystem permissions for checkout.
func (m FileMode) ToOSFileMode() os.FileMode {
	switch m.Type() {
	case FileModeTypeSymlink:
		return os.ModeSymlink | 0o644
	case FileModeTypeRegular:
		if m.IsExecutable() {
			return 0o755
		}
		return 0o644
	default:
		return os.FileMode(m)
	}
}
