package index

import (
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/common"
)

// NewTimestampFromMillis re-exports the shared constructor for callers
// building entries by hand.
var NewTimestampFromMillis = common.NewTimestampFromMillis

// FileMode is the mode word stored in an index entry: type bits in the
// top nibble, permissions in the low 9 bits.
type FileMode uint32

const (
	FileModeTypeMask FileMode = 0xF000
	FileModePermMask FileMode = 0x01FF
	FileModeExecMask FileMode = 0x0049

	FileModeTypeRegular FileMode = 0x8000
	FileModeTypeSymlink FileMode = 0xA000
	FileModeTypeGitlink FileMode = 0xE000
	FileModeTypeDir     FileMode = 0x0000

	FileModeRegular    FileMode = 0o100644
	FileModeExecutable FileMode = 0o100755
	FileModeSymlink    FileMode = 0o120000
	FileModeGitlink    FileMode = 0o160000
)

func (m FileMode) Type() FileMode {
	return m & FileModeTypeMask
}

func (m FileMode) Permissions() FileMode {
	return m & FileModePermMask
}

func (m FileMode) IsRegular() bool {
	return m.Type() == FileModeTypeRegular
}

func (m FileMode) IsSymlink() bool {
	return m.Type() == FileModeTypeSymlink
}

func (m FileMode) IsGitlink() bool {
	return m.Type() == FileModeTypeGitlink
}

func (m FileMode) IsDirectory() bool {
	return m.Type() == FileModeTypeDir
}

func (m FileMode) IsExecutable() bool {
	return (m & FileModeExecMask) != 0
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

// EntryFlags packs the 16-bit flags field: bit 15 assume-valid, bit 14
// extended (always zero in v2), bits 13-12 the conflict stage, and the
// low 12 bits the path length capped at 0xFFF.
type EntryFlags uint16

const (
	FlagAssumeValidBit                = 15
	FlagAssumeValidMask    EntryFlags = 0x8000
	FlagExtendedBit                   = 14
	FlagExtendedMask       EntryFlags = 0x4000
	FlagStageShift                    = 12
	FlagStageMask          EntryFlags = 0x3000
	FlagFilenameLengthMask EntryFlags = 0x0FFF
	MaxFilenameLength                 = 0x0FFF
)

// NewEntryFlags packs the components, capping the path length.
func NewEntryFlags(assumeValid bool, stage uint8, filenameLen int) EntryFlags {
	var flags EntryFlags

	if assumeValid {
		flags |= FlagAssumeValidMask
	}

	flags |= EntryFlags(stage&0x3) << FlagStageShift

	cappedLen := filenameLen
	if cappedLen > MaxFilenameLength {
		cappedLen = MaxFilenameLength
	}
	flags |= EntryFlags(cappedLen)

	return flags
}

func (f EntryFlags) AssumeValid() bool {
	return (f & FlagAssumeValidMask) != 0
}

func (f EntryFlags) Extended() bool {
	return (f & FlagExtendedMask) != 0
}

// Stage extracts the 2-bit conflict stage.
func (f EntryFlags) Stage() uint8 {
	return uint8((f & FlagStageMask) >> FlagStageShift)
}

// FilenameLength extracts the capped path length.
func (f EntryFlags) FilenameLength() int {
	return int(f & FlagFilenameLengthMask)
}

// Entry record geometry.
const (
	FixedHeaderSize   = 62
	SHALength         = 20
	FlagsLength       = 2
	FieldSize         = 4
	AlignmentBoundary = 8
)

// Index file geometry.
const (
	IndexSignature    = "DIRC"
	IndexVersion      = 2
	IndexHeaderSize   = 12
	IndexChecksumSize = 20
)
