package config

import "github.com/itsSauraj/kit-cat/pkg/repository/kcpath"

// ConfigSource names where an entry came from: a file path, or one
// of the two special non-file sources.
type ConfigSource string

const (
	CommandLineSource ConfigSource = "command-line"

	BuiltinSource ConfigSource = "builtin"
)

// NewFileSource wraps a config file's path as its source.
func NewFileSource(path kcpath.AbsolutePath) ConfigSource {
	return ConfigSource(path.String())
}


func (s ConfigSource) String() string {
	return string(s)
}


func (s ConfigSource) IsCommandLine() bool {
	return s == CommandLineSource
}


func (s ConfigSource) IsBuiltin() bool {
	return s == BuiltinSource
}

// IsFile reports whether the source is a real file path.
func (s ConfigSource) IsFile() bool {
	return !s.IsCommandLine() && !s.IsBuiltin()
}


func (s ConfigSource) IsValid() bool {
	return s != ""
}
