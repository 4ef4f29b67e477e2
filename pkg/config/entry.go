package config

import (
	"strconv"
	"strings"
)

// ConfigEntry is one key-value pair plus where it came from: which
// level won, which file or special source supplied it, and the line
// for diagnostics.
type ConfigEntry struct {
	Key        string
	Value      string
	Level      ConfigLevel
	Source     ConfigSource
	LineNumber int
}

// NewEntry builds an entry with full provenance.
func NewEntry(key, value string, level ConfigLevel, source ConfigSource, lineNumber int) *ConfigEntry {
	return &ConfigEntry{
		Key:        key,
		Value:      value,
		Level:      level,
		Source:     source,
		LineNumber: lineNumber,
	}
}

func NewCommandLineEntry(key, value string) *ConfigEntry {
	return &ConfigEntry{
		Key:        key,
		Value:      value,
		Level:      CommandLineLevel,
		Source:     CommandLineSource,
		LineNumber: 0,
	}
}

func NewBuiltinEntry(key, value string) *ConfigEntry {
	return &ConfigEntry{
		Key:        key,
		Value:      value,
		Level:      BuiltinLevel,
		Source:     BuiltinSource,
		LineNumber: 0,
	}
}

// AsString returns the raw value.
func (e *ConfigEntry) AsString() string {
	return e.Value
}

// AsInt parses the value as an int.
func (e *ConfigEntry) AsInt() (int, error) {
	val, err := strconv.Atoi(e.Value)
	if err != nil {
		return 0, NewConfigError("convert", CodeConversionErr, e.Key, "", "", err)
	}
	return val, nil
}

// AsInt64 parses the value as an int64.
func (e *ConfigEntry) AsInt64() (int64, error) {
	val, err := strconv.ParseInt(e.Value, 10, 64)
	if err != nil {
		return 0, NewConfigError("convert", CodeConversionErr, e.Key, "", "", err)
	}
	return val, nil
}

// AsFloat64 parses the value as a float64.
func (e *ConfigEntry) AsFloat64() (float64, error) {
	val, err := strconv.ParseFloat(e.Value, 64)
	if err != nil {
		return 0, NewConfigError("convert", CodeConversionErr, e.Key, "", "", err)
	}
	return val, nil
}

// AsBoolean accepts the usual spellings: true/yes/1/on and
// false/no/0/off, case-insensitively.
func (e *ConfigEntry) AsBoolean() (bool, error) {
	lower := strings.ToLower(strings.TrimSpace(e.Value))
	switch lower {
	case "true", "yes", "1", "on":
		return true, nil
	case "false", "no", "0", "off":
		return false, nil
	default:
		return false, NewConfigError("convert", CodeConversionErr, e.Key, "", "", ErrConversion)
	}
}

// AsList splits on commas, trimming and dropping empty elements.
func (e *ConfigEntry) AsList() []string {
	if e.Value == "" {
		return []string{}
	}

	parts := strings.Split(e.Value, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Clone copies the entry.
func (e *ConfigEntry) Clone() *ConfigEntry {
	return &ConfigEntry{
		Key:        e.Key,
		Value:      e.Value,
		Level:      e.Level,
		Source:     e.Source,
		LineNumber: e.LineNumber,
	}
}
