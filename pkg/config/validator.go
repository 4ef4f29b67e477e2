package config

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Validator applies semantic checks to the keys kitcat understands.
// Unknown sections and names pass through so users can stash their own
// keys.
type Validator struct{}

// ValidateKeyValue checks one key-value pair. Keys must be at least
// "section.name"; deeper keys keep the middle as a subsection.
func (v *Validator) ValidateKeyValue(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return NewInvalidValueError(key, fmt.Errorf("configuration key must have at least section.name format"))
	}

	section := parts[0]
	name := parts[len(parts)-1]

	return v.validateBySection(section, name, value)
}

func (v *Validator) validateBySection(section, name, value string) error {
	switch section {
	case "core":
		return v.validateCore(name, value)
	case "user":
		return v.validateUser(name, value)
	case "color":
		return v.validateColor(name, value)
	case "init":
		return v.validateInit(name, value)
	default:
		return nil
	}
}

func (v *Validator) validateCore(name, value string) error {
	switch name {
	case "repositoryformatversion":
		return v.validateInt(value, "core.repositoryformatversion")
	case "filemode", "bare", "logallrefupdates", "ignorecase":
		return v.validateBoolean(value, "core."+name)
	default:
		return nil
	}
}

func (v *Validator) validateUser(name, value string) error {
	switch name {
	case "email":
		return v.validateEmail(value)
	case "name":
		if strings.TrimSpace(value) == "" {
			return NewInvalidValueError("user.name", fmt.Errorf("user name cannot be empty"))
		}
		return nil
	default:
		return nil
	}
}

func (v *Validator) validateColor(name, value string) error {
	switch name {
	case "ui":
		return v.validateColorUI(value)
	default:
		return nil
	}
}

func (v *Validator) validateInit(name, value string) error {
	switch name {
	case "defaultbranch":
		return v.validateBranchName(value)
	default:
		return nil
	}
}

func (v *Validator) validateInt(value, key string) error {
	if _, err := strconv.Atoi(value); err != nil {
		return NewInvalidValueError(key, fmt.Errorf("must be an integer: %v", err))
	}
	return nil
}

func (v *Validator) validateBoolean(value, key string) error {
	lower := strings.ToLower(strings.TrimSpace(value))
	validValues := []string{"true", "false", "yes", "no", "1", "0", "on", "off"}
	if slices.Contains(validValues, lower) {
		return nil
	}
	return NewInvalidValueError(key, fmt.Errorf("must be a boolean (true/false/yes/no/1/0/on/off)"))
}

func (v *Validator) validateEmail(value string) error {
	if strings.TrimSpace(value) == "" {
		return NewInvalidValueError("user.email", fmt.Errorf("email cannot be empty"))
	}

	if _, err := mail.ParseAddress(value); err != nil {
		return NewInvalidValueError("user.email", fmt.Errorf("invalid email format: %v", err))
	}
	return nil
}

func (v *Validator) validateColorUI(value string) error {
	validValues := []string{"auto", "always", "never", "true", "false"}
	lower := strings.ToLower(strings.TrimSpace(value))
	if slices.Contains(validValues, lower) {
		return nil
	}
	return NewInvalidValueError("color.ui", fmt.Errorf("must be one of: auto, always, never, true, false"))
}

// validateBranchName mirrors the ref-name rules so init.defaultbranch
// cannot be set to an unusable name.
func (v *Validator) validateBranchName(value string) error {
	if strings.TrimSpace(value) == "" {
		return NewInvalidValueError("branch.name", fmt.Errorf("branch name cannot be empty"))
	}

	invalidPatterns := []string{
		`^\.`,
		`\.\.|@\{|\\`,
		`//`,
		`[~^:?*\[\]]`,
		`\.lock$`,
		`/$`,
		` `,
	}

	for _, pattern := range invalidPatterns {
		if matched, _ := regexp.MatchString(pattern, value); matched {
			return NewInvalidValueError("branch.name", fmt.Errorf("invalid branch name format"))
		}
	}

	return nil
}
