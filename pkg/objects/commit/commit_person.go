package commit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/itsSauraj/kit-cat/pkg/common"
)

// CommitPerson is one identity line: "Name <email> <epoch> <±HHMM>".
// The same type serves author and committer.
type CommitPerson struct {
	Name  string
	Email string
	When  common.Timestamp
}

var personPattern = regexp.MustCompile(`^(.+) <([^>]+)> (\d+) ([+-]\d{4})$`)

// NewCommitPerson trims and validates name and email before building.
func NewCommitPerson(name, email string, when time.Time) (*CommitPerson, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := validateEmail(email); err != nil {
		return nil, err
	}

	return &CommitPerson{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		When:  common.NewTimestampFromTime(when),
	}, nil
}

// FormatForGit renders the wire form, with the zone offset as ±HHMM.
func (p *CommitPerson) FormatForGit() string {
	timestamp := p.When.Time().Unix()
	_, offset := p.When.Time().Zone()

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60

	return fmt.Sprintf("%s <%s> %d %s%02d%02d",
		p.Name, p.Email, timestamp, sign, hours, minutes)
}

// ParseCommitPerson decodes the wire form back into a CommitPerson,
// preserving the recorded zone offset.
func ParseCommitPerson(gitFormat string) (*CommitPerson, error) {
	matches := personPattern.FindStringSubmatch(gitFormat)
	if matches == nil {
		return nil, fmt.Errorf("invalid person format: %s", gitFormat)
	}

	name, email, timestampStr, timezoneStr := matches[1], matches[2], matches[3], matches[4]

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %w", err)
	}

	location, err := parseTimezone(timezoneStr)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	when := time.Unix(timestamp, 0).In(location)

	return NewCommitPerson(name, email, when)
}

func (p *CommitPerson) String() string {
	return fmt.Sprintf("%s <%s> at %s", p.Name, p.Email, p.When.Time().Format(time.RFC3339))
}

// Equal compares name, email, and the instant (zone-insensitive).
func (p *CommitPerson) Equal(other *CommitPerson) bool {
	if other == nil {
		return false
	}
	return p.Name == other.Name &&
		p.Email == other.Email &&
		p.When.Time().Unix() == other.When.Time().Unix()
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !strings.Contains(trimmed, "@") {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// parseTimezone turns "+0530" / "-0800" into a fixed zone.
func parseTimezone(tzString string) (*time.Location, error) {
	if len(tzString) != 5 {
		return nil, fmt.Errorf("invalid timezone length: %s", tzString)
	}

	sign := tzString[0]
	if sign != '+' && sign != '-' {
		return nil, fmt.Errorf("invalid timezone sign: %c", sign)
	}

	hours, err := strconv.Atoi(tzString[1:3])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone hours: %w", err)
	}

	minutes, err := strconv.Atoi(tzString[3:5])
	if err != nil {
		return nil, fmt.Errorf("invalid timezone minutes: %w", err)
	}

	offsetSeconds := hours*3600 + minutes*60
	if sign == '-' {
		offsetSeconds = -offsetSeconds
	}

	return time.FixedZone(tzString, offsetSeconds), nil
}
