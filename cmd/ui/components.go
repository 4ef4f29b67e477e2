package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FileStatus selects the icon and color a status line gets.
type FileStatus int

const (
	StatusModified FileStatus = iota
	StatusDeleted
	StatusAdded
	StatusUntracked
)

// FormatFileStatus renders one status line: indent, icon, path, all in
// the status color.
func FormatFileStatus(status FileStatus, path string) string {
	switch status {
	case StatusModified:
		return fmt.Sprintf("  %s  %s", ModifiedStyle.Render(IconModified), ModifiedStyle.Render(path))
	case StatusDeleted:
		return fmt.Sprintf("  %s  %s", DeletedStyle.Render(IconDeleted), DeletedStyle.Render(path))
	case StatusAdded:
		return fmt.Sprintf("  %s  %s", AddedStyle.Render(IconAdded), AddedStyle.Render(path))
	case StatusUntracked:
		return fmt.Sprintf("  %s  %s", UntrackedStyle.Render(IconUntracked), UntrackedStyle.Render(path))
	default:
		return path
	}
}

func FormatModified(path string) string {
	return FormatFileStatus(StatusModified, path)
}

func FormatDeleted(path string) string {
	return FormatFileStatus(StatusDeleted, path)
}

func FormatAdded(path string) string {
	return FormatFileStatus(StatusAdded, path)
}

func FormatUntracked(path string) string {
	return FormatFileStatus(StatusUntracked, path)
}

// SuccessMessage renders a green checkmarked message, details in blue.
func SuccessMessage(message string, details ...string) string {
	var parts []string
	parts = append(parts, Green(IconCheckmark), Green(message))

	for _, detail := range details {
		parts = append(parts, Blue(detail))
	}

	return strings.Join(parts, " ")
}

// BranchInfo renders the branch banner line.
func BranchInfo(branchName string) string {
	return fmt.Sprintf("%s Branch: %s", Cyan(IconBranch), Blue(branchName))
}

// CommitInfo is the display shape of one commit.
type CommitInfo struct {
	Hash    string
	Author  string
	Date    string
	Message string
}

// FormatCommitDetailed renders a commit in its box: hash, author, date,
// then the message.
func FormatCommitDetailed(commit CommitInfo) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("%s %s\n", Yellow(IconCommit), Yellow(commit.Hash)))
	content.WriteString(fmt.Sprintf("%s %s\n", Cyan(IconAuthor), Cyan(commit.Author)))
	content.WriteString(fmt.Sprintf("%s %s\n", Magenta(IconDate), Magenta(commit.Date)))

	messageStyle := ColorCyanStyle.MarginTop(1)
	content.WriteString(messageStyle.Render(commit.Message))

	return CommitBox(content.String())
}

// FormatCommitSeparator renders the dim rule between commits.
func FormatCommitSeparator() string {
	separatorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	return separatorStyle.Render(IconSeparator)
}

func ErrorMessage(message string) string {
	return Red(message)
}

func WarningMessage(message string) string {
	return Yellow(message)
}

func InfoMessage(message string) string {
	return Blue(message)
}
