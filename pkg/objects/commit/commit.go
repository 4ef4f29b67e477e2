// Package commit implements the commit object kind: a tree snapshot
// plus parent links, identity lines, and a message.
package commit

import (
	"fmt"
	"io"
	"strings"

	"github.com/itsSauraj/kit-cat/pkg/objects"
)

// Commit is one node of the history DAG. The canonical body is:
//
//	tree <sha>\n
//	parent <sha>\n        (one per parent; none on the root commit)
//	author <name> <email> <epoch> <±HHMM>\n
//	committer <name> <email> <epoch> <±HHMM>\n
//	\n
//	<message>
//
// Parent order matters: the first parent is the mainline, later ones
// are merged-in branches. The hash caches after first computation.
type Commit struct {
	TreeSHA    objects.ObjectHash
	ParentSHAs []objects.ObjectHash
	Author     *CommitPerson
	Committer  *CommitPerson
	Message    string
	hash       *objects.ObjectHash
}

// Validate checks every field needed to serialize a well-formed commit.
func (c *Commit) Validate() error {
	if c.TreeSHA == "" {
		return fmt.Errorf("tree SHA is required")
	}
	if err := c.TreeSHA.Validate(); err != nil {
		return fmt.Errorf("invalid tree SHA: %w", err)
	}
	for i, parent := range c.ParentSHAs {
		if err := parent.Validate(); err != nil {
			return fmt.Errorf("invalid parent SHA at index %d: %w", i, err)
		}
	}
	if c.Author == nil {
		return fmt.Errorf("author is required")
	}
	if c.Committer == nil {
		return fmt.Errorf("committer is required")
	}
	return nil
}

func (c *Commit) Type() objects.ObjectType {
	return objects.CommitType
}

// Content renders the canonical body, header excluded.
func (c *Commit) Content() (objects.ObjectContent, error) {
	var buf strings.Builder

	buf.WriteString("tree ")
	buf.WriteString(c.TreeSHA.String())
	buf.WriteString("\n")

	for _, parent := range c.ParentSHAs {
		buf.WriteString("parent ")
		buf.WriteString(parent.String())
		buf.WriteString("\n")
	}

	buf.WriteString("author ")
	buf.WriteString(c.Author.FormatForGit())
	buf.WriteString("\n")

	buf.WriteString("committer ")
	buf.WriteString(c.Committer.FormatForGit())
	buf.WriteString("\n")

	buf.WriteString("\n")
	buf.WriteString(c.Message)

	return objects.ObjectContent(buf.String()), nil
}

// Hash returns the hash of the canonical serialized form, computing it
// once.
func (c *Commit) Hash() (objects.ObjectHash, error) {
	if c.hash != nil {
		return *c.hash, nil
	}

	content, err := c.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get content: %w", err)
	}

	hash := objects.ComputeObjectHash(objects.CommitType, content)
	c.hash = &hash
	return hash, nil
}

// RawHash returns the hash in 20-byte binary form.
func (c *Commit) RawHash() (objects.RawHash, error) {
	hash, err := c.Hash()
	if err != nil {
		return objects.RawHash{}, err
	}
	return hash.Raw()
}

// Size is the body length in bytes.
func (c *Commit) Size() (objects.ObjectSize, error) {
	content, err := c.Content()
	if err != nil {
		return 0, err
	}
	return content.Size(), nil
}

// Serialize validates, then writes "commit <size>\0<body>" to w.
func (c *Commit) Serialize(w io.Writer) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid commit: %w", err)
	}

	content, err := c.Content()
	if err != nil {
		return fmt.Errorf("failed to get content: %w", err)
	}

	serialized := objects.NewSerializedObject(objects.CommitType, content)

	if _, err := w.Write(serialized.Bytes()); err != nil {
		return fmt.Errorf("failed to write commit: %w", err)
	}

	return nil
}

func (c *Commit) String() string {
	hash, err := c.Hash()
	if err != nil {
		return fmt.Sprintf("Commit{tree: %s, parents: %d, error: %v}",
			c.TreeSHA.Short(), len(c.ParentSHAs), err)
	}
	return fmt.Sprintf("Commit{hash: %s, tree: %s, parents: %d, message: %.50s...}",
		hash.Short(), c.TreeSHA.Short(), len(c.ParentSHAs), c.Message)
}

// ParseCommit reads a serialized "commit <size>\0<body>" form back into
// a Commit, caching the input's hash.
func ParseCommit(data []byte) (*Commit, error) {
	content, err := objects.ParseSerializedObject(data, objects.CommitType)
	if err != nil {
		return nil, err
	}

	commit, err := parseCommitContent(content.String())
	if err != nil {
		return nil, err
	}

	hash := objects.NewObjectHash(objects.SerializedObject(data))
	commit.hash = &hash
	return commit, nil
}

// parseCommitContent splits headers from message at the first blank
// line, then decodes each header line.
func parseCommitContent(content string) (*Commit, error) {
	lines := strings.Split(content, "\n")
	commit := &Commit{
		ParentSHAs: make([]objects.ObjectHash, 0),
	}

	messageStartIndex := -1

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			messageStartIndex = i + 1
			break
		}

		if err := parseCommitLine(commit, line); err != nil {
			return nil, err
		}
	}

	if err := commit.Validate(); err != nil {
		return nil, fmt.Errorf("invalid commit: %w", err)
	}

	if messageStartIndex != -1 && messageStartIndex < len(lines) {
		commit.Message = strings.Join(lines[messageStartIndex:], "\n")
	}

	return commit, nil
}

func parseCommitLine(commit *Commit, line string) error {
	switch {
	case strings.HasPrefix(line, "tree "):
		if commit.TreeSHA != "" {
			return fmt.Errorf("multiple tree entries found")
		}
		treeSHA, err := objects.NewObjectHashFromString(strings.TrimPrefix(line, "tree "))
		if err != nil {
			return fmt.Errorf("invalid tree SHA: %w", err)
		}
		commit.TreeSHA = treeSHA

	case strings.HasPrefix(line, "parent "):
		parentSHA, err := objects.NewObjectHashFromString(strings.TrimPrefix(line, "parent "))
		if err != nil {
			return fmt.Errorf("invalid parent SHA: %w", err)
		}
		commit.ParentSHAs = append(commit.ParentSHAs, parentSHA)

	case strings.HasPrefix(line, "author "):
		if commit.Author != nil {
			return fmt.Errorf("multiple author entries found")
		}
		author, err := ParseCommitPerson(strings.TrimPrefix(line, "author "))
		if err != nil {
			return fmt.Errorf("invalid author: %w", err)
		}
		commit.Author = author

	case strings.HasPrefix(line, "committer "):
		if commit.Committer != nil {
			return fmt.Errorf("multiple committer entries found")
		}
		committer, err := ParseCommitPerson(strings.TrimPrefix(line, "committer "))
		if err != nil {
			return fmt.Errorf("invalid committer: %w", err)
		}
		commit.Committer = committer

	default:
		return fmt.Errorf("unknown header line: %s", line)
	}

	return nil
}

// IsInitialCommit reports whether this is a parentless root commit.
func (c *Commit) IsInitialCommit() bool {
	return len(c.ParentSHAs) == 0
}

// IsMergeCommit reports whether this commit joins multiple parents.
func (c *Commit) IsMergeCommit() bool {
	return len(c.ParentSHAs) > 1
}

// ShortSHA returns the 7-character abbreviation of the commit hash.
func (c *Commit) ShortSHA() (objects.ShortHash, error) {
	hash, err := c.Hash()
	if err != nil {
		return "", err
	}
	return hash.Short(), nil
}

// Equal compares all serializable fields.
func (c *Commit) Equal(other *Commit) bool {
	if other == nil {
		return false
	}

	if c.TreeSHA != other.TreeSHA {
		return false
	}

	if len(c.ParentSHAs) != len(other.ParentSHAs) {
		return false
	}

	for i, parent := range c.ParentSHAs {
		if parent != other.ParentSHAs[i] {
			return false
		}
	}

	if !c.Author.Equal(other.Author) {
		return false
	}

	if !c.Committer.Equal(other.Committer) {
		return false
	}

	return c.Message == other.Message
}

// HasParent reports whether parentSHA appears among the parents.
func (c *Commit) HasParent(parentSHA objects.ObjectHash) bool {
	for _, parent := range c.ParentSHAs {
		if parent.Equal(parentSHA) {
			return true
		}
	}
	return false
}
