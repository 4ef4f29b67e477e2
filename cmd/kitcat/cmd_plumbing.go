package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/itsSauraj/kit-cat/pkg/commitmanager"
	"github.com/itsSauraj/kit-cat/pkg/index"
	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
	"github.com/itsSauraj/kit-cat/pkg/refs/branch"
	"github.com/itsSauraj/kit-cat/pkg/repository/refs"
)

// newPlumbingCmds returns the low-level, scriptable commands that expose the
// object store, index, and refs directly - the same "plumbing" role
// hash-object/cat-file/write-tree/show-ref play, here named for what kitcat
// stores rather than borrowed from another tool's vocabulary.
func newPlumbingCmds() []*cobra.Command {
	return []*cobra.Command{
		newHashObjectCmd(),
		newReadFileCmd(),
		newWriteTreeCmd(),
		newListTreeCmd(),
		newShowCommitCmd(),
		newReadIndexCmd(),
		newReadHeadCmd(),
		newWriteHeadCmd(),
	}
}

func newHashObjectCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "hash-object PATH",
		Short: "Compute the object hash of a file, optionally writing it to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			b := blob.NewBlob(data)
			hash, err := b.Hash()
			if err != nil {
				return fmt.Errorf("compute hash: %w", err)
			}

			if write {
				repo, err := findRepository()
				if err != nil {
					return err
				}
				if _, err := repo.WriteObject(b); err != nil {
					return fmt.Errorf("write object: %w", err)
				}
			}

			fmt.Println(hash.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the object into the object store")
	return cmd
}

func newReadFileCmd() *cobra.Command {
	var pretty bool
	var size bool
	var showType bool

	cmd := &cobra.Command{
		Use:   "read-file HASH",
		Short: "Inspect an object by hash or hash prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			objStore := repo.ObjectStore()
			full, err := objStore.ResolvePrefix(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			obj, err := repo.ReadObject(full)
			if err != nil {
				return fmt.Errorf("read object: %w", err)
			}

			switch {
			case size:
				sz, err := obj.Size()
				if err != nil {
					return fmt.Errorf("compute size: %w", err)
				}
				fmt.Println(sz.Int64())
			case showType:
				fmt.Println(obj.Type())
			default:
				// -p (pretty) and the no-flag default both dump the raw content.
				content, err := obj.Content()
				if err != nil {
					return fmt.Errorf("read content: %w", err)
				}
				os.Stdout.Write(content.Bytes())
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Pretty-print the object's content")
	cmd.Flags().BoolVarP(&size, "size", "s", false, "Print the object's content size instead of its content")
	cmd.Flags().BoolVarP(&showType, "type", "t", false, "Print the object's type instead of its content")

	return cmd
}

func newWriteTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Build a tree object from the current index and print its hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			idx, err := index.Read(repo.KitcatDirectory().IndexPath().ToAbsolutePath())
			if err != nil {
				return fmt.Errorf("read index: %w", err)
			}
			if idx.Count() == 0 {
				return fmt.Errorf("cannot write-tree from an empty index")
			}

			builder := commitmanager.NewTreeBuilder(repo)
			treeHash, err := builder.BuildFromIndex(context.Background(), idx)
			if err != nil {
				return fmt.Errorf("build tree: %w", err)
			}

			fmt.Println(treeHash.String())
			return nil
		},
	}
}

func newListTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-tree HASH",
		Short: "Recursively enumerate the paths held by a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			full, err := repo.ObjectStore().ResolvePrefix(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			return listTreeRecursive(repo, full, "")
		},
	}
}

// listTreeRecursive flattens a tree into `<mode> <hash> <path>` lines,
// descending into subtrees depth-first, mirroring how a tree reader
// enumerates nested directory snapshots into flat path lists.
func listTreeRecursive(repo interface {
	ReadObject(hash objects.ObjectHash) (objects.BaseObject, error)
}, hash objects.ObjectHash, prefix string) error {
	obj, err := repo.ReadObject(hash)
	if err != nil {
		return fmt.Errorf("read tree %s: %w", hash, err)
	}

	t, ok := obj.(*tree.Tree)
	if !ok {
		return fmt.Errorf("%s is not a tree object", hash)
	}

	for _, entry := range t.Entries() {
		path := entry.Name()
		if prefix != "" {
			path = prefix + "/" + path
		}

		fmt.Printf("%06o %s %s\n", uint32(entry.Mode()), entry.SHA().String(), path)

		if entry.IsDirectory() {
			if err := listTreeRecursive(repo, entry.SHA(), path); err != nil {
				return err
			}
		}
	}

	return nil
}

func newShowCommitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-commit HASH",
		Short: "Read and format a commit object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			full, err := repo.ObjectStore().ResolvePrefix(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			c, err := repo.ReadCommitObject(full)
			if err != nil {
				return fmt.Errorf("read commit: %w", err)
			}

			fmt.Printf("commit %s\n", full.String())
			for _, parent := range c.ParentSHAs {
				fmt.Printf("parent %s\n", parent.String())
			}
			if c.Author != nil {
				fmt.Printf("Author: %s <%s>\n", c.Author.Name, c.Author.Email)
				fmt.Printf("Date:   %s\n", c.Author.When.Time().Format(time.RFC1123Z))
			}
			fmt.Println()
			fmt.Println(c.Message)
			return nil
		},
	}
}

func newReadIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-index",
		Short: "Print the raw staging index, one entry per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			idx, err := index.Read(repo.KitcatDirectory().IndexPath().ToAbsolutePath())
			if err != nil {
				return fmt.Errorf("read index: %w", err)
			}

			for _, path := range idx.Paths() {
				entry, ok := idx.Get(path)
				if !ok {
					continue
				}
				stage := ""
				if entry.Stage != 0 {
					stage = " stage=" + strconv.Itoa(int(entry.Stage))
				}
				fmt.Printf("%06o %s%s\t%s\n", uint32(entry.Mode), entry.BlobHash.String(), stage, entry.Path.String())
			}

			return nil
		},
	}
}

func newReadHeadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-head",
		Short: "Print the raw HEAD reference (symbolic branch or detached commit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			refMgr := refs.NewRefManager(repo)
			content, err := refMgr.ReadRef(refs.RefHEAD)
			if err != nil {
				return fmt.Errorf("read HEAD: %w", err)
			}

			fmt.Println(content)
			return nil
		},
	}
}

func newWriteHeadCmd() *cobra.Command {
	var detached bool

	cmd := &cobra.Command{
		Use:   "write-head TARGET",
		Short: "Point HEAD at a branch name (symbolic) or commit hash (detached)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := findRepository()
			if err != nil {
				return err
			}

			refMgr := refs.NewRefManager(repo)
			branchRefSvc := branch.NewBranchRefManager(refMgr)

			if detached {
				hash, err := objects.ParseObjectHash(args[0])
				if err != nil {
					return fmt.Errorf("invalid commit hash %q: %w", args[0], err)
				}
				return branchRefSvc.SetHeadDetached(hash)
			}

			return branchRefSvc.SetHead(args[0])
		},
	}

	cmd.Flags().BoolVar(&detached, "detach", false, "Treat TARGET as a commit hash and detach HEAD")
	return cmd
}
