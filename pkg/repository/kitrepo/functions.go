package kitrepo

import (
	"fmt"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/objects/blob"
	"github.com/itsSauraj/kit-cat/pkg/objects/commit"
	"github.com/itsSauraj/kit-cat/pkg/objects/tree"
)

// Typed read helpers. The store returns BaseObject; callers that know
// what kind they expect use these to get the concrete type or a clear
// error.

func (r *KitcatRepository) ReadCommitObject(hash objects.ObjectHash) (*commit.Commit, error) {
	obj, err := r.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(*commit.Commit)
	if !ok {
		return nil, fmt.Errorf("object %s is not a commit", hash.Short())
	}
	return c, nil
}

func (r *KitcatRepository) ReadTreeObject(hash objects.ObjectHash) (*tree.Tree, error) {
	obj, err := r.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	t, ok := obj.(*tree.Tree)
	if !ok {
		return nil, fmt.Errorf("object %s is not a tree", hash.Short())
	}
	return t, nil
}

func (r *KitcatRepository) ReadBlobObject(hash objects.ObjectHash) (*blob.Blob, error) {
	obj, err := r.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*blob.Blob)
	if !ok {
		return nil, fmt.Errorf("object %s is not a blob", hash.Short())
	}
	return b, nil
}
