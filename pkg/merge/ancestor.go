package merge

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/itsSauraj/kit-cat/pkg/objects"
	"github.com/itsSauraj/kit-cat/pkg/repository/kitrepo"
)

// FindMergeBase finds the lowest common ancestor of two commits by walking
// both histories breadth-first across every parent edge (not just
// first-parent, so merge commits on either side are handled correctly).
//
// The two collection passes run concurrently: one gathers the full set of
// commits reachable from a, the other walks from b in visitation order. The
// base is the first commit in b's BFS order that also appears in a's
// reachable set - exactly a == b when one is a direct ancestor of the
// other, which is what fast-forward and up-to-date detection rely on.
func FindMergeBase(ctx context.Context, repo *kitrepo.KitcatRepository, a, b objects.ObjectHash) (objects.ObjectHash, error) {
	var aAncestors map[string]bool
	var bOrder []objects.ObjectHash

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := collectAncestorSet(gctx, repo, a)
		aAncestors = set
		return err
	})
	g.Go(func() error {
		order, err := collectAncestorOrder(gctx, repo, b)
		bOrder = order
		return err
	})
	if err := g.Wait(); err != nil {
		return "", NewInternalError("find_merge_base", err)
	}

	for _, sha := range bOrder {
		if aAncestors[sha.String()] {
			return sha, nil
		}
	}
	return "", NewNoCommonAncestorError("find_merge_base", nil)
}

// collectAncestorSet returns every commit reachable from start, including
// start itself, as a set keyed by hex SHA.
func collectAncestorSet(ctx context.Context, repo *kitrepo.KitcatRepository, start objects.ObjectHash) (map[string]bool, error) {
	visited := make(map[string]bool)
	queue := []objects.ObjectHash{start}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sha := queue[0]
		queue = queue[1:]

		if sha == "" || visited[sha.String()] {
			continue
		}
		visited[sha.String()] = true

		c, err := repo.ReadCommitObject(sha)
		if err != nil {
			continue
		}
		queue = append(queue, c.ParentSHAs...)
	}
	return visited, nil
}

// collectAncestorOrder returns every commit reachable from start, including
// start itself, in breadth-first visitation order.
func collectAncestorOrder(ctx context.Context, repo *kitrepo.KitcatRepository, start objects.ObjectHash) ([]objects.ObjectHash, error) {
	visited := make(map[string]bool)
	var order []objects.ObjectHash
	queue := []objects.ObjectHash{start}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sha := queue[0]
		queue = queue[1:]

		if sha == "" || visited[sha.String()] {
			continue
		}
		visited[sha.String()] = true
		order = append(order, sha)

		c, err := repo.ReadCommitObject(sha)
		if err != nil {
			continue
		}
		queue = append(queue, c.ParentSHAs...)
	}
	return order, nil
}

// CountAheadBehind counts commits reachable from tip but not from base
// (ahead) and vice versa (behind), by walking first-parent history only -
// consistent with how branch commit counts are tallied elsewhere.
func CountAheadBehind(ctx context.Context, repo *kitrepo.KitcatRepository, tip, base objects.ObjectHash) (ahead, behind int, err error) {
	mergeBase, err := FindMergeBase(ctx, repo, tip, base)
	if err != nil {
		return 0, 0, err
	}

	ahead, err = countCommitsUntil(ctx, repo, tip, mergeBase)
	if err != nil {
		return 0, 0, err
	}
	behind, err = countCommitsUntil(ctx, repo, base, mergeBase)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// countCommitsUntil counts first-parent commits from start up to stop,
// counting start and not stop.
func countCommitsUntil(ctx context.Context, repo *kitrepo.KitcatRepository, start, stop objects.ObjectHash) (int, error) {
	count := 0
	current := start
	for current != "" && current != stop {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		c, err := repo.ReadCommitObject(current)
		if err != nil {
			break
		}
		count++
		if len(c.ParentSHAs) == 0 {
			break
		}
		current = c.ParentSHAs[0]
	}
	return count, nil
}
