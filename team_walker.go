package steward

import (
	"context"
	"fmt"
	"slices"
)

// MemberLister lists a supervisor's direct reports over active edges.
type MemberLister interface {
	ListActiveMembers(ctx context.Context, tenantID, supervisorID string) ([]string, error)
}

// TeamWalker resolves the members visible to a supervisor under team
// scope. The returned set excludes the supervisor; the engine adds it.
type TeamWalker interface {
	Walk(ctx context.Context, lister MemberLister, tenantID, supervisorID string) ([]string, error)
}

// DefaultTeamWalker returns the walker for policy. Transitive walks stop
// at maxDepth levels below the supervisor.
func DefaultTeamWalker(policy TeamPolicy, maxDepth int) TeamWalker {
	if policy == TeamTransitive {
		if maxDepth <= 0 {
			maxDepth = 10
		}
		return &bfsTeamWalker{maxDepth: maxDepth}
	}
	return directTeamWalker{}
}

type directTeamWalker struct{}

func (directTeamWalker) Walk(ctx context.Context, lister MemberLister, tenantID, supervisorID string) ([]string, error) {
	members, err := lister.ListActiveMembers(ctx, tenantID, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", supervisorID, err)
	}
	return members, nil
}

type bfsTeamWalker struct {
	maxDepth int
}

type teamNode struct {
	userID string
	depth  int
}

// Walk collects the reporting subtree breadth first. Cycles are cut by
// the visited set. Reaching the depth bound with members still pending
// returns the partial set with ErrTeamDepthExceeded.
func (w *bfsTeamWalker) Walk(ctx context.Context, lister MemberLister, tenantID, supervisorID string) ([]string, error) {
	visited := map[string]struct{}{supervisorID: {}}
	queue := []teamNode{{userID: supervisorID}}
	var members []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if err := ctx.Err(); err != nil {
			return members, err
		}

		reports, err := lister.ListActiveMembers(ctx, tenantID, node.userID)
		if err != nil {
			return members, fmt.Errorf("list members of %s: %w", node.userID, err)
		}
		for _, m := range reports {
			if _, seen := visited[m]; seen {
				continue
			}
			if node.depth+1 > w.maxDepth {
				slices.Sort(members)
				return members, ErrTeamDepthExceeded
			}
			visited[m] = struct{}{}
			members = append(members, m)
			queue = append(queue, teamNode{userID: m, depth: node.depth + 1})
		}
	}
	return members, nil
}
