package branch

import "context"

// BranchRepository reads branch locations from the branch registry.
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
}
