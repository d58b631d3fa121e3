// Package cascade implements the lifecycle cascade executor: given a root
// entity and a direction (delete or restore), it walks the ownership graph
// and applies the soft-delete transition to every dependent entity. All
// traversal and mutation for one call happens through transaction-bound
// stores, so a failing step rolls back the whole cascade. Comment trees are
// walked with an explicit frontier queue; traversal depth is bounded only by
// the actual reply depth, never by the call stack.
package cascade
