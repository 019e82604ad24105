package annotation

import (
	"fmt"
	"slices"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// PlacementContext provides context for placement guards.
type PlacementContext struct {
	Position Position
	Target   *string
	Blocks   []string // block names of the owning service
}

// CanPlace evaluates whether a record's position and target agree.
// Rules:
// - Position must be a known value
// - Absolute records carry no target
// - Relative records target one of the service's blocks
func CanPlace(ctx PlacementContext) GuardResult {
	if !ctx.Position.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown position %d", int(ctx.Position)),
		}
	}

	if ctx.Position == Absolute {
		if ctx.Target != nil {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("absolute annotation cannot target block %q", *ctx.Target),
			}
		}
		return GuardResult{Allowed: true}
	}

	if ctx.Target == nil || *ctx.Target == "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s annotation requires a target block", ctx.Position),
		}
	}

	if !slices.Contains(ctx.Blocks, *ctx.Target) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("target block %q not found in service", *ctx.Target),
		}
	}

	return GuardResult{Allowed: true}
}

// CanAlign evaluates whether align is one of the accepted values.
func CanAlign(align string) GuardResult {
	if slices.Contains(Alignments, align) {
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("invalid align %q (valid: left, right, center)", align),
	}
}

// CanPositionRelative evaluates whether a service offers blocks to anchor to.
func CanPositionRelative(blocks []string) GuardResult {
	if len(blocks) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  "service has no blocks to position relative to",
		}
	}
	return GuardResult{Allowed: true}
}
