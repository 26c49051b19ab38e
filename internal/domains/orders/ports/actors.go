package ports

import (
	"context"
	"errors"
)

var (
	ErrUnknownActor  = errors.New("unknown acting user")
	ErrInactiveActor = errors.New("acting user is inactive")
)

// ActorDirectory resolves the user recorded against status changes.
type ActorDirectory interface {
	// ResolveActor returns the canonical username for an active staff member.
	ResolveActor(ctx context.Context, username string) (string, error)
}
