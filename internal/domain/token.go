package domain

import (
	"context"

	"github.com/google/uuid"
)

// RefreshTokenRepository manages the single live refresh credential stored
// on a user record.
type RefreshTokenRepository interface {
	// Store overwrites the user's refresh credential unconditionally.
	Store(ctx context.Context, userID uuid.UUID, token string) error
	// Rotate replaces current with next only if current is still the stored
	// credential. It reports whether the swap happened.
	Rotate(ctx context.Context, userID uuid.UUID, current, next string) (bool, error)
	// Clear removes the stored credential. Clearing an empty credential is not an error.
	Clear(ctx context.Context, userID uuid.UUID) error
}
