package domain

import "github.com/google/uuid"

// Owned is implemented by every resource whose mutations are restricted to
// the user that created it. The owner never changes after creation.
type Owned interface {
	OwnedBy() uuid.UUID
}
