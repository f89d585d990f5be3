package usecase

import (
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain"
)

// AssertOwner fails with NotFound when resource is nil and with Forbidden when
// actorID is not the resource owner. what names the resource in messages.
func AssertOwner[P interface {
	*T
	domain.Owned
}, T any](resource P, actorID uuid.UUID, what string) error {
	if resource == nil {
		return domain.NotFound(what + " not found")
	}
	if resource.OwnedBy() != actorID {
		return domain.Forbidden("you are not the owner of this " + what)
	}
	return nil
}
