package auth

import (
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AssertOwner allows a mutation only when the caller owns the resource.
// Callers check existence first so a missing resource reports NotFound.
func AssertOwner(userID, ownerID int64) error {
	if userID <= 0 || userID != ownerID {
		return apperrors.NewForbidden("you do not own this resource")
	}
	return nil
}
