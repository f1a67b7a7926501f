package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// translate maps repository failures onto the error taxonomy. Errors that
// are already typed pass through untouched.
func translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.As(err, new(*apperrors.DomainError)):
		return err
	case repository.IsNotFound(err):
		return apperrors.NewNotFound(resource)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource + " already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeout()
	default:
		return apperrors.NewInternalError(err)
	}
}

// maxPage bounds page numbers so that offsets cannot overflow.
const maxPage = 100000

// pageNumber defaults a missing page to 1 and rejects pages past maxPage.
func pageNumber(page int) (int, error) {
	if page < 1 {
		return 1, nil
	}
	if page > maxPage {
		return 0, apperrors.NewValidationError("invalid page", []apperrors.FieldViolation{{
			Field:   "page",
			Rule:    "max",
			Message: fmt.Sprintf("must be at most %d", maxPage),
		}})
	}
	return page, nil
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
