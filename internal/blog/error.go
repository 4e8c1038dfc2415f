package blog

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	ErrPostNotFound = fmt.Errorf("%w: blog post not found", apperr.ErrNotFound)
	ErrTitleTaken   = fmt.Errorf("%w: blog post title already exists", apperr.ErrConflict)
)
