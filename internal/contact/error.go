package contact

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	ErrContactNotFound = fmt.Errorf("%w: contact not found", apperr.ErrNotFound)
	ErrUnknownStatus   = fmt.Errorf("%w: unrecognized contact status", apperr.ErrInvalidStatus)
)
