package setting

import (
	"fmt"

	"organicstore-be/internal/apperr"
)

var (
	ErrSettingNotFound = fmt.Errorf("%w: setting not found", apperr.ErrNotFound)
	ErrKeyTaken        = fmt.Errorf("%w: setting key already exists", apperr.ErrConflict)
)
