package setting

import "time"

// Setting is one key/value store-configuration record, editable by admins.
type Setting struct {
	ID          uint
	Key         string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type UpsertSettingParams struct {
	Key         string
	Value       string
	Description string
}
