package contact

import "time"

type ContactStatus string

const (
	StatusNew     ContactStatus = "NEW"
	StatusRead    ContactStatus = "READ"
	StatusReplied ContactStatus = "REPLIED"
)

func ParseStatus(s string) (ContactStatus, bool) {
	switch ContactStatus(s) {
	case StatusNew, StatusRead, StatusReplied:
		return ContactStatus(s), true
	}
	return "", false
}

type Contact struct {
	ID        uint
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateContactParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}
