package entities

import (
	"github.com/chatsched/chatsched/pkg/types"
)

// Workspace is the remote organization a client connects to.
// It is written once and never updated.
type Workspace struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Domain string `json:"domain" db:"domain"`

	CreatedAt types.Time `db:"created_at" json:"-"`
	UpdatedAt types.Time `db:"updated_at" json:"-"`
}
