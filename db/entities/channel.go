package entities

import (
	"github.com/chatsched/chatsched/pkg/types"
)

type Channel struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	IsPrivate bool   `json:"isPrivate" db:"is_private"`

	Position   int     `json:"-" db:"position"`
	WebhookURL *string `json:"-" db:"webhook_url"`

	CreatedAt types.Time `db:"created_at" json:"-"`
	UpdatedAt types.Time `db:"updated_at" json:"-"`
}
