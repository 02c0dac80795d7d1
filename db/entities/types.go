package entities

import (
	"github.com/chatsched/chatsched/pkg/types"
)

type BaseModel struct {
	CreatedAt types.Time `db:"created_at" json:"createdAt"`
	UpdatedAt types.Time `db:"updated_at" json:"-"`
}
