package model

import (
	"time"

	"github.com/uptrace/bun"
)

type OwnedCard struct {
	bun.BaseModel `bun:"owned_cards,alias:oc"`

	CollectorID string     `bun:",pk" json:"-"`
	CardID      string     `bun:",pk" json:"card_id" validate:"required,max=32"`
	AmountOwned int        `bun:",notnull" json:"amount_owned" validate:"gte=0,lte=9999"`
	UpdatedAt   *time.Time `bun:",nullzero" json:"updated_at,omitempty" validate:"-"`
}
