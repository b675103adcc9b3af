package domain

import "github.com/totegamma/saucebox"

type (
	Event     = saucebox.Event
	EventType = saucebox.EventType
)

const (
	EventSauceCreated = saucebox.EventSauceCreated
	EventSauceUpdated = saucebox.EventSauceUpdated
	EventSauceDeleted = saucebox.EventSauceDeleted
	EventSauceVoted   = saucebox.EventSauceVoted
)
