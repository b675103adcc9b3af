package saucebox

// Sauce is a rated sauce record as served by the api.
type Sauce struct {
	ID            string   `json:"_id"`
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Manufacturer  string   `json:"manufacturer"`
	Description   string   `json:"description"`
	MainPepper    string   `json:"mainPepper"`
	ImageURL      string   `json:"imageUrl"`
	Heat          int      `json:"heat"`
	Likes         int      `json:"likes"`
	Dislikes      int      `json:"dislikes"`
	UsersLiked    []string `json:"usersLiked"`
	UsersDisliked []string `json:"usersDisliked"`
}

// SaucePayload is the client supplied part of a new sauce.
// Identifier, image, counters and vote sets are never taken from it.
type SaucePayload struct {
	UserID       string `json:"userId,omitempty"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	MainPepper   string `json:"mainPepper"`
	Heat         int    `json:"heat"`
}

// SauceUpdate replaces the fields that are set. Nil fields keep their
// current value; an empty string or a zero heat is written as is.
type SauceUpdate struct {
	UserID       string  `json:"userId,omitempty"`
	Name         *string `json:"name,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	Description  *string `json:"description,omitempty"`
	MainPepper   *string `json:"mainPepper,omitempty"`
	Heat         *int    `json:"heat,omitempty"`
}

// Session is returned on a successful login.
type Session struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type EventType string

const (
	EventSauceCreated EventType = "sauce.created"
	EventSauceUpdated EventType = "sauce.updated"
	EventSauceDeleted EventType = "sauce.deleted"
	EventSauceVoted   EventType = "sauce.voted"
)

// Event is published on every sauce mutation.
type Event struct {
	Type    EventType `json:"type"`
	SauceID string    `json:"sauceId"`
	UserID  string    `json:"userId,omitempty"`
	Sauce   *Sauce    `json:"sauce,omitempty"`
}
