package domain

import (
	"fmt"
	"slices"
)

// Vote is a decoded vote signal.
type Vote int

const (
	VoteDislike Vote = -1
	VoteRetract Vote = 0
	VoteLike    Vote = 1
)

// ParseVote decodes the numeric signal sent by clients.
func ParseVote(v int) (Vote, error) {
	switch Vote(v) {
	case VoteLike, VoteRetract, VoteDislike:
		return Vote(v), nil
	default:
		return VoteRetract, ValidationError{Field: "like", Reason: fmt.Sprintf("unsupported vote value %d", v)}
	}
}

func (v Vote) String() string {
	switch v {
	case VoteLike:
		return "like"
	case VoteDislike:
		return "dislike"
	case VoteRetract:
		return "retract"
	default:
		return "unknown"
	}
}

// VoteOutcome tells what a vote did to a tally.
type VoteOutcome int

const (
	VoteUnchanged VoteOutcome = iota
	VoteLiked
	VoteDisliked
	VoteLikeRetracted
	VoteDislikeRetracted
)

func (o VoteOutcome) String() string {
	switch o {
	case VoteLiked:
		return "like added"
	case VoteDisliked:
		return "dislike added"
	case VoteLikeRetracted:
		return "like removed"
	case VoteDislikeRetracted:
		return "dislike removed"
	default:
		return "vote unchanged"
	}
}

// Tally is the vote state of a sauce.
// A user is in at most one of UsersLiked and UsersDisliked, and the counters
// always equal the set sizes.
type Tally struct {
	Likes         int
	Dislikes      int
	UsersLiked    []string
	UsersDisliked []string
}

// Apply computes the tally after userID casts v. The receiver is not modified.
//
// A repeated like or dislike is a no-op. Liking while disliking (or the
// reverse) is a conflict: the caller has to retract first. Retracting
// without a standing vote is a no-op.
func (t Tally) Apply(userID string, v Vote) (Tally, VoteOutcome, error) {
	if userID == "" {
		return t, VoteUnchanged, ValidationError{Field: "userId", Reason: "is required"}
	}

	liked := slices.Contains(t.UsersLiked, userID)
	disliked := slices.Contains(t.UsersDisliked, userID)

	next := Tally{
		Likes:         t.Likes,
		Dislikes:      t.Dislikes,
		UsersLiked:    slices.Clone(t.UsersLiked),
		UsersDisliked: slices.Clone(t.UsersDisliked),
	}
	if next.UsersLiked == nil {
		next.UsersLiked = []string{}
	}
	if next.UsersDisliked == nil {
		next.UsersDisliked = []string{}
	}

	switch v {
	case VoteLike:
		if liked {
			return next, VoteUnchanged, nil
		}
		if disliked {
			return t, VoteUnchanged, ConflictError{Reason: "sauce is already disliked by this user"}
		}
		next.UsersLiked = append(next.UsersLiked, userID)
		next.Likes++
		return next, VoteLiked, nil

	case VoteDislike:
		if disliked {
			return next, VoteUnchanged, nil
		}
		if liked {
			return t, VoteUnchanged, ConflictError{Reason: "sauce is already liked by this user"}
		}
		next.UsersDisliked = append(next.UsersDisliked, userID)
		next.Dislikes++
		return next, VoteDisliked, nil

	case VoteRetract:
		if liked {
			next.UsersLiked = slices.DeleteFunc(next.UsersLiked, func(id string) bool { return id == userID })
			next.Likes--
			return next, VoteLikeRetracted, nil
		}
		if disliked {
			next.UsersDisliked = slices.DeleteFunc(next.UsersDisliked, func(id string) bool { return id == userID })
			next.Dislikes--
			return next, VoteDislikeRetracted, nil
		}
		return next, VoteUnchanged, nil
	}

	return t, VoteUnchanged, ValidationError{Field: "like", Reason: fmt.Sprintf("unsupported vote value %d", int(v))}
}
