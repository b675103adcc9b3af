package domain

import (
	"strings"

	"github.com/totegamma/saucebox"
)

type (
	Sauce        = saucebox.Sauce
	SaucePayload = saucebox.SaucePayload
	SauceUpdate  = saucebox.SauceUpdate
)

// TallyOf returns the vote state of a sauce.
func TallyOf(s Sauce) Tally {
	return Tally{
		Likes:         s.Likes,
		Dislikes:      s.Dislikes,
		UsersLiked:    s.UsersLiked,
		UsersDisliked: s.UsersDisliked,
	}
}

// ImageURL builds the absolute url of a stored image.
func ImageURL(origin, filename string) string {
	return strings.TrimSuffix(origin, "/") + ImagePathPrefix + filename
}

// ImageFilename extracts the stored filename from an image url.
func ImageFilename(imageURL string) (string, bool) {
	_, filename, ok := strings.Cut(imageURL, ImagePathPrefix)
	if !ok || filename == "" {
		return "", false
	}
	return filename, true
}
