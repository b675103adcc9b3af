package domain

import "regexp"

// Whitespace covers the unicode space separators as well as ASCII space,
// tab, line feeds, vertical tab and the byte order mark.
var sauceFieldPattern = regexp.MustCompile(`^[a-zA-Z0-9áàâäãåçéèêëíìîïñóòôöõúùûüýÿæœÁÀÂÄÃÅÇÉÈÊËÍÌÎÏÑÓÒÔÖÕÚÙÛÜÝŸÆŒ.?!,_\s\x0B\p{Z}\x{FEFF}-]{3,150}$`)

const sauceFieldRule = "must be 3 to 150 characters without special characters"

// ValidateSauce checks the text fields required on creation.
func ValidateSauce(p SaucePayload) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"manufacturer", p.Manufacturer},
		{"description", p.Description},
		{"mainPepper", p.MainPepper},
	}
	for _, f := range fields {
		if !sauceFieldPattern.MatchString(f.value) {
			return ValidationError{Field: f.name, Reason: sauceFieldRule}
		}
	}
	return nil
}
