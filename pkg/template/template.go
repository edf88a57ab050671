// Package template provides placeholder substitution and link rewriting for workflow text.
package template

import (
	"regexp"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	linkPattern        = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
)

// Substitute replaces every {{ key }} in input with its value from the contact
// namespace or the extras. Keys are matched case-insensitively and may contain
// any whitespace. Unknown keys become the empty string.
func Substitute(input string, contact *models.Contact, extras map[string]string) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	values := Lookup(contact, extras)

	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		key := normalizeKey(placeholderPattern.FindStringSubmatch(match)[1])

		return values[key]
	})
}

// Lookup builds the substitution table, keyed by lower-cased placeholder name.
func Lookup(contact *models.Contact, extras map[string]string) map[string]string {
	values := make(map[string]string, len(extras)+6)

	var name, email, phone, address string
	if contact != nil {
		name, email, phone, address = contact.Name, contact.Email, contact.Phone, contact.Address
	}

	firstName, lastName := SplitName(name)

	values["contact.name"] = name
	values["contact.first_name"] = firstName
	values["contact.last_name"] = lastName
	values["contact.email"] = email
	values["contact.phone"] = phone
	values["contact.address"] = address

	for key, value := range extras {
		values[normalizeKey(key)] = value
	}

	return values
}

// SplitName returns the first whitespace-delimited token and the remaining
// tokens joined by single spaces.
func SplitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}

// Linkify rewrites every [[label]] into a markdown link to url, or into the
// bare label when url is empty.
func Linkify(input, url string) string {
	return linkPattern.ReplaceAllStringFunc(input, func(match string) string {
		label := linkPattern.FindStringSubmatch(match)[1]
		if url == "" {
			return label
		}

		return "[" + label + "](" + url + ")"
	})
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), ""))
}
