package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a currency amount with digit grouping, e.g. "1,250 UC".
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d UC", amount)
}

// TournamentLink is the in-app deep link to a tournament's results.
func TournamentLink(id, name string) string {
	s := slug.Make(name)
	if s == "" {
		return "/tournaments/" + id
	}
	return "/tournaments/" + id + "/" + s
}

// NameKey folds a display name for duplicate detection: transliterated, lower case,
// with inner whitespace collapsed.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(unidecode.Unidecode(name)), " "))
}

// MergeNames appends names to a comma separated list, skipping blanks and names
// already present under NameKey. Existing order is kept.
func MergeNames(existing string, names ...string) string {
	var out []string
	seen := make(map[string]bool)
	add := func(n string) {
		n = strings.TrimSpace(n)
		k := NameKey(n)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, n)
	}
	for _, n := range strings.Split(existing, ",") {
		add(n)
	}
	for _, n := range names {
		add(n)
	}
	return strings.Join(out, ", ")
}
