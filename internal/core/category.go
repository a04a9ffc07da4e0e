package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Category is one label from the fixed set of expense kinds.
type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Utilities      Category = "Utilities"
	Miscellaneous  Category = "Miscellaneous"
)

var categories = []Category{Food, Transportation, Entertainment, Utilities, Miscellaneous}

// Categories returns every category in enumeration order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves a label to a Category. Labels match exactly first,
// then case-insensitively. Unknown labels yield ErrUnknownCategory with the
// closest known label as a hint.
func ParseCategory(label string) (Category, error) {
	label = strings.TrimSpace(label)
	for _, c := range categories {
		if string(c) == label {
			return c, nil
		}
	}
	for _, c := range categories {
		if strings.EqualFold(string(c), label) {
			return c, nil
		}
	}
	if label == "" {
		return "", fmt.Errorf("%w: no category given", ErrUnknownCategory)
	}
	return "", fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownCategory, label, closestCategory(label))
}

func closestCategory(label string) Category {
	best := categories[0]
	bestDist := -1
	lower := strings.ToLower(label)
	for _, c := range categories {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(string(c)))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
