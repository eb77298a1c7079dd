// Package action computes a field's new value from its current value and a
// change input. Multi-value fields pack their values joined by Separator.
package action

import (
	"strings"

	"github.com/hpungsan/roster/internal/errors"
)

// Separator joins the logical values of a multi-value field.
const Separator = "|"

// Kind identifies an update strategy.
type Kind int

const (
	Overwrite Kind = iota
	MultiValueAdd
	MultiValueRemove
)

// String returns the kind's token as used on the command line.
func (k Kind) String() string {
	switch k {
	case Overwrite:
		return "overwrite"
	case MultiValueAdd:
		return "add"
	case MultiValueRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Action is a field update strategy. The zero value overwrites.
type Action struct {
	Kind Kind
}

// tokens maps command tokens to multi-value actions.
// Overwrite has no token; callers select it by argument count.
var tokens = map[string]Kind{
	"add":    MultiValueAdd,
	"remove": MultiValueRemove,
}

// FromToken returns the multi-value action named by token.
func FromToken(token string) (Action, error) {
	kind, ok := tokens[token]
	if !ok {
		return Action{}, errors.NewUnknownAction(token)
	}
	return Action{Kind: kind}, nil
}

// IsMulti reports whether the action operates on packed multi-value strings.
func (a Action) IsMulti() bool {
	return a.Kind == MultiValueAdd || a.Kind == MultiValueRemove
}

// Update returns the field's new value.
func (a Action) Update(current, change string) string {
	switch a.Kind {
	case MultiValueAdd:
		return add(current, change)
	case MultiValueRemove:
		return remove(current, change)
	default:
		return change
	}
}

// add appends change. An empty current value holds no elements, so the
// result is change alone rather than a leading empty element.
func add(current, change string) string {
	if current == "" {
		return change
	}
	return current + Separator + change
}

// remove drops every element exactly equal to change.
func remove(current, change string) string {
	if current == "" {
		return current
	}
	parts := strings.Split(current, Separator)
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != change {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, Separator)
}

// Split returns the logical values packed in a multi-value string.
// An empty string holds no values.
func Split(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, Separator)
}
