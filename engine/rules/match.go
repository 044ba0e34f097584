package rules

import (
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

// Matcher reports whether a rule applies to an action.
type Matcher func(a types.Action) bool

// On matches actions whose verb is one of verbs.
func On(verbs ...types.VerbKind) Matcher {
	return func(a types.Action) bool {
		return containsKind(verbs, a.Verb)
	}
}

// Object narrows m to actions whose object is one of objs.
func (m Matcher) Object(objs ...types.ObjectKind) Matcher {
	return func(a types.Action) bool {
		return m(a) && containsKind(objs, a.Object)
	}
}

// Target narrows m to actions whose target is one of targets.
// Include types.ObjectNone to also accept actions without a target.
func (m Matcher) Target(targets ...types.ObjectKind) Matcher {
	return func(a types.Action) bool {
		return m(a) && containsKind(targets, a.Target)
	}
}

// Mentions narrows m to actions whose raw text contains word.
func (m Matcher) Mentions(word string) Matcher {
	return func(a types.Action) bool {
		return m(a) && mentions(a, word)
	}
}

// And narrows m with an arbitrary predicate.
func (m Matcher) And(pred func(a types.Action) bool) Matcher {
	return func(a types.Action) bool {
		return m(a) && pred(a)
	}
}

// mentions reports whether the raw command contains word, case-insensitively.
func mentions(a types.Action, word string) bool {
	return strings.Contains(strings.ToLower(a.RawText), word)
}

func containsKind[K comparable](set []K, k K) bool {
	for _, v := range set {
		if v == k {
			return true
		}
	}
	return false
}
