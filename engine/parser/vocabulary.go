package parser

import (
	"sort"
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

// verbOrder and objectOrder fix the tie-break between equally long synonyms.
var verbOrder = []types.VerbKind{
	types.VerbExamine,
	types.VerbOpen,
	types.VerbUse,
	types.VerbRead,
	types.VerbSet,
	types.VerbRemove,
	types.VerbTake,
	types.VerbEnter,
}

var verbSynonyms = map[types.VerbKind][]string{
	types.VerbExamine: {"examine", "look at", "look", "check", "inspect", "view", "see", "study", "observe"},
	types.VerbOpen:    {"open", "unlock", "unseal", "unlatch"},
	types.VerbUse:     {"use", "try", "apply", "utilize"},
	types.VerbRead:    {"read", "look through", "peruse", "scan"},
	types.VerbSet:     {"set", "adjust", "change", "move to", "turn to", "set to", "turn"},
	types.VerbRemove:  {"remove", "take down", "pull", "lift", "take off"},
	types.VerbTake:    {"take", "grab", "pick up", "get", "collect"},
	types.VerbEnter:   {"enter", "type", "input", "put in", "dial"},
}

var objectOrder = []types.ObjectKind{
	types.ObjectDesk,
	types.ObjectClock,
	types.ObjectBookshelf,
	types.ObjectDiary,
	types.ObjectPainting,
	types.ObjectSafe,
	types.ObjectDoor,
	types.ObjectKey,
}

var objectSynonyms = map[types.ObjectKind][]string{
	types.ObjectDesk:      {"desk", "wooden desk", "table", "drawer", "drawers"},
	types.ObjectClock:     {"clock", "grandfather clock", "timepiece", "time", "grandfather"},
	types.ObjectBookshelf: {"bookshelf", "shelf", "bookcase", "books", "shelves"},
	types.ObjectDiary:     {"diary", "book", "journal", "notebook", "leather diary", "small diary"},
	types.ObjectPainting:  {"painting", "picture", "moon", "art", "frame", "moon painting", "picture frame"},
	types.ObjectSafe:      {"safe", "vault", "lockbox"},
	types.ObjectDoor:      {"door", "exit", "way out", "exit door"},
	types.ObjectKey:       {"key", "desk key", "golden key"},
}

// keyword is one synonym together with the kind it names.
type keyword struct {
	text string
	kind string
}

// Search tables, longest keyword first. Built once from the synonym maps.
var (
	verbKeywords   = sortKeywords(verbOrder, verbSynonyms)
	objectKeywords = sortKeywords(objectOrder, objectSynonyms)
)

// sortKeywords flattens a synonym table into a search list ordered by
// keyword length (longest first), then kind order, then synonym order.
// "bookshelf" therefore always beats "book" when both occur.
func sortKeywords[K ~string](order []K, table map[K][]string) []keyword {
	var list []keyword
	for _, kind := range order {
		for _, syn := range table[kind] {
			list = append(list, keyword{text: syn, kind: string(kind)})
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return len(list[i].text) > len(list[j].text)
	})
	return list
}

// longestMatch returns the kind of the longest keyword contained in text.
func longestMatch(list []keyword, text string) string {
	for _, kw := range list {
		if strings.Contains(text, kw.text) {
			return kw.kind
		}
	}
	return ""
}

func matchVerb(text string) types.VerbKind {
	return types.VerbKind(longestMatch(verbKeywords, text))
}

func matchObject(text string) types.ObjectKind {
	return types.ObjectKind(longestMatch(objectKeywords, text))
}

// Synonyms returns the surface forms recognized for a verb, in table order.
func Synonyms(verb types.VerbKind) []string {
	return append([]string(nil), verbSynonyms[verb]...)
}

// Verbs returns the recognized verbs in declaration order.
func Verbs() []types.VerbKind {
	return append([]types.VerbKind(nil), verbOrder...)
}
