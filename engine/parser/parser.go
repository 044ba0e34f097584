// Package parser converts free-text commands into Action structs.
// Intentionally dumb: no NLP, just synonym tables and substring matching.
// It never looks at puzzle state.
package parser

import (
	"regexp"
	"strings"

	"github.com/nathoo/lockedstudy/types"
)

var (
	articlePattern = regexp.MustCompile(`\b(the|a|an)\s+`)
	useOnPattern   = regexp.MustCompile(`use\s+(\w+(?:\s+\w+)?)\s+(?:on|with|to)\s+(\w+(?:\s+\w+)?)`)
	digitRun       = regexp.MustCompile(`\d+`)
	codeRun        = regexp.MustCompile(`\d{3,5}`)
)

// Interpret converts a raw command string into an Action. It never fails:
// anything it cannot recognize is left as the zero value.
func Interpret(input string) types.Action {
	action := types.Action{RawText: input}

	text := Normalize(input)
	if text == "" {
		return action
	}

	// 1. Verb by longest matching synonym.
	action.Verb = matchVerb(text)

	// 2. "use <item> on <target>" overrides the verb and fixes object/target.
	if m := useOnPattern.FindStringSubmatch(text); m != nil {
		action.Verb = types.VerbUse
		action.Object = keyVariant(m[1])
		action.Target = matchObject(m[2])
	}

	// 3. Object by longest matching synonym, unless step 2 set it.
	if action.Object == types.ObjectNone {
		action.Object = matchObject(text)
	}

	// 4. Numeric value.
	action.Value = extractValue(text)

	// 5. A bare noun means "look at it".
	if action.Object != types.ObjectNone && action.Verb == types.VerbNone {
		action.Verb = types.VerbExamine
	}

	return action
}

// Normalize lower-cases the input, removes the articles "the", "a" and "an"
// as whole words, and collapses runs of whitespace.
func Normalize(input string) string {
	text := strings.ToLower(strings.TrimSpace(input))
	text = articlePattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// keyVariant resolves the item phrase of a compound "use" command.
// Gold wins over desk; anything else naming a key is the generic key.
func keyVariant(phrase string) types.ObjectKind {
	switch {
	case strings.Contains(phrase, "golden"), strings.Contains(phrase, "gold"):
		return types.ObjectGoldenKey
	case !strings.Contains(phrase, "key"):
		return types.ObjectNone
	case strings.Contains(phrase, "desk"):
		return types.ObjectDeskKey
	default:
		return types.ObjectKey
	}
}

// extractValue returns the first digit run. Mentions of a code or
// combination prefer a 3-5 digit run over any shorter number.
func extractValue(text string) string {
	value := digitRun.FindString(text)
	if strings.Contains(text, "code") || strings.Contains(text, "combination") {
		if code := codeRun.FindString(text); code != "" {
			value = code
		}
	}
	return value
}
