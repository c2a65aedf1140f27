package query

import (
	"strings"
)

// ParseQuery translates a free-text query string into a Predicate using a
// fixed, deterministic keyword table (resolved Open Question: no LLM or
// fuzzy matching in the query path itself — routing must be reproducible
// so the result cache key stays stable across identical text).
//
// Recognized tokens, matched case-insensitively and independent of order:
//
//	type:<value>          -> field "type" eq <value>
//	lang:<value>           -> field "language" eq <value>
//	language:<value>       -> field "language" eq <value>
//	concept:<value>        -> concept membership
//	file:<glob>            -> field "file" regex (glob translated to regex)
//	in:<glob>              -> alias for file:
//
// Any remaining, non-keyword words are ANDed together as case-insensitive
// substring matches against "summary" via a regex predicate.
func ParseQuery(q string) Predicate {
	fields := map[string]string{}
	var bareWords []string

	for _, tok := range strings.Fields(q) {
		key, value, ok := splitKeyword(tok)
		if !ok {
			bareWords = append(bareWords, tok)
			continue
		}
		fields[key] = value
	}

	var and []Predicate
	if v, ok := fields["type"]; ok {
		and = append(and, Predicate{Field: "type", Op: OpEq, Value: strings.ToLower(v)})
	}
	if v, ok := fields["lang"]; ok {
		and = append(and, Predicate{Field: "language", Op: OpEq, Value: strings.ToLower(v)})
	}
	if v, ok := fields["language"]; ok {
		and = append(and, Predicate{Field: "language", Op: OpEq, Value: strings.ToLower(v)})
	}
	if v, ok := fields["concept"]; ok {
		and = append(and, Predicate{Field: "concept", Value: strings.ToLower(v)})
	}
	if v, ok := fields["file"]; ok {
		and = append(and, Predicate{Field: "file", Op: OpRegex, Value: globToRegex(v)})
	}
	if v, ok := fields["in"]; ok {
		and = append(and, Predicate{Field: "file", Op: OpRegex, Value: globToRegex(v)})
	}

	for _, w := range bareWords {
		and = append(and, Predicate{Field: "summary", Op: OpRegex, Value: "(?i)" + regexQuoteWord(w)})
	}

	switch len(and) {
	case 0:
		return Predicate{}
	case 1:
		return and[0]
	default:
		return Predicate{And: and}
	}
}

func splitKeyword(tok string) (key, value string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx <= 0 || idx == len(tok)-1 {
		return "", "", false
	}
	key = strings.ToLower(tok[:idx])
	switch key {
	case "type", "lang", "language", "concept", "file", "in":
		return key, tok[idx+1:], true
	default:
		return "", "", false
	}
}

// globToRegex translates the small glob subset ("*" and "?") used by
// file:/in: filters into an anchored regex, escaping every other
// character literally.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexQuoteRune(r))
		}
	}
	b.WriteByte('$')
	return b.String()
}

func regexQuoteWord(w string) string {
	var b strings.Builder
	for _, r := range w {
		b.WriteString(regexQuoteRune(r))
	}
	return b.String()
}

const regexSpecial = `\.+*?()|[]{}^$`

func regexQuoteRune(r rune) string {
	if strings.ContainsRune(regexSpecial, r) {
		return "\\" + string(r)
	}
	return string(r)
}
