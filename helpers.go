package irc

import (
	"regexp"
	"strings"
)

// MaskToRegex converts an IRC wildcard expression into an anchored Go
// regular expression source string.
//
//	* matches any run of characters, including none
//	? matches exactly one character
//	& matches one word (a run of non-space characters) when it stands alone
//
// "Stands alone" means '&' is a whole space-separated word of the mask.
// Any other character matches itself, including an '&' that is part of
// a longer word ("!foo&" matches only itself). The '&' form is not part of the
// protocol's wildcard grammar; it is accepted because command-style
// matching ("!seen &") is the overwhelmingly common use for masks in a
// client.
func MaskToRegex(mask string) string {
	token := regexp.MustCompile(`\*|\?|[^*?]+`)
	expr := token.ReplaceAllStringFunc(mask, func(s string) string {
		switch s {
		case "*":
			return ".*"
		case "?":
			return "."
		}
		return regexp.QuoteMeta(s)
	})

	words := strings.Split(expr, " ")
	for i, w := range words {
		if w == "&" {
			words[i] = `\S+`
		}
	}
	return "^" + strings.Join(words, " ") + "$"
}

// MatchesMask reports whether text matches the IRC wildcard expression
// mask, per the MaskToRegex rules.
func MatchesMask(mask, text string) bool {
	re, err := regexp.Compile(MaskToRegex(mask))
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// StripStatusPrefixes removes leading channel membership prefixes
// ('@', '%', '+', and the rarer '&' and '~') from a message target, so
// that STATUSMSG targets like "+#chan" resolve to their channel name.
func StripStatusPrefixes(target string) string {
	return strings.TrimLeft(target, "@%+&~")
}
