// Package sanitize removes markup and script-like content from user supplied text.
//
// Two layers are provided. HasSuspiciousContent is a gate: validation rejects
// title and name class fields that trip it. Text is a transform: free prose is
// decoded, stripped of every tag and attribute, and scrubbed of residual
// script vectors so that even accepted content cannot carry live markup.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// droppedElements lose their text content as well as their tags.
//
//nolint:gochecknoglobals // Static lookup table
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Frame:    true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// residualPatterns are removed from the text left over after tag stripping.
//
//nolint:gochecknoglobals // Compiled once
var residualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)on\w+=`),
	regexp.MustCompile(`(?i)expression\(`),
}

// suspiciousPatterns mark input that validation rejects outright.
//
//nolint:gochecknoglobals // Compiled once
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+=`),
	regexp.MustCompile(`(?i)data:`),
	regexp.MustCompile(`(?i)vbscript:`),
	regexp.MustCompile(`(?i)expression\(`),
	regexp.MustCompile(`(?i)alert\(`),
	regexp.MustCompile(`(?i)confirm\(`),
	regexp.MustCompile(`(?i)prompt\(`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)document\.`),
	regexp.MustCompile(`(?i)window\.`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)localstorage`),
	regexp.MustCompile(`(?i)sessionstorage`),
	regexp.MustCompile(`(?i)<\?xml`),
	regexp.MustCompile(`(?i)<!entity`),
	regexp.MustCompile(`(?i)<!\[cdata\[`),
}

// Text returns input with HTML entities decoded, every tag and attribute
// removed, residual script vectors scrubbed and surrounding whitespace trimmed.
// The result is HTML text: "&", "<" and ">" left in it are entity-escaped.
// The empty string is returned unchanged.
func Text(input string) string {
	if input == "" {
		return input
	}

	// Decode first so that encoded payloads are parsed as markup.
	decoded := norm.NFC.String(html.UnescapeString(input))

	out := stripTags(decoded)
	for _, re := range residualPatterns {
		out = re.ReplaceAllString(out, "")
	}

	return strings.TrimSpace(out)
}

// HasSuspiciousContent reports whether input matches any known script,
// protocol, storage access or XML injection pattern, case-insensitively.
// Compatibility forms (for example fullwidth letters) are folded before a
// second pass.
func HasSuspiciousContent(input string) bool {
	if input == "" {
		return false
	}
	if matchesAny(input) {
		return true
	}
	if folded := norm.NFKC.String(input); folded != input {
		return matchesAny(folded)
	}
	return false
}

func matchesAny(s string) bool {
	for _, re := range suspiciousPatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// textEscaper escapes text the way the HTML serializer does for text
// content. Quotes stay literal.
//
//nolint:gochecknoglobals // Static replacer
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\u00a0", "&nbsp;",
)

// stripTags keeps only the text nodes of s, parsed as the body of a document.
// Text comes back escaped, so markup that was still encoded after the first
// decode stays inert. Unparseable input is escaped whole.
func stripTags(s string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return textEscaper.Replace(s)
	}

	var buf strings.Builder
	for _, n := range nodes {
		extractText(n, &buf)
	}
	return buf.String()
}

// extractText appends the escaped text content of n, skipping dropped elements.
func extractText(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(textEscaper.Replace(n.Data))
		return
	case html.ElementNode:
		if droppedElements[n.DataAtom] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
}
