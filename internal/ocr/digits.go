package ocr

import (
	"regexp"
	"strings"
)

var (
	reDigitRun   = regexp.MustCompile(`\d+`)
	reEightRun   = regexp.MustCompile(`\d{8}`)
	reSpacedPair = regexp.MustCompile(`\d{4}\s*\d{4}`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// numberFromGroups reconstructs the identifier from recognized text. The
// label prints it as two 4-digit groups, so two such groups concatenated win;
// otherwise the text is collapsed and scanned for a contiguous 8-digit run.
func numberFromGroups(text string) (string, bool) {
	var groups []string
	for _, run := range reDigitRun.FindAllString(text, -1) {
		if len(run) == 4 {
			groups = append(groups, run)
		}
	}
	if len(groups) >= 2 {
		return groups[0] + groups[1], true
	}
	joined := strings.ReplaceAll(text, "\n", "")
	if number := reEightRun.FindString(joined); number != "" {
		return number, true
	}
	return "", false
}

// numberFromSpacedPair finds "XXXX XXXX" (whitespace optional) in the
// line-joined output and strips the internal whitespace.
func numberFromSpacedPair(text string) (string, bool) {
	joined := strings.Join(strings.Split(text, "\n"), " ")
	match := reSpacedPair.FindString(joined)
	if match == "" {
		return "", false
	}
	return reWhitespace.ReplaceAllString(match, ""), true
}
