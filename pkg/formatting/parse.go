package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON
// directly, from a markdown code fence, or after separator repair.
var ErrParseFailed = errors.New("failed to parse response")

var (
	jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

	// value terminator followed by a bare key start with no comma between
	missingCommaRegex = regexp.MustCompile(`(["\]}])(\s+)"`)
)

// Parse attempts to unmarshal content as JSON into T. If direct parsing
// fails, it extracts JSON from a markdown code fence and retries; if that
// also fails, it repairs fields that appear to have run together (a value
// followed by the next key with no separator) and makes a final attempt.
// Returns ErrParseFailed when every attempt fails.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

func candidates(content string) []string {
	out := []string{content}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		out = append(out, strings.TrimSpace(matches[1]))
	}

	for _, c := range out {
		if repaired := RepairSeparators(c); repaired != c {
			out = append(out, repaired)
		}
	}

	return out
}

// RepairSeparators inserts a comma between a JSON value terminator and a
// following quoted key when the separator between them is missing. It is a
// best-effort repair for model output where fields ran together; it never
// touches content that already parses.
func RepairSeparators(content string) string {
	return missingCommaRegex.ReplaceAllString(content, `$1,$2"`)
}
