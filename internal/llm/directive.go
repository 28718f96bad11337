package llm

import (
	"strings"

	"github.com/fieldserve/appointments/internal/domain"
)

// ParseResult classifies what the directive parser found in a reply.
type ParseResult int

const (
	// NoDirective means no line carried the marker; an ordinary
	// conversational turn.
	NoDirective ParseResult = iota

	// DirectiveMalformed means a marker line was present but did not split
	// into exactly two fields. Callers treat this the same as NoDirective;
	// the distinction exists for tests and logging only.
	DirectiveMalformed

	// DirectiveFound means a well-formed date/time pair was extracted.
	DirectiveFound
)

// ParseDirective scans an assistant reply for a reschedule directive line.
//
// A line is a candidate iff it contains DirectiveMarker; only the first
// candidate is considered, since replies often wrap the directive in
// explanatory prose. The remainder after the marker must split into exactly
// two |-delimited fields. Fields are trimmed but not validated further:
// malformed dates are accepted here on purpose and only surface to the user
// downstream.
func ParseDirective(text string) (domain.Directive, ParseResult) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, DirectiveMarker) {
			continue
		}

		_, rest, _ := strings.Cut(line, DirectiveMarker)
		fields := strings.Split(rest, "|")
		if len(fields) != 2 {
			return domain.Directive{}, DirectiveMalformed
		}

		return domain.Directive{
			Date: strings.TrimSpace(fields[0]),
			Time: strings.TrimSpace(fields[1]),
		}, DirectiveFound
	}

	return domain.Directive{}, NoDirective
}
