package llm_test

import (
	"testing"

	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/llm"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantResult llm.ParseResult
		want       domain.Directive
	}{
		{
			"directive with surrounding prose",
			"Sure! \nRESCHEDULE_REQUEST: 2026-02-20 | 3:00 PM\nSee you then.",
			llm.DirectiveFound,
			domain.Directive{Date: "2026-02-20", Time: "3:00 PM"},
		},
		{
			"directive alone",
			"RESCHEDULE_REQUEST: 2026-05-01 | 11:30 AM",
			llm.DirectiveFound,
			domain.Directive{Date: "2026-05-01", Time: "11:30 AM"},
		},
		{
			"fields trimmed",
			"RESCHEDULE_REQUEST:   2026-02-20   |   3:00 PM  ",
			llm.DirectiveFound,
			domain.Directive{Date: "2026-02-20", Time: "3:00 PM"},
		},
		{
			"no marker",
			"What day works for you?",
			llm.NoDirective,
			domain.Directive{},
		},
		{
			"empty reply",
			"",
			llm.NoDirective,
			domain.Directive{},
		},
		{
			"too many fields",
			"RESCHEDULE_REQUEST: 2026-02-20 | 3:00 PM | extra",
			llm.DirectiveMalformed,
			domain.Directive{},
		},
		{
			"too few fields",
			"RESCHEDULE_REQUEST: 2026-02-20",
			llm.DirectiveMalformed,
			domain.Directive{},
		},
		{
			"first of multiple candidates wins",
			"RESCHEDULE_REQUEST: 2026-02-20 | 3:00 PM\nRESCHEDULE_REQUEST: 2026-02-21 | 4:00 PM",
			llm.DirectiveFound,
			domain.Directive{Date: "2026-02-20", Time: "3:00 PM"},
		},
		{
			"marker mid-line",
			"Confirmed. RESCHEDULE_REQUEST: 2026-06-10 | 9:15 AM",
			llm.DirectiveFound,
			domain.Directive{Date: "2026-06-10", Time: "9:15 AM"},
		},
		{
			"malformed date accepted raw",
			"RESCHEDULE_REQUEST: next Tuesday | after lunch",
			llm.DirectiveFound,
			domain.Directive{Date: "next Tuesday", Time: "after lunch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, result := llm.ParseDirective(tt.text)
			if result != tt.wantResult {
				t.Fatalf("ParseDirective() result = %v, want %v", result, tt.wantResult)
			}
			if got != tt.want {
				t.Errorf("ParseDirective() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
