package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandAbbreviations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "known tokens expand",
			in:   "Met with OP re OSC",
			want: "Met with Opposing Counsel re Order to Show Cause",
		},
		{
			name: "lookup is case-insensitive",
			in:   "drafted mol and aff",
			want: "drafted Memorandum of Law and Affirmation",
		},
		{
			name: "unmatched tokens keep their casing",
			in:   "Reviewed NYSCEF filing for Smith",
			want: "Reviewed New York State Courts Electronic Filing filing for Smith",
		},
		{
			name: "whitespace collapses to single spaces",
			in:   "  call   with\tOP ",
			want: "call with Opposing Counsel",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandAbbreviations(tt.in))
		})
	}
}
