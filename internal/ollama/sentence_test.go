package ollama

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		want     []string
		wantRest string
	}{
		{
			name:     "no terminator",
			in:       "The sky is",
			want:     nil,
			wantRest: "The sky is",
		},
		{
			name:     "single sentence with trailing fragment",
			in:       "The sky is blue. Isn't",
			want:     []string{"The sky is blue."},
			wantRest: " Isn't",
		},
		{
			name:     "multiple terminators in one chunk",
			in:       "Yes! Really? Sure.",
			want:     []string{"Yes!", " Really?", " Sure."},
			wantRest: "",
		},
		{
			name:     "terminator only",
			in:       "?",
			want:     []string{"?"},
			wantRest: "",
		},
		{
			name:     "empty",
			in:       "",
			want:     nil,
			wantRest: "",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, rest := splitSentences(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("sentences = %q, want %q", got, tc.want)
			}
			if rest != tc.wantRest {
				t.Fatalf("rest = %q, want %q", rest, tc.wantRest)
			}
		})
	}
}
