package syllable

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"ka":      "ka",
		" Ka ":    "ka",
		"MO":      "mo",
		"\tpa\n":  "pa",
		"":        "",
		"  \t  ":  "",
		"tha'ra":  "tha'ra",
		"Tha'RA ": "tha'ra",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}
