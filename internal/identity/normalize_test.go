package identity

import "testing"

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Sofía Huerta", want: "sofia huerta"},
		{in: "  SOFIA   HUERTA ", want: "sofia huerta"},
		{in: "J. Smith", want: "j smith"},
		{in: "Ali O'Hara", want: "ali ohara"},
		{in: "Jo-Anne Müller", want: "jo anne muller"},
		{in: "Marta Vieira da Silva", want: "marta vieira da silva"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("unexpected normalized name for %q: got=%q want=%q", tc.in, got, tc.want)
		}
	}
}
