package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  plain  ", "  plain  "},
		{"if a<b and c>d then", "if a<b and c>d then"},
		{"a<b only c>d", "a<b only c>d"},
		{"x < y > z", "x < y > z"},
		{"<3 you", "<3 you"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"<b>Tom</b> & Jerry", "Tom & Jerry"},
		{"<script>alert(1)</script>Hi", "Hi"},
		{`<img src=x onerror=alert(1)>Hi`, "Hi"},
		{"<!-- c -->Hi", "Hi"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsMarkup(t *testing.T) {
	if ContainsMarkup("a<b and c>d") {
		t.Fatalf("stray brackets are not markup")
	}
	if !ContainsMarkup(`<i onclick="x()">hi`) {
		t.Fatalf("event handler attribute should count as markup")
	}
	if !ContainsMarkup("Hi<br/>there") {
		t.Fatalf("self closing tag should count as markup")
	}
	if ContainsMarkup("x</y>") {
		t.Fatalf("an unmatched end tag is not markup")
	}
}
