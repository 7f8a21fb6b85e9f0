package casefold

import "testing"

func TestToUpper(t *testing.T) {
	tests := []struct {
		mapping CaseMapping
		in, out byte
	}{
		{RFC1459, '{', '['},
		{RFC1459, '}', ']'},
		{RFC1459, '|', '\\'},
		{RFC1459, '^', '~'},
		{StrictRFC1459, '{', '['},
		{StrictRFC1459, '^', '^'},
		{StrictRFC1459, '|', '\\'},
		{Ascii, '{', '{'},
		{Ascii, '|', '|'},
		{Ascii, '^', '^'},
		{RFC1459, 'a', 'A'},
		{Ascii, 'a', 'A'},
		{RFC1459, '5', '5'},
	}
	for _, tt := range tests {
		if got := tt.mapping.ToUpper(tt.in); got != tt.out {
			t.Errorf("%v.ToUpper(%q) = %q, want %q", tt.mapping, tt.in, got, tt.out)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		mapping  CaseMapping
		s1, s2   string
		expected bool
	}{
		{RFC1459, "Bob", "bob", true},
		{RFC1459, "Bob[]", "bob{}", true},
		{StrictRFC1459, "Bob^", "bob~", false},
		{Ascii, "Bob[]", "bob{}", false},
		{RFC1459, "Bob", "Bobby", false},
		{RFC1459, "", "", true},
	}
	for _, tt := range tests {
		if got := tt.mapping.Equal(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("%v.Equal(%q, %q) = %v, want %v", tt.mapping, tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestCompareOrdering(t *testing.T) {
	if RFC1459.Compare("alice", "bob") >= 0 {
		t.Error("expected alice < bob")
	}
	if RFC1459.Compare("bob", "bob") != 0 {
		t.Error("expected bob == bob")
	}
	if RFC1459.Compare("bob", "alice") <= 0 {
		t.Error("expected bob > alice")
	}
	if RFC1459.Compare("bob", "bobby") >= 0 {
		t.Error("expected bob < bobby (prefix sorts first)")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		token    string
		expected CaseMapping
	}{
		{"ascii", Ascii},
		{"ASCII", Ascii},
		{"strict-rfc1459", StrictRFC1459},
		{"rfc1459", RFC1459},
		{"", RFC1459},
		{"unknown-value", RFC1459},
	}
	for _, tt := range tests {
		if got := Parse(tt.token); got != tt.expected {
			t.Errorf("Parse(%q) = %v, want %v", tt.token, got, tt.expected)
		}
	}
}

func TestPinged(t *testing.T) {
	tests := []struct {
		mesg, nick string
		expected   bool
	}{
		{"hey bob, you there?", "bob", true},
		{"heybob, you there?", "bob", false},
		{"BOB: check this out", "bob", true},
		{"bobby isn't bob", "bob", true},
		{"nobody home", "bob", false},
		{"", "bob", false},
		{"bob", "bob", true},
		{"bob-ish", "bob", false},
	}
	for _, tt := range tests {
		if got := Pinged(RFC1459, tt.mesg, tt.nick); got != tt.expected {
			t.Errorf("Pinged(%q, %q) = %v, want %v", tt.mesg, tt.nick, got, tt.expected)
		}
	}
}
