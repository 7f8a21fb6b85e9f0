package ctcp

import (
	"testing"
	"time"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		text     string
		expected Message
		wantErr  bool
	}{
		{"\x01VERSION\x01", Message{Command: "VERSION"}, false},
		{"\x01PING 12345\x01", Message{Command: "PING", Args: "12345"}, false},
		{"\x01ACTION waves hello\x01", Message{Command: "ACTION", Args: "waves hello"}, false},
		{"\x01version\x01", Message{Command: "VERSION"}, false},
		// missing trailing delim is tolerated
		{"\x01SOURCE", Message{Command: "SOURCE"}, false},
		{"not ctcp at all", Message{}, true},
		{"\x01\x01", Message{}, true},
		{"\x01", Message{}, true},
		{"", Message{}, true},
	}
	for _, tt := range tests {
		m, err := Extract(tt.text)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Extract(%q): expected error, got %+v", tt.text, m)
			}
			continue
		}
		if err != nil {
			t.Errorf("Extract(%q): unexpected error: %v", tt.text, err)
			continue
		}
		if m != tt.expected {
			t.Errorf("Extract(%q) = %+v, want %+v", tt.text, m, tt.expected)
		}
	}
}

func TestWrapRoundTrip(t *testing.T) {
	wrapped := Wrap(Ping, "12345")
	if wrapped != "\x01PING 12345\x01" {
		t.Fatalf("Wrap produced %q", wrapped)
	}
	m, err := Extract(wrapped)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if m.Command != Ping || m.Args != "12345" {
		t.Errorf("round trip mismatch: %+v", m)
	}
}

func TestIsRequest(t *testing.T) {
	if !IsRequest("\x01VERSION\x01") {
		t.Error("expected true for CTCP-wrapped text")
	}
	if IsRequest("hello") {
		t.Error("expected false for plain text")
	}
	if IsRequest("") {
		t.Error("expected false for empty text")
	}
}

func TestDefaultRegistry(t *testing.T) {
	fixed := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	r := NewDefaultRegistry(Identity{
		Version:   "rirc v2.4",
		SourceURL: "https://rcr.io/rirc",
		RealName:  "Bob Loblaw",
		Nick:      func() string { return "bob" },
		Clock:     func() time.Time { return fixed },
	})

	tests := []struct {
		command string
		args    string
		reply   string
	}{
		{Version, "", "rirc v2.4"},
		{Source, "", "https://rcr.io/rirc"},
		{Ping, "abc123", "abc123"},
		{Time, "", "2026-01-05T12:00:00Z"},
		{UserInfo, "", "bob (Bob Loblaw)"},
		{Finger, "", "Bob Loblaw"},
	}
	for _, tt := range tests {
		reply, ok, known := r.Dispatch("alice", Message{Command: tt.command, Args: tt.args})
		if !known {
			t.Errorf("%s: expected known command", tt.command)
			continue
		}
		if !ok {
			t.Errorf("%s: expected a reply", tt.command)
			continue
		}
		if reply != tt.reply {
			t.Errorf("%s: reply = %q, want %q", tt.command, reply, tt.reply)
		}
	}

	reply, ok, known := r.Dispatch("alice", Message{Command: ClientInfo})
	if !known || !ok {
		t.Fatalf("CLIENTINFO: known=%v ok=%v", known, ok)
	}
	if reply == "" {
		t.Error("CLIENTINFO: expected non-empty command list")
	}

	_, _, known = r.Dispatch("alice", Message{Command: Action})
	if known {
		t.Error("ACTION should not be registered in the default registry")
	}
}
