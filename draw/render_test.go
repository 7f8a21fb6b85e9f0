package draw

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/coordinator"
	"github.com/rirc-go/rirc/entity"
)

func TestDrawRendersBufferTailStatusAndInput(t *testing.T) {
	c := coordinator.New(coordinator.Options{})
	srv := entity.NewServer("irc.example.org", "6667", []string{"nick"}, "user", "Real Name")
	h := c.AddServer(srv, nil)

	ch := entity.NewChan("#chat", entity.Channel, srv)
	_ = srv.Channels.Add(ch)
	ch.Buffer.Newline(buffer.Chat, "alice", "hello", 0)
	ch.Buffer.Newline(buffer.Chat, "bob", "hi there", 0)
	ch.Input.Insert("draft")
	c.SetCurrent(h, ch)

	var out bytes.Buffer
	r := NewRenderer(NewTerminal(os.Stdin), &out)
	if err := r.Draw(c); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "hello") || !strings.Contains(got, "hi there") {
		t.Errorf("output missing buffer lines: %q", got)
	}
	if !strings.Contains(got, "#chat") {
		t.Errorf("output missing status line channel name: %q", got)
	}
	if !strings.Contains(got, "> draft") {
		t.Errorf("output missing input line: %q", got)
	}
}

func TestDrawWithNoCurrentWindow(t *testing.T) {
	c := coordinator.New(coordinator.Options{})
	var out bytes.Buffer
	r := NewRenderer(NewTerminal(os.Stdin), &out)
	if err := r.Draw(c); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !strings.Contains(out.String(), "no server") {
		t.Errorf("output = %q, want a no-server status line", out.String())
	}
}
