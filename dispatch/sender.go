// Package dispatch implements the receive and send dispatch tables: the
// numeric and command handler tables that mutate entity state in response
// to parsed server lines, and the builders that turn a user command into
// a formatted line on the wire.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/entity"
)

// Sender is the coordinator's write path into a single server connection,
// satisfied directly by *ioengine.Conn's Sendf method.
type Sender interface {
	Sendf(format string, args ...any) error
}

// serverErrorf appends a "-!!-" error line to the server's own buffer
// and returns an error describing it: a semantic protocol error is
// logged to the server buffer, and the handler reports failure.
func serverErrorf(srv *entity.Srv, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	srv.Channel.Buffer.Newline(buffer.ServerError, "", "-!!- "+msg, 0)
	return errors.New(msg)
}

// serverInfof appends an informational line to the server's own buffer.
func serverInfof(srv *entity.Srv, format string, args ...any) {
	srv.Channel.Buffer.Newline(buffer.ServerInfo, "", fmt.Sprintf(format, args...), 0)
}

// chanErrorf appends a "-!!-" error line to ch's buffer and returns an
// error describing it.
func chanErrorf(ch *entity.Chan, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	ch.Buffer.Newline(buffer.ServerError, "", "-!!- "+msg, 0)
	return errors.New(msg)
}

// chanInfof appends an informational line to ch's buffer.
func chanInfof(ch *entity.Chan, format string, args ...any) {
	ch.Buffer.Newline(buffer.ServerInfo, "", fmt.Sprintf(format, args...), 0)
}

// bumpActivity raises ch's activity level, never lowering it; the
// coordinator is responsible for resetting it to Default when the
// channel becomes the focused window.
func bumpActivity(ch *entity.Chan, a entity.Activity) {
	if a > ch.Activity {
		ch.Activity = a
	}
}

// privmsgChannel returns the private-message Chan for nick, creating it
// (as entity.Privmsg) if this is the first message from that nick.
func privmsgChannel(srv *entity.Srv, nick string) *entity.Chan {
	if ch, ok := srv.Channels.Get(nick); ok {
		return ch
	}
	ch := entity.NewChan(nick, entity.Privmsg, srv)
	_ = srv.Channels.Add(ch)
	return ch
}

// isSelf reports whether nick names the server's own active nickname,
// under the server's current casemapping.
func isSelf(srv *entity.Srv, nick string) bool {
	return srv.CaseMapping().Equal(nick, srv.Nick())
}

// resolveChan returns the Chan a PRIVMSG/NOTICE/CTCP addressed to target
// should land in: target's own private-message window when target is us,
// otherwise the named channel (nil if not joined).
func resolveChan(srv *entity.Srv, from, target string) *entity.Chan {
	if isSelf(srv, target) {
		return privmsgChannel(srv, from)
	}
	ch, _ := srv.Channels.Get(target)
	return ch
}
