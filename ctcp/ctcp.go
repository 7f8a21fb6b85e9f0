// Package ctcp implements the Client-To-Client Protocol: a convention for
// embedding out-of-band metadata requests inside PRIVMSG/NOTICE text,
// delimited by the 0x01 byte.
package ctcp

import (
	"errors"
	"strings"
)

// Delim is the byte that opens and closes a CTCP-encoded message body.
const Delim = '\x01'

// Well-known CTCP command names.
const (
	Action     = "ACTION"
	ClientInfo = "CLIENTINFO"
	ErrMsg     = "ERRMSG"
	Finger     = "FINGER"
	Ping       = "PING"
	Source     = "SOURCE"
	Time       = "TIME"
	UserInfo   = "USERINFO"
	Version    = "VERSION"
)

// ErrMalformed is returned by Extract when text opens with Delim but has no
// recognizable command token.
var ErrMalformed = errors.New("ctcp: malformed message")

// Message is a decoded CTCP request or response body.
type Message struct {
	Command string
	Args    string
}

// IsRequest reports whether text is a CTCP-wrapped PRIVMSG/NOTICE body, i.e.
// it opens with Delim.
func IsRequest(text string) bool {
	return len(text) > 0 && text[0] == Delim
}

// Extract parses a CTCP-wrapped message body. The closing Delim is optional
// at the end of the line, matching servers that truncate trailing bytes.
// The command is the token up to the first space (or the whole body if
// there is none); Args is the remainder, trimmed of one leading space.
func Extract(text string) (Message, error) {
	if !IsRequest(text) {
		return Message{}, ErrMalformed
	}
	body := text[1:]
	if end := strings.IndexByte(body, Delim); end >= 0 {
		body = body[:end]
	}
	if body == "" {
		return Message{}, ErrMalformed
	}
	command, args, _ := strings.Cut(body, " ")
	if command == "" {
		return Message{}, ErrMalformed
	}
	return Message{Command: strings.ToUpper(command), Args: args}, nil
}

// Wrap encodes command and args as a CTCP message body suitable for use as
// the text parameter of a PRIVMSG or NOTICE.
func Wrap(command, args string) string {
	var b strings.Builder
	b.WriteByte(Delim)
	b.WriteString(command)
	if args != "" {
		b.WriteByte(' ')
		b.WriteString(args)
	}
	b.WriteByte(Delim)
	return b.String()
}
