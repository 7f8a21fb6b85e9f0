package dispatch

import (
	"strings"

	"github.com/rirc-go/rirc/entity"
	"github.com/rirc-go/rirc/ircmsg"
)

// build renders cmd/args through ircmsg's marshaler so every outgoing line
// gets the same trailing-parameter colon placement and escaping rules as
// a parsed one, then hands back the bare line for Sender.Sendf to append
// its own CRLF to.
func build(cmd ircmsg.Command, args ...string) string {
	b, _ := ircmsg.NewMessage(cmd, args...).MarshalText()
	return strings.TrimSuffix(string(b), "\r\n")
}

// SendFunc builds and writes one outgoing command, given the server it
// applies to (for nick-candidate and registration state) and the
// remainder of a typed user command as args.
type SendFunc func(srv *entity.Srv, send Sender, args []string) error

// SendTable maps a user-facing command name (the word following a leading
// '/' in typed input, already upper-cased) to the SendFunc that builds and
// writes it.
type SendTable map[string]SendFunc

// NewSendTable returns a SendTable covering every user command named in
// the CLI surface, each builder looking up nick/registration state from
// an entity.Srv rather than holding it as free-standing arguments.
func NewSendTable() SendTable {
	return SendTable{
		"JOIN":     sendJoin,
		"PART":     sendPart,
		"MSG":      sendMsg,
		"PRIVMSG":  sendMsg,
		"NOTICE":   sendNotice,
		"ME":       sendDescribe,
		"DESCRIBE": sendDescribe,
		"NICK":     sendNick,
		"QUIT":     sendQuit,
		"TOPIC":    sendTopic,
		"KICK":     sendKick,
		"MODE":     sendMode,
		"INVITE":   sendInvite,
		"VERSION":  sendCTCPVersion,
	}
}

// sendJoin builds JOIN <channel>[,<channel>...] [<key>[,<key>...]].
func sendJoin(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "JOIN: channel required")
	}
	if len(args) > 1 {
		return send.Sendf("%s", build(ircmsg.CmdJoin, args[0], args[1]))
	}
	return send.Sendf("%s", build(ircmsg.CmdJoin, args[0]))
}

// sendPart builds PART <channel> [:<reason>].
func sendPart(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "PART: channel required")
	}
	if reason := strings.Join(args[1:], " "); reason != "" {
		return send.Sendf("%s", build(ircmsg.CmdPart, args[0], reason))
	}
	return send.Sendf("%s", build(ircmsg.CmdPart, args[0]))
}

// sendMsg builds PRIVMSG <target> :<text>.
func sendMsg(srv *entity.Srv, send Sender, args []string) error {
	if len(args) < 2 {
		return serverErrorf(srv, "MSG: target and message required")
	}
	return send.Sendf("%s", build(ircmsg.CmdPrivmsg, args[0], strings.Join(args[1:], " ")))
}

// sendNotice builds NOTICE <target> :<text>.
func sendNotice(srv *entity.Srv, send Sender, args []string) error {
	if len(args) < 2 {
		return serverErrorf(srv, "NOTICE: target and message required")
	}
	return send.Sendf("%s", build(ircmsg.CmdNotice, args[0], strings.Join(args[1:], " ")))
}

// sendDescribe builds a CTCP ACTION addressed to args[0].
func sendDescribe(srv *entity.Srv, send Sender, args []string) error {
	if len(args) < 2 {
		return serverErrorf(srv, "ME: target and action required")
	}
	action := "\x01ACTION " + strings.Join(args[1:], " ") + "\x01"
	return send.Sendf("%s", build(ircmsg.CmdPrivmsg, args[0], action))
}

// sendNick builds a NICK change request.
func sendNick(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "NICK: name required")
	}
	return send.Sendf("%s", build(ircmsg.CmdNick, args[0]))
}

// sendQuit builds QUIT [:<message>] and sets srv.Quitting. Neither the
// coordinator nor ioengine reads that flag, so the connection's reconnect
// behaviour after the resulting disconnect is unchanged.
func sendQuit(srv *entity.Srv, send Sender, args []string) error {
	srv.Quitting = true
	if reason := strings.Join(args, " "); reason != "" {
		return send.Sendf("%s", build(ircmsg.CmdQuit, reason))
	}
	return send.Sendf("%s", build(ircmsg.CmdQuit))
}

// sendTopic builds TOPIC <channel> [:<topic>]; with no topic argument it
// queries rather than sets.
func sendTopic(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "TOPIC: channel required")
	}
	if topic := strings.Join(args[1:], " "); topic != "" {
		return send.Sendf("%s", build(ircmsg.CmdTopic, args[0], topic))
	}
	return send.Sendf("%s", build(ircmsg.CmdTopic, args[0]))
}

// sendKick builds KICK <channel> <nick> [:<reason>].
func sendKick(srv *entity.Srv, send Sender, args []string) error {
	if len(args) < 2 {
		return serverErrorf(srv, "KICK: channel and nick required")
	}
	if reason := strings.Join(args[2:], " "); reason != "" {
		return send.Sendf("%s", build(ircmsg.CmdKick, args[0], args[1], reason))
	}
	return send.Sendf("%s", build(ircmsg.CmdKick, args[0], args[1]))
}

// sendMode builds MODE <target> [<modestring> [<params...>]].
func sendMode(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "MODE: target required")
	}
	return send.Sendf("%s", build(ircmsg.CmdMode, args...))
}

// sendInvite builds INVITE <nick> <channel>.
func sendInvite(srv *entity.Srv, send Sender, args []string) error {
	if len(args) < 2 {
		return serverErrorf(srv, "INVITE: nick and channel required")
	}
	return send.Sendf("%s", build(ircmsg.CmdInvite, args[0], args[1]))
}

// sendCTCPVersion asks args[0] to identify itself.
func sendCTCPVersion(srv *entity.Srv, send Sender, args []string) error {
	if len(args) == 0 {
		return serverErrorf(srv, "VERSION: target required")
	}
	return send.Sendf("%s", build(ircmsg.CmdPrivmsg, args[0], "\x01VERSION\x01"))
}

// Dispatch looks up and invokes the SendFunc registered for name (already
// upper-cased), reporting an unknown-command error if none is registered.
func (t SendTable) Dispatch(srv *entity.Srv, send Sender, name string, args []string) error {
	fn, ok := t[name]
	if !ok {
		return serverErrorf(srv, "unknown command: %s", name)
	}
	return fn(srv, send, args)
}

// Register builds the registration sequence sent immediately after a
// connection is established: an optional PASS, then NICK and USER.
func Register(srv *entity.Srv, send Sender) error {
	if srv.Pass != "" {
		if err := send.Sendf("%s", build(ircmsg.CmdPass, srv.Pass)); err != nil {
			return err
		}
	}
	if err := send.Sendf("%s", build(ircmsg.CmdNick, srv.Nick())); err != nil {
		return err
	}
	return send.Sendf("%s", build(ircmsg.CmdUser, srv.User, "0", "*", srv.Realname))
}

// CapLS sends the version-302 CAP negotiation opener.
func CapLS(send Sender) error {
	return send.Sendf("%s", build(ircmsg.CmdCap, "LS", "302"))
}
