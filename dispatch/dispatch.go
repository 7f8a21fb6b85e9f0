package dispatch

import (
	"github.com/rirc-go/rirc/ctcp"
	"github.com/rirc-go/rirc/entity"
	"github.com/rirc-go/rirc/ircmsg"
)

// Deps carries the cross-cutting configuration a handful of recv handlers
// need beyond the (server, message, sender) triple: the CTCP responder, the
// identity it answers informational requests with, and a bell callback for
// when the user's nick is pinged or a private message arrives.
type Deps struct {
	CTCP     *ctcp.Registry
	Identity ctcp.Identity
	Bell     func()
}

// RecvFunc mutates srv's state (and may write to the wire via send) in
// response to a single parsed message.
type RecvFunc func(srv *entity.Srv, msg *ircmsg.Message, send Sender) error

// RecvTable maps a command name or three-digit numeric to the RecvFunc that
// handles it.
type RecvTable map[string]RecvFunc

// NewRecvTable returns a RecvTable pre-populated with every numeric and
// command handler named in the receive dispatch, closing over d for the
// handlers (PRIVMSG, NOTICE) that need it.
func NewRecvTable(d Deps) RecvTable {
	t := RecvTable{
		ircmsg.RplWelcome:        recv001,
		ircmsg.RplMyInfo:         recv004,
		ircmsg.RplISupport:       recv005,
		ircmsg.RplUModeIs:        recv221,
		ircmsg.RplChannelModeIs:  recv324,
		ircmsg.RplChannelURL:     recv328,
		ircmsg.RplCreationTime:   recv329,
		ircmsg.RplTopic:          recv332,
		ircmsg.RplTopicWhoTime:   recv333,
		ircmsg.RplNamReply:       recv353,
		ircmsg.RplErrNicknameInUse: recv433,

		ircmsg.CmdCap:    recvCAP,
		ircmsg.CmdError:  recvError,
		ircmsg.CmdInvite: recvInvite,
		ircmsg.CmdJoin:   recvJoin,
		ircmsg.CmdKick:   recvKick,
		ircmsg.CmdMode:   recvMode,
		ircmsg.CmdNick:   recvNick,
		ircmsg.CmdPart:   recvPart,
		ircmsg.CmdPing:   recvPing,
		ircmsg.CmdPong:   recvPong,
		ircmsg.CmdQuit:   recvQuit,
		ircmsg.CmdTopic:  recvTopicCmd,
	}

	t[ircmsg.CmdPrivmsg] = func(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
		return dispatchMessage(&d, srv, msg, send, false)
	}
	t[ircmsg.CmdNotice] = func(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
		return dispatchMessage(&d, srv, msg, send, true)
	}

	return t
}

// Dispatch looks up and invokes the handler registered for msg.Command,
// falling back to a generic informational line for anything unrecognized
// (most numerics have no state-mutating effect worth a dedicated handler).
func Dispatch(t RecvTable, srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if fn, ok := t[string(msg.Command)]; ok {
		return fn(srv, msg, send)
	}
	return recvGeneric(srv, msg, send)
}
