package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/casefold"
	"github.com/rirc-go/rirc/ctcp"
	"github.com/rirc-go/rirc/entity"
	"github.com/rirc-go/rirc/ircmode"
	"github.com/rirc-go/rirc/ircmsg"
)

// recv001 handles RPL_WELCOME: registration is complete, so the confirmed
// nick is reported and every channel the user hadn't parted is (re)joined,
// exactly once per channel.
func recv001(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	srv.Registered = true
	serverInfof(srv, "You are known as %s", msg.Params.Get(1))

	srv.Channels.Range(func(ch *entity.Chan) bool {
		if ch.Type == entity.Channel && !ch.Parted {
			_ = send.Sendf("JOIN %s", ch.Name)
		}
		return true
	})
	return nil
}

// recv004 handles RPL_MYINFO, installing the server's usermode and chanmode
// letter sets.
func recv004(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if err := srv.Set004(msg.Params.Get(4), msg.Params.Get(5)); err != nil {
		return serverErrorf(srv, "invalid MYINFO: %v", err)
	}
	return nil
}

// recv005 handles RPL_ISUPPORT, applying the tokens the mode engine and
// casefold comparisons depend on: CHANMODES, PREFIX, MODES, CASEMAPPING.
// Unrecognized tokens are ignored; a malformed recognized token leaves the
// prior configuration in place and reports an error rather than aborting
// the rest of the line.
func recv005(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if len(msg.Params) < 2 {
		return nil
	}
	for _, tok := range msg.Params[1 : len(msg.Params)-1] {
		key, val, hasVal := strings.Cut(tok, "=")
		if !hasVal {
			continue
		}
		var err error
		switch key {
		case "CHANMODES":
			err = srv.ModeConfig.SetSubtypes(val)
		case "PREFIX":
			err = srv.ModeConfig.SetPrefixConfig(val)
		case "MODES":
			err = srv.ModeConfig.SetModesConfig(val)
		case "CASEMAPPING":
			srv.SetCaseMapping(casefold.Parse(val))
		}
		if err != nil {
			serverErrorf(srv, "invalid ISUPPORT %s: %v", key, err)
		}
	}
	return nil
}

// recv221 handles RPL_UMODEIS.
func recv221(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	serverInfof(srv, "your modes: %s", msg.Params.Get(2))
	return nil
}

// recv324 handles RPL_CHANNELMODEIS.
func recv324(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "mode reply for unknown channel %s", chanName)
	}
	chanInfof(ch, "channel modes: %s", strings.Join(msg.Params[2:], " "))
	return nil
}

// recv328 handles RPL_CHANNEL_URL.
func recv328(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "channel URL reply for unknown channel %s", chanName)
	}
	chanInfof(ch, "channel URL: %s", msg.Params.Get(3))
	return nil
}

// recv329 handles RPL_CREATIONTIME.
func recv329(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "creation-time reply for unknown channel %s", chanName)
	}
	if secs, err := strconv.ParseInt(msg.Params.Get(3), 10, 64); err == nil {
		chanInfof(ch, "channel created: %s", time.Unix(secs, 0).Format(time.RFC1123))
	}
	return nil
}

// recv332 handles RPL_TOPIC.
func recv332(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "topic reply for unknown channel %s", chanName)
	}
	ch.Topic = msg.Params.Get(3)
	if ch.Topic == "" {
		chanInfof(ch, "no topic is set")
	} else {
		chanInfof(ch, "topic: %s", ch.Topic)
	}
	return nil
}

// recv333 handles RPL_TOPICWHOTIME.
func recv333(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "topic-who-time reply for unknown channel %s", chanName)
	}
	setBy := msg.Params.Get(3)
	if secs, err := strconv.ParseInt(msg.Params.Get(4), 10, 64); err == nil {
		chanInfof(ch, "topic set by %s on %s", setBy, time.Unix(secs, 0).Format(time.RFC1123))
	} else {
		chanInfof(ch, "topic set by %s", setBy)
	}
	return nil
}

// recv353 handles RPL_NAMREPLY: the channel-level '@'/'*'/'=' symbol is
// applied to the channel's own Mode, and each name is split into its
// leading PREFIX symbols plus bare nick before being added to the user
// list (existing entries, e.g. from an earlier page of a multi-line
// reply, are left alone).
func recv353(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if len(msg.Params) < 4 {
		return serverErrorf(srv, "malformed NAMREPLY")
	}
	sym := msg.Params.Get(2)
	chanName := msg.Params.Get(3)
	names := msg.Params.Get(len(msg.Params))

	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "names reply for unknown channel %s", chanName)
	}

	if sym != "" {
		if err := srv.ModeConfig.SetChanFromPrefix(&ch.ChanModes, sym[0]); err != nil {
			chanErrorf(ch, "names: %v", err)
		}
	}

	for _, tok := range strings.Fields(names) {
		nick := tok
		var mode ircmode.Mode
		for len(nick) > 0 && strings.IndexByte(srv.ModeConfig.PREFIX.T, nick[0]) >= 0 {
			_ = srv.ModeConfig.SetPrefixFromSymbol(&mode, nick[0])
			nick = nick[1:]
		}
		if nick == "" {
			continue
		}
		if _, exists := ch.Users.Get(nick); exists {
			continue
		}
		_ = ch.Users.Add(nick, mode)
	}
	return nil
}

// recv433 handles ERR_NICKNAMEINUSE during registration by rotating to the
// next candidate nick; once the list is exhausted, the last attempted nick
// is left in place and failure is reported rather than retried forever.
func recv433(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if srv.Registered {
		return serverErrorf(srv, "nickname %s is in use", msg.Params.Get(2))
	}
	next, ok := srv.NextNick()
	if !ok {
		return serverErrorf(srv, "nickname %s is in use, no more candidates to try", srv.Nick())
	}
	serverInfof(srv, "nickname in use, trying again with '%s'", next)
	return send.Sendf("NICK %s", next)
}

// recvGeneric reports any numeric or command without a dedicated handler
// as a single informational line in the server buffer.
func recvGeneric(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	serverInfof(srv, "%s %s", msg.Command, genericLine(msg))
	return nil
}

// genericLine renders a message's parameters the way the server buffer
// shows replies with no dedicated handler: non-trailing params bracketed,
// the trailing param (if any) set off by "~".
func genericLine(msg *ircmsg.Message) string {
	switch len(msg.Params) {
	case 0:
		return ""
	case 1:
		return msg.Params[0]
	}
	head := strings.Join(msg.Params[:len(msg.Params)-1], " ")
	trailing := msg.Params[len(msg.Params)-1]
	if trailing == "" {
		return "[" + head + "]"
	}
	return fmt.Sprintf("[%s] ~ %s", head, trailing)
}

// recvCAP delegates to the per-server ircv3cap.Capabilities state machine,
// translating its return values into CAP REQ/END lines on the wire.
func recvCAP(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if len(msg.Params) < 2 {
		return serverErrorf(srv, "malformed CAP message")
	}

	switch sub := strings.ToUpper(msg.Params.Get(2)); sub {
	case "LS":
		list := msg.Params.Get(3)
		continued := list == "*"
		if continued {
			list = msg.Params.Get(4)
		}
		toReq, sendEnd := srv.Caps.LS(list, continued, srv.Registered)
		for _, name := range toReq {
			_ = send.Sendf("CAP REQ :%s", name)
		}
		if sendEnd {
			return send.Sendf("CAP END")
		}
	case "ACK":
		sendEnd, err := srv.Caps.ACK(msg.Params.Get(3), srv.Registered)
		if err != nil {
			serverErrorf(srv, "CAP ACK: %v", err)
		}
		if sendEnd {
			return send.Sendf("CAP END")
		}
	case "NAK":
		sendEnd, err := srv.Caps.NAK(msg.Params.Get(3), srv.Registered)
		if err != nil {
			serverErrorf(srv, "CAP NAK: %v", err)
		}
		if sendEnd {
			return send.Sendf("CAP END")
		}
	case "NEW":
		for _, name := range srv.Caps.NEW(msg.Params.Get(3)) {
			_ = send.Sendf("CAP REQ :%s", name)
		}
	case "DEL":
		srv.Caps.DEL(msg.Params.Get(3))
		serverInfof(srv, "capabilities removed: %s", msg.Params.Get(3))
	case "LIST":
		serverInfof(srv, "capabilities: %s", strings.Join(srv.Caps.List(), " "))
	default:
		return serverErrorf(srv, "unrecognized CAP subcommand %s", sub)
	}
	return nil
}

// recvJoin handles JOIN: from self it creates the channel if needed and
// marks it joined; from another user it adds them to the user list,
// suppressing the join line once membership exceeds JoinThreshold.
func recvJoin(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName, err := msg.Chan()
	if err != nil || chanName == "" {
		return serverErrorf(srv, "malformed JOIN")
	}
	nick := string(msg.Source.Nick)

	ch, ok := srv.Channels.Get(chanName)
	if isSelf(srv, nick) {
		if !ok {
			ch = entity.NewChan(chanName, entity.Channel, srv)
			_ = srv.Channels.Add(ch)
		}
		ch.Joined = true
		ch.Parted = false
		chanInfof(ch, "you have joined %s", chanName)
		return send.Sendf("MODE %s", chanName)
	}

	if !ok {
		return serverErrorf(srv, "JOIN from %s for unknown channel %s", nick, chanName)
	}
	if err := ch.Users.Add(nick, ircmode.Mode{}); err != nil {
		return chanErrorf(ch, "JOIN: %v", err)
	}
	if srv.JoinThreshold == 0 || ch.Users.Len() <= srv.JoinThreshold {
		bumpActivity(ch, entity.ActivityJPQ)
		ch.Buffer.Newline(buffer.Join, "", nick+" has joined "+chanName, 0)
	}
	return nil
}

// recvKick handles KICK: the target being self resets the channel to
// parted; otherwise the named user is removed. A comment equal to the
// kicker's own nick (a common server default) is suppressed as redundant.
func recvKick(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(1)
	target := msg.Params.Get(2)
	comment := msg.Params.Get(3)
	kicker := string(msg.Source.Nick)

	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "KICK for unknown channel %s", chanName)
	}

	if isSelf(srv, target) {
		ch.Part()
		if comment != "" && comment != kicker {
			chanInfof(ch, "you were kicked by %s (%s)", kicker, comment)
		} else {
			chanInfof(ch, "you were kicked by %s", kicker)
		}
		return nil
	}

	if err := ch.Users.Del(target); err != nil {
		return chanErrorf(ch, "KICK: %v", err)
	}
	bumpActivity(ch, entity.ActivityJPQ)
	text := target + " was kicked by " + kicker
	if comment != "" && comment != kicker {
		text += " (" + comment + ")"
	}
	ch.Buffer.Newline(buffer.Part, "", text, 0)
	return nil
}

// recvMode handles MODE: a target equal to our own nick mutates usermodes,
// anything else is treated as a channel and mutates chanmodes/prefix
// modes, consuming a parameter from the remaining params for whichever
// flags the mode configuration says require one.
func recvMode(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	if len(msg.Params) < 2 {
		return serverErrorf(srv, "malformed MODE")
	}
	target := msg.Params.Get(1)
	modestr := msg.Params.Get(2)
	params := msg.Params[2:]

	if isSelf(srv, target) {
		err := applyModeString(modestr, func(flag byte, on bool) error {
			return srv.ModeConfig.SetUser(&srv.UserModes, flag, on)
		})
		if err != nil {
			return serverErrorf(srv, "MODE: %v", err)
		}
		serverInfof(srv, "mode change: %s", modestr)
		return nil
	}

	ch, ok := srv.Channels.Get(target)
	if !ok {
		return serverErrorf(srv, "MODE for unknown channel %s", target)
	}

	pi := 0
	err := applyModeString(modestr, func(flag byte, on bool) error {
		switch srv.ModeConfig.Classify(flag, on) {
		case ircmode.InvalidFlag:
			return ircmode.ErrInvalidFlag
		case ircmode.PrefixFlag:
			nick := paramAt(params, &pi)
			if nick == "" {
				return ircmode.ErrInvalidFlag
			}
			u, ok := ch.Users.Get(nick)
			if !ok {
				return entity.ErrUserNotFound
			}
			return srv.ModeConfig.SetPrefix(&u.PrfxModes, flag, on)
		case ircmode.ChanmodeParam:
			if paramAt(params, &pi) == "" {
				return ircmode.ErrInvalidConfig
			}
			return srv.ModeConfig.SetChan(&ch.ChanModes, flag, on)
		default:
			return srv.ModeConfig.SetChan(&ch.ChanModes, flag, on)
		}
	})
	ch.ChanModesStr = ch.ChanModes.String(ircmode.Chanmode)
	if err != nil {
		return chanErrorf(ch, "MODE %s: %v", target, err)
	}
	chanInfof(ch, "mode change by %s: %s", string(msg.Source.Nick), modestr)
	return nil
}

// recvNick handles NICK: a change by self updates the active candidate
// nick in place, and every channel's user list is updated wherever the old
// nick is currently a member.
func recvNick(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	oldNick := string(msg.Source.Nick)
	newNick := msg.Params.Get(1)
	if oldNick == "" || newNick == "" {
		return serverErrorf(srv, "malformed NICK")
	}

	if isSelf(srv, oldNick) {
		srv.Nicks[srv.NickCursor] = newNick
		serverInfof(srv, "%s is now known as %s", oldNick, newNick)
	}

	srv.Channels.Range(func(ch *entity.Chan) bool {
		if err := ch.Users.Rpl(oldNick, newNick); err == nil {
			bumpActivity(ch, entity.ActivityJPQ)
			ch.Buffer.Newline(buffer.Nick, "", oldNick+" is now known as "+newNick, 0)
		}
		return true
	})
	return nil
}

// recvPart handles PART: self leaving marks the channel parted without
// closing it; another user leaving removes them, suppressing the line once
// membership exceeds PartThreshold.
func recvPart(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(1)
	reason := msg.Params.Get(2)
	nick := string(msg.Source.Nick)

	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "PART for unknown channel %s", chanName)
	}

	if isSelf(srv, nick) {
		ch.Part()
		chanInfof(ch, "you have left %s", chanName)
		return nil
	}

	if err := ch.Users.Del(nick); err != nil {
		return chanErrorf(ch, "PART: %v", err)
	}
	if srv.PartThreshold == 0 || ch.Users.Len() <= srv.PartThreshold {
		bumpActivity(ch, entity.ActivityJPQ)
		text := nick + " has left " + chanName
		if reason != "" {
			text += " (" + reason + ")"
		}
		ch.Buffer.Newline(buffer.Part, "", text, 0)
	}
	return nil
}

// recvPing replies to a server PING with the token it sent (or the server
// host, absent a token).
func recvPing(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	token := msg.Params.Get(1)
	if token == "" {
		token = srv.Host
	}
	return send.Sendf("PONG :%s", token)
}

// recvPong clears the outstanding-ping tracking a PING round-trip was
// waiting on.
func recvPong(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	srv.Pinging = false
	srv.LatencyStart = time.Time{}
	return nil
}

// recvQuit handles QUIT: the sender is removed from every channel they
// appeared in, each reporting the departure unless QuitThreshold is
// exceeded there.
func recvQuit(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	nick := string(msg.Source.Nick)
	if nick == "" {
		return nil
	}
	reason := msg.Params.Get(1)

	srv.Channels.Range(func(ch *entity.Chan) bool {
		if err := ch.Users.Del(nick); err != nil {
			return true
		}
		if srv.QuitThreshold == 0 || ch.Users.Len() <= srv.QuitThreshold {
			bumpActivity(ch, entity.ActivityJPQ)
			text := nick + " has quit"
			if reason != "" {
				text += " (" + reason + ")"
			}
			ch.Buffer.Newline(buffer.Quit, "", text, 0)
		}
		return true
	})
	return nil
}

// recvTopicCmd handles a live TOPIC change (as opposed to RPL_TOPIC on
// join).
func recvTopicCmd(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	chanName := msg.Params.Get(1)
	topic := msg.Params.Get(2)
	ch, ok := srv.Channels.Get(chanName)
	if !ok {
		return serverErrorf(srv, "TOPIC for unknown channel %s", chanName)
	}
	ch.Topic = topic
	nick := string(msg.Source.Nick)
	bumpActivity(ch, entity.ActivityJPQ)
	if topic == "" {
		chanInfof(ch, "%s cleared the topic", nick)
	} else {
		chanInfof(ch, "%s changed the topic to: %s", nick, topic)
	}
	return nil
}

// recvError reports a fatal server-initiated ERROR to the server buffer.
func recvError(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	srv.Quitting = true
	return serverErrorf(srv, "%s", msg.Params.Get(1))
}

// recvInvite reports an incoming channel invitation.
func recvInvite(srv *entity.Srv, msg *ircmsg.Message, send Sender) error {
	serverInfof(srv, "%s invites you to %s", string(msg.Source.Nick), msg.Params.Get(2))
	return nil
}

// dispatchMessage implements the shared PRIVMSG/NOTICE routing: CTCP
// extraction, ignore-set suppression, private-channel creation, and ping
// detection.
func dispatchMessage(d *Deps, srv *entity.Srv, msg *ircmsg.Message, send Sender, isNotice bool) error {
	from := string(msg.Source.Nick)
	target := msg.Params.Get(1)
	text := msg.Params.Get(2)

	if from != "" {
		if _, ignored := srv.Ignore.Get(from); ignored {
			return nil
		}
	}

	if ctcp.IsRequest(text) {
		return dispatchCTCP(d, srv, from, target, text, send, isNotice)
	}

	ch := resolveChan(srv, from, target)
	if ch == nil {
		return serverErrorf(srv, "message for unknown channel %s", target)
	}

	typ := buffer.Chat
	activity := entity.ActivityActive
	pinged := casefold.Pinged(srv.CaseMapping(), text, srv.Nick())
	if pinged {
		typ = buffer.Pinged
	}
	// A query (a private message window) is inherently urgent: any line
	// landing there rings the bell the same as a pinged mention, whether
	// or not the nick literally appears in the text.
	if pinged || ch.Type == entity.Privmsg {
		activity = entity.ActivityPinged
		if d.Bell != nil {
			d.Bell()
		}
	}
	bumpActivity(ch, activity)

	var prefix byte
	if isNotice {
		prefix = '-'
	}
	ch.Buffer.Newline(typ, from, text, prefix)
	return nil
}

// dispatchCTCP handles the \x01-delimited body of a PRIVMSG/NOTICE: ACTION
// is rendered directly into the target's buffer, informational requests
// are answered via d.CTCP, and CTCP replies (which always arrive as
// NOTICE) are simply dropped since nothing is waiting synchronously on
// them.
func dispatchCTCP(d *Deps, srv *entity.Srv, from, target, text string, send Sender, isNotice bool) error {
	m, err := ctcp.Extract(text)
	if err != nil {
		return nil
	}

	if m.Command == ctcp.Action {
		ch := resolveChan(srv, from, target)
		if ch == nil {
			return serverErrorf(srv, "ACTION for unknown channel %s", target)
		}
		activity := entity.ActivityActive
		if ch.Type == entity.Privmsg {
			activity = entity.ActivityPinged
			if d.Bell != nil {
				d.Bell()
			}
		}
		bumpActivity(ch, activity)
		ch.Buffer.Newline(buffer.Chat, "", "* "+from+" "+m.Args, 0)
		return nil
	}

	if isNotice || d.CTCP == nil {
		return nil
	}

	reply, ok, known := d.CTCP.Dispatch(from, m)
	if !known {
		return send.Sendf("NOTICE %s :%s", from, ctcp.Wrap(ctcp.ErrMsg, m.Command+" not implemented"))
	}
	if !ok {
		return nil
	}
	return send.Sendf("NOTICE %s :%s", from, ctcp.Wrap(m.Command, reply))
}
