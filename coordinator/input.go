package coordinator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/dispatch"
	"github.com/rirc-go/rirc/entity"
)

// commandsWithRawArgs are the user commands whose SendFunc does its own
// trailing-text joining; everything else not in the dispatch.SendTable
// is passed through verbatim as a raw line, its first word uppercased.
var commandsWithRawArgs = map[string]bool{
	"JOIN": true, "PART": true, "MSG": true, "PRIVMSG": true, "NOTICE": true,
	"ME": true, "DESCRIBE": true, "NICK": true, "QUIT": true, "TOPIC": true,
	"KICK": true, "MODE": true, "INVITE": true, "VERSION": true,
}

// HandleInput interprets one line of typed input against the current
// window: a leading '/' sends an IRC command, a leading ':' runs a
// local command, a literal double-leader ("//" or "::") sends the
// remainder as a privmsg, and anything else is a privmsg to the current
// channel.
func (c *Coordinator) HandleInput(line string) error {
	c.mu.Lock()
	h := c.current
	ch := c.currentChan
	srv, ok := c.servers.Get(h)
	connPtr := c.conns[h]
	c.mu.Unlock()

	if !ok || ch == nil {
		return ErrNoCurrentWindow
	}

	// connPtr is typed *ioengine.Conn; wrap it in the Sender interface only
	// when non-nil; otherwise a nil *Conn boxed in a non-nil interface
	// would pass any `send == nil` check below and then panic on use.
	var conn dispatch.Sender
	if connPtr != nil {
		conn = connPtr
	}

	switch {
	case strings.HasPrefix(line, "//"):
		return c.sendPrivmsg(srv, ch, conn, line[1:])
	case strings.HasPrefix(line, "::"):
		return c.sendPrivmsg(srv, ch, conn, line[1:])
	case strings.HasPrefix(line, "/"):
		return c.runIRCCommand(srv, ch, conn, line[1:])
	case strings.HasPrefix(line, ":"):
		return c.runLocalCommand(srv, ch, conn, line[1:])
	default:
		return c.sendPrivmsg(srv, ch, conn, line)
	}
}

func (c *Coordinator) sendPrivmsg(srv *entity.Srv, ch *entity.Chan, send dispatch.Sender, text string) error {
	if text == "" {
		return nil
	}
	if send == nil {
		return chanInputErrorf(ch, "not connected")
	}
	if err := c.send.Dispatch(srv, send, "MSG", []string{ch.Name, text}); err != nil {
		return err
	}
	ch.Buffer.Newline(buffer.Chat, srv.Nick(), text, 0)
	c.redraw()
	return nil
}

func (c *Coordinator) runIRCCommand(srv *entity.Srv, ch *entity.Chan, send dispatch.Sender, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return chanInputErrorf(ch, "empty command")
	}
	name := strings.ToUpper(fields[0])
	args := fields[1:]

	if send == nil {
		return chanInputErrorf(ch, "not connected")
	}

	if commandsWithRawArgs[name] {
		defer c.redraw()
		return c.send.Dispatch(srv, send, name, args)
	}
	defer c.redraw()
	return send.Sendf("%s", strings.TrimSpace(name+" "+strings.Join(args, " ")))
}

func (c *Coordinator) runLocalCommand(srv *entity.Srv, ch *entity.Chan, send dispatch.Sender, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return chanInputErrorf(ch, "empty local command")
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]
	defer c.redraw()

	switch name {
	case "quit":
		if send == nil {
			return chanInputErrorf(ch, "not connected")
		}
		return c.send.Dispatch(srv, send, "QUIT", args)
	case "disconnect":
		c.mu.Lock()
		h := c.current
		c.mu.Unlock()
		return c.Disconnect(h)
	case "connect":
		return c.localConnect(args)
	case "clear":
		ch.Buffer = buffer.New()
		return nil
	case "close":
		return c.closeChan(srv, ch, send)
	case "set":
		return c.localSet(ch, args)
	default:
		return chanInputErrorf(ch, "unknown local command :%s", name)
	}
}

// localConnect implements ":connect [host [port [pass [user [real]]]]]":
// it registers and connects a new server, leaving existing servers alone.
func (c *Coordinator) localConnect(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("coordinator: :connect requires at least a host")
	}
	host := args[0]
	port := "6667"
	if len(args) > 1 {
		port = args[1]
	}
	var pass string
	if len(args) > 2 {
		pass = args[2]
	}
	user := "rirc"
	if len(args) > 3 {
		user = args[3]
	}
	real := user
	if len(args) > 4 {
		real = strings.Join(args[4:], " ")
	}

	srv := entity.NewServer(host, port, []string{user}, user, real)
	srv.Pass = pass
	h := c.AddServer(srv, nil)
	return c.Connect(h)
}

// closeChan implements ":close": it parts a joined channel (if still
// joined and connected) and removes the window, falling back to the
// server's own window if this one was current.
func (c *Coordinator) closeChan(srv *entity.Srv, ch *entity.Chan, send dispatch.Sender) error {
	if ch == srv.Channel {
		return fmt.Errorf("coordinator: cannot close a server window, use :disconnect")
	}
	if ch.Type == entity.Channel && ch.Joined && send != nil {
		_ = c.send.Dispatch(srv, send, "PART", []string{ch.Name})
	}
	_ = srv.Channels.Del(ch.Name)
	c.mu.Lock()
	if c.currentChan == ch {
		c.currentChan = srv.Channel
	}
	c.mu.Unlock()
	return nil
}

// localSet implements ":set join-threshold|part-threshold|quit-threshold N",
// adjusting the noise-suppression thresholds of the current window's
// server (they apply to every channel on that server).
func (c *Coordinator) localSet(ch *entity.Chan, args []string) error {
	if len(args) != 2 {
		return chanInputErrorf(ch, "usage: :set <join-threshold|part-threshold|quit-threshold> <n>")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return chanInputErrorf(ch, "set: %v", err)
	}
	srv := ch.Server
	switch args[0] {
	case "join-threshold":
		srv.JoinThreshold = n
	case "part-threshold":
		srv.PartThreshold = n
	case "quit-threshold":
		srv.QuitThreshold = n
	default:
		return chanInputErrorf(ch, "set: unknown key %q", args[0])
	}
	return nil
}

func chanInputErrorf(ch *entity.Chan, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	ch.Buffer.Newline(buffer.ServerError, "", "-!!- "+msg, 0)
	return fmt.Errorf("%s", msg)
}
