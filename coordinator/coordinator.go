// Package coordinator owns every connected server, drives each one's
// ioengine.Conn lifecycle, and is the single serializing point where
// worker callbacks and typed user input both mutate entity state. It
// addresses each server by an entity.ServerHandle and owns the
// current-window cursor the draw layer renders from.
package coordinator

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/ctcp"
	"github.com/rirc-go/rirc/dispatch"
	"github.com/rirc-go/rirc/entity"
	"github.com/rirc-go/rirc/ioengine"
	"github.com/rirc-go/rirc/ircmsg"
)

// ErrNoCurrentWindow is returned by HandleInput when no server has been
// added yet, or the current window's server has since been removed.
var ErrNoCurrentWindow = errors.New("coordinator: no current window")

// ErrUnknownServer is returned when a ServerHandle does not resolve.
var ErrUnknownServer = errors.New("coordinator: unknown server")

// Options configures a Coordinator's cross-cutting dependencies.
type Options struct {
	// Identity answers CTCP informational requests (VERSION, SOURCE, ...).
	Identity ctcp.Identity

	// Bell is invoked when the user's nick is pinged in a message, and for
	// every message or ACTION landing in a private-message window; nil
	// disables the bell.
	Bell func()

	// Redraw is invoked after any state change that should repaint the
	// screen: a new line, a join/part, a connection transition. nil
	// disables the callback (useful in tests).
	Redraw func()

	// Log receives structured diagnostics (parse errors, I/O failures,
	// reconnect timing) distinct from the `-!!-` buffer lines every
	// handler already writes for the user. Defaults to logrus.StandardLogger.
	Log *logrus.Logger

	// Dialer overrides ioengine.Conn's default net.Dialer-based dial,
	// primarily for tests.
	Dialer ioengine.Dialer

	// Stats, if set, is shared across every Conn this coordinator owns.
	Stats *ioengine.ConnStats

	// Network forces the address family used to dial every server this
	// coordinator owns: "tcp4", "tcp6", or "" for the system default.
	Network string

	// Debug, if set, receives a tee of every line sent and received on
	// every server this coordinator owns; nil disables tracing.
	Debug io.Writer
}

// Coordinator owns every connected server and the single current window
// the terminal renders. All of its exported methods lock mu and are safe
// to call from multiple goroutines (the draw loop, signal handlers, the
// stdin reader), but the actual state mutation they trigger --- running a
// RecvFunc or SendFunc --- always happens under that same lock, giving
// every event the total order §5 requires.
type Coordinator struct {
	opts Options

	recv dispatch.RecvTable
	send dispatch.SendTable

	mu      sync.Mutex
	servers entity.Store[*entity.Srv]
	conns   map[entity.ServerHandle]*ioengine.Conn

	current     entity.ServerHandle
	currentChan *entity.Chan

	root *buffer.Buffer // the Root window, not tied to any server
}

// New returns a Coordinator ready to accept AddServer calls.
func New(opts Options) *Coordinator {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	c := &Coordinator{
		opts:  opts,
		conns: make(map[entity.ServerHandle]*ioengine.Conn),
		root:  buffer.New(),
	}
	c.recv = dispatch.NewRecvTable(dispatch.Deps{
		CTCP:     ctcp.NewDefaultRegistry(opts.Identity),
		Identity: opts.Identity,
		Bell:     opts.Bell,
	})
	c.send = dispatch.NewSendTable()
	return c
}

// Root returns the coordinator's own scrollback, not tied to any server.
func (c *Coordinator) Root() *buffer.Buffer { return c.root }

// AddServer registers srv, creates a new ioengine.Conn for it bound to
// this coordinator's callbacks, and returns the handle by which every
// other Coordinator method addresses it. The connection is not started;
// call Connect with the returned handle.
func (c *Coordinator) AddServer(srv *entity.Srv, tlsConfig *tls.Config) entity.ServerHandle {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := c.servers.Add(srv)
	conn := ioengine.NewConn(srv.Host, srv.Port, &serverCallbacks{c: c, h: h})
	conn.TLSConfig = tlsConfig
	conn.Network = c.opts.Network
	conn.Debug = c.opts.Debug
	if c.opts.Dialer != nil {
		conn.Dial = c.opts.Dialer
	}
	conn.Stats = c.opts.Stats
	c.conns[h] = conn

	if c.currentChan == nil {
		c.current = h
		c.currentChan = srv.Channel
	}
	return h
}

// RemoveServer disconnects and forgets h. It is a no-op if h does not
// resolve to a live server.
func (c *Coordinator) RemoveServer(h entity.ServerHandle) {
	c.mu.Lock()
	conn, ok := c.conns[h]
	if ok {
		delete(c.conns, h)
		c.servers.Delete(h)
	}
	resetCurrent := c.current == h
	c.mu.Unlock()

	if conn != nil {
		conn.Dx()
	}
	if resetCurrent {
		c.pickAnyCurrent()
	}
}

// pickAnyCurrent re-establishes a current window after the one in use was
// removed, falling back to no current window if none remain.
func (c *Coordinator) pickAnyCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = entity.ServerHandle{}
	c.currentChan = nil
	c.servers.Range(func(h entity.ServerHandle, srv *entity.Srv) bool {
		c.current = h
		c.currentChan = srv.Channel
		return false
	})
}

// Connect starts (or resumes, after a Disconnect) h's connection attempt.
func (c *Coordinator) Connect(h entity.ServerHandle) error {
	c.mu.Lock()
	conn, ok := c.conns[h]
	c.mu.Unlock()
	if !ok {
		return ErrUnknownServer
	}
	conn.Cx()
	return nil
}

// Disconnect tears down h's connection without forgetting the server; it
// may be reconnected later with Connect.
func (c *Coordinator) Disconnect(h entity.ServerHandle) error {
	c.mu.Lock()
	conn, ok := c.conns[h]
	c.mu.Unlock()
	if !ok {
		return ErrUnknownServer
	}
	conn.Dx()
	return nil
}

// Server resolves h, reporting whether it is still live.
func (c *Coordinator) Server(h entity.ServerHandle) (*entity.Srv, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.servers.Get(h)
}

// Servers calls fn for every live server, in no particular order. It
// stops early if fn returns false.
func (c *Coordinator) Servers(fn func(entity.ServerHandle, *entity.Srv) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.servers.Range(fn)
}

// SetCurrent changes the window the draw layer should render, clearing
// ch's activity flag.
func (c *Coordinator) SetCurrent(h entity.ServerHandle, ch *entity.Chan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = h
	c.currentChan = ch
	if ch != nil {
		ch.Activity = entity.ActivityDefault
	}
}

// Current returns the server and channel currently displayed.
func (c *Coordinator) Current() (*entity.Srv, *entity.Chan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	srv, _ := c.servers.Get(c.current)
	return srv, c.currentChan
}

func (c *Coordinator) redraw() {
	if c.opts.Redraw != nil {
		c.opts.Redraw()
	}
}

// serverCallbacks adapts one ioengine.Conn's callbacks into coordinator
// methods closed over the handle that identifies which server fired them;
// ioengine.Callbacks carries no server identity of its own.
type serverCallbacks struct {
	c *Coordinator
	h entity.ServerHandle
}

func (cb *serverCallbacks) Connected() { cb.c.onConnected(cb.h) }
func (cb *serverCallbacks) Disconnected() { cb.c.onDisconnected(cb.h) }
func (cb *serverCallbacks) Ping(seconds int) { cb.c.onPing(cb.h, seconds) }
func (cb *serverCallbacks) Errf(format string, args ...any) { cb.c.onErrf(cb.h, format, args...) }
func (cb *serverCallbacks) Infof(format string, args ...any) { cb.c.onInfof(cb.h, format, args...) }
func (cb *serverCallbacks) Read(line []byte) { cb.c.onRead(cb.h, line) }

func (c *Coordinator) onConnected(h entity.ServerHandle) {
	c.mu.Lock()
	srv, ok := c.servers.Get(h)
	conn := c.conns[h]
	if ok {
		srv.Channel.Buffer.Newline(buffer.ServerInfo, "", "-!- connected to "+srv.Host+":"+srv.Port, 0)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	c.opts.Log.WithField("server", srv.Host).Info("connected")

	// CapLS/Register write to the wire and may block on a slow peer; kept
	// outside the lock since sends aren't required to serialize with
	// reads beyond TLS-session ordering.
	if err := dispatch.CapLS(conn); err != nil {
		c.opts.Log.WithField("server", srv.Host).WithError(err).Error("send CAP LS")
	}
	if err := dispatch.Register(srv, conn); err != nil {
		c.opts.Log.WithField("server", srv.Host).WithError(err).Error("send registration")
	}
	c.redraw()
}

func (c *Coordinator) onDisconnected(h entity.ServerHandle) {
	c.mu.Lock()
	srv, ok := c.servers.Get(h)
	if ok {
		srv.Registered = false
		srv.Channels.Range(func(ch *entity.Chan) bool {
			ch.Joined = false
			return true
		})
		srv.Channel.Buffer.Newline(buffer.ServerError, "", "-!- disconnected from "+srv.Host+":"+srv.Port, 0)
	}
	c.mu.Unlock()
	c.redraw()
}

func (c *Coordinator) onPing(h entity.ServerHandle, seconds int) {
	c.mu.Lock()
	srv, ok := c.servers.Get(h)
	if ok {
		srv.Pinging = seconds > 0
	}
	c.mu.Unlock()
	c.redraw()
}

func (c *Coordinator) onErrf(h entity.ServerHandle, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	srv, ok := c.servers.Get(h)
	if ok {
		srv.Channel.Buffer.Newline(buffer.ServerError, "", "-!!- "+msg, 0)
	}
	c.mu.Unlock()
	if ok {
		c.opts.Log.WithField("server", srv.Host).Error(msg)
	}
	c.redraw()
}

func (c *Coordinator) onInfof(h entity.ServerHandle, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	srv, ok := c.servers.Get(h)
	if ok {
		srv.Channel.Buffer.Newline(buffer.ServerInfo, "", "-!- "+msg, 0)
	}
	c.mu.Unlock()
	if ok {
		c.opts.Log.WithField("server", srv.Host).Info(msg)
	}
	c.redraw()
}

func (c *Coordinator) onRead(h entity.ServerHandle, line []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	srv, ok := c.servers.Get(h)
	conn, okc := c.conns[h]
	if !ok || !okc {
		return
	}

	msg, err := ircmsg.Parse(line)
	if err != nil {
		srv.Channel.Buffer.Newline(buffer.ServerError, "", fmt.Sprintf("-!!- malformed line: %v", err), 0)
		c.opts.Log.WithField("server", srv.Host).WithError(err).Warn("parse error")
		c.redraw()
		return
	}

	if err := dispatch.Dispatch(c.recv, srv, msg, conn); err != nil {
		c.opts.Log.WithFields(logrus.Fields{"server": srv.Host, "command": string(msg.Command)}).
			WithError(err).Debug("handler error")
	}
	c.redraw()
}
