package ctcp

import (
	"sort"
	"strings"
	"time"
)

// A Handler responds to an incoming CTCP request and returns the reply body
// to send back (via NOTICE), or ok == false to send no reply at all (as
// with ACTION, which is rendered rather than acknowledged).
type Handler interface {
	HandleCTCP(from string, args string) (reply string, ok bool)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(from, args string) (string, bool)

// HandleCTCP calls f(from, args).
func (f HandlerFunc) HandleCTCP(from, args string) (string, bool) { return f(from, args) }

// Registry maps CTCP command names to the Handler that answers them.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Handle registers h to answer CTCP requests named command. command is
// matched case-insensitively.
func (r *Registry) Handle(command string, h Handler) {
	r.handlers[strings.ToUpper(command)] = h
}

// HandleFunc registers f to answer CTCP requests named command.
func (r *Registry) HandleFunc(command string, f func(from, args string) (string, bool)) {
	r.Handle(command, HandlerFunc(f))
}

// Commands returns the names of all registered commands, sorted, for use
// answering CLIENTINFO.
func (r *Registry) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch looks up the handler registered for m.Command and invokes it.
// known reports whether any handler was registered for the command at all;
// a caller should emit an ERRMSG reply when known is false.
func (r *Registry) Dispatch(from string, m Message) (reply string, ok bool, known bool) {
	h, found := r.handlers[m.Command]
	if !found {
		return "", false, false
	}
	reply, ok = h.HandleCTCP(from, m.Args)
	return reply, ok, true
}

// Identity supplies the information the default informational handlers
// answer with.
type Identity struct {
	Version   string // e.g. "rirc v2.4 (2026-01-05)"
	SourceURL string
	RealName  string
	Nick      func() string    // current nickname, for USERINFO
	Clock     func() time.Time // defaults to time.Now if nil
}

// NewDefaultRegistry returns a Registry with handlers installed for every
// informational CTCP command (CLIENTINFO, FINGER, PING, SOURCE, TIME,
// USERINFO, VERSION). ACTION and ERRMSG are deliberately left unregistered:
// ACTION never produces a reply and is handled by the caller as a buffer
// write, and ERRMSG is only ever sent, never answered.
func NewDefaultRegistry(id Identity) *Registry {
	r := NewRegistry()

	clock := id.Clock
	if clock == nil {
		clock = time.Now
	}

	r.HandleFunc(ClientInfo, func(string, string) (string, bool) {
		return strings.Join(append(r.Commands(), Action), " "), true
	})
	r.HandleFunc(Finger, func(string, string) (string, bool) {
		return id.RealName, true
	})
	r.HandleFunc(Ping, func(_, args string) (string, bool) {
		return args, true
	})
	r.HandleFunc(Source, func(string, string) (string, bool) {
		return id.SourceURL, true
	})
	r.HandleFunc(Time, func(string, string) (string, bool) {
		return clock().Format("2006-01-02T15:04:05Z0700"), true
	})
	r.HandleFunc(UserInfo, func(string, string) (string, bool) {
		nick := ""
		if id.Nick != nil {
			nick = id.Nick()
		}
		return nick + " (" + id.RealName + ")", true
	})
	r.HandleFunc(Version, func(string, string) (string, bool) {
		return id.Version, true
	})

	return r
}
