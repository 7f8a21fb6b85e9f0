package entity

import (
	"time"

	"github.com/rirc-go/rirc/casefold"
	"github.com/rirc-go/rirc/ircmode"
	"github.com/rirc-go/rirc/ircv3cap"
)

// ServerHandle references a Srv held in a coordinator's Store[*Srv],
// generation-checked so a handle surviving past its server's removal
// resolves to nothing rather than a reused, unrelated slot.
type ServerHandle = Handle[*Srv]

// Srv is a single IRC network connection's identity and accumulated
// session state: nick negotiation, mode configuration, channel/ignore
// lists, capability negotiation, and reconnect timing. Named Srv rather
// than Server to leave Server free as the Type constant for a server's own
// message window, mirroring src/components/server.h's struct server.
type Srv struct {
	Host string
	Port string
	Pass string

	// Nicks is the candidate nick sequence tried in order on registration
	// or collision (ERR_NICKNAMEINUSE); NickCursor indexes the one
	// currently in use.
	Nicks      []string
	NickCursor int
	User       string
	Realname   string

	caseMapping casefold.CaseMapping
	ModeConfig  ircmode.Config
	UserModes   ircmode.Mode
	Ignore      *UserList

	Channels *ChannelList
	Channel  *Chan // the server's own CHANNEL_T_SERVER window

	// DisplayHost holds the cloaked/vhost host a server reports in numeric
	// 396 (RPL_HOSTHIDDEN). No receive handler for 396 is registered, so
	// nothing in this module sets it, and nothing reads it.
	DisplayHost string

	// JoinThreshold, PartThreshold, and QuitThreshold suppress noisy
	// per-user JOIN/PART/QUIT lines once a channel's membership exceeds
	// the given count; zero disables suppression for that event.
	JoinThreshold int
	PartThreshold int
	QuitThreshold int

	Caps *ircv3cap.Capabilities

	// LatencyStart is cleared to zero when a PONG arrives; no code in this
	// module sets it when a PING is sent, so it stays zero.
	LatencyStart time.Time
	Pinging      bool

	// ReconnectBackoff is a reconnect delay that no package in this module
	// updates; the schedule ioengine uses is ioengine.Conn.Backoff.
	ReconnectBackoff time.Duration

	Registered bool
	Quitting   bool
}

// NewServer returns a Srv for host/port with default mode configuration,
// an empty capability set, and a fresh server-window Chan.
func NewServer(host, port string, nicks []string, user, realname string) *Srv {
	s := &Srv{
		Host:       host,
		Port:       port,
		Nicks:      nicks,
		User:       user,
		Realname:   realname,
		ModeConfig: ircmode.NewConfig(),
		Caps:       ircv3cap.New(),
	}
	s.Ignore = NewUserList(s.caseMapping)
	s.Channels = NewChannelList(s.caseMapping)
	s.Channel = NewChan(host, Server, s)
	return s
}

// CaseMapping returns the casemapping currently in effect for this server,
// RFC1459 until a numeric 005 CASEMAPPING token says otherwise.
func (s *Srv) CaseMapping() casefold.CaseMapping {
	return s.caseMapping
}

// SetCaseMapping updates the casemapping this server reports, typically
// from a numeric 005 CASEMAPPING token. User lists created afterwards (a
// new channel's, or one reset by Chan.Part) compare under cm; the existing
// Channels and Ignore lists, and the user lists of channels that already
// exist, keep the mapping they were created with.
func (s *Srv) SetCaseMapping(cm casefold.CaseMapping) {
	s.caseMapping = cm
}

// Nick returns the nickname currently in use.
func (s *Srv) Nick() string {
	if s.NickCursor >= len(s.Nicks) {
		return ""
	}
	return s.Nicks[s.NickCursor]
}

// NextNick advances past a collision (ERR_NICKNAMEINUSE) to the next
// candidate nick, reporting whether one remained.
func (s *Srv) NextNick() (string, bool) {
	if s.NickCursor+1 >= len(s.Nicks) {
		return "", false
	}
	s.NickCursor++
	return s.Nick(), true
}

// Set004 applies a numeric 004 (RPL_MYINFO) line's user_modes and
// chan_modes fields, mirroring server_set_004.
func (s *Srv) Set004(userModes, chanModes string) error {
	if err := s.ModeConfig.SetUserModes(userModes); err != nil {
		return err
	}
	return s.ModeConfig.SetChanModes(chanModes)
}
