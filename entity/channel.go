package entity

import (
	"errors"

	"github.com/rirc-go/rirc/buffer"
	"github.com/rirc-go/rirc/casefold"
	"github.com/rirc-go/rirc/input"
	"github.com/rirc-go/rirc/ircmode"
)

// Activity classifies how recently and how urgently a Channel needs the
// user's attention, in order of increasing precedence, mirroring
// src/components/channel.h's enum activity_t.
type Activity int

const (
	ActivityDefault Activity = iota // nothing new
	ActivityJPQ                     // join/part/quit activity only
	ActivityActive                  // chat activity
	ActivityPinged                  // the user's nick was mentioned
)

// Type distinguishes the four kinds of window a Channel represents,
// mirroring src/components/channel.h's enum channel_t.
type Type int

const (
	Root    Type = iota // the default rirc buffer, not tied to any server
	Channel             // a joined channel's message buffer
	Server              // a server's own message buffer
	Privmsg             // a private (one-to-one) message buffer
)

// Chan is a single scrollback window: a joined channel, a server's own
// buffer, a private-message buffer, or the root rirc buffer. Named Chan,
// since Channel already names the Type constant for the joined-channel
// variant.
type Chan struct {
	Name     string
	Type     Type
	Activity Activity

	Buffer *buffer.Buffer
	Input  *input.Input

	ChanModes    ircmode.Mode
	ChanModesStr string // cached rendering, refreshed on mode change
	Topic        string

	Server *Srv
	Users  *UserList

	Parted bool
	Joined bool
}

// NewChan returns a Chan of the given type and name, with a fresh Buffer
// and Input ready for use.
func NewChan(name string, typ Type, srv *Srv) *Chan {
	return &Chan{
		Name:   name,
		Type:   typ,
		Server: srv,
		Buffer: buffer.New(),
		Input:  input.New(),
		Users:  NewUserList(srv.CaseMapping()),
	}
}

// Part marks the channel as parted: the user list is cleared (the server
// no longer reports membership) but the buffer and scrollback position are
// left intact so history survives a rejoin, mirroring channel_part.
func (c *Chan) Part() {
	c.Parted = true
	c.Joined = false
	c.Users = NewUserList(c.Server.CaseMapping())
}

// ErrDuplicateChannel and ErrChannelNotFound mirror the duplicate/not-found
// checks channel_list_add/del implicitly rely on their caller to make.
var (
	ErrDuplicateChannel = errors.New("entity: channel already in list")
	ErrChannelNotFound  = errors.New("entity: channel not found")
)

// ChannelList is the set of Chan windows attached to a server, ordered and
// looked up by name under the server's casefold.CaseMapping. It replaces
// the splay tree behind channel_list_add/del/get in
// src/components/channel.c.
type ChannelList struct {
	m *OrderedMap[*Chan]
}

// NewChannelList returns an empty ChannelList comparing names under cmp.
func NewChannelList(cmp casefold.CaseMapping) *ChannelList {
	return &ChannelList{m: NewOrderedMap[*Chan](cmp)}
}

// Add inserts c under its Name, returning ErrDuplicateChannel if a channel
// of that name is already present.
func (cl *ChannelList) Add(c *Chan) error {
	if !cl.m.Add(c.Name, c) {
		return ErrDuplicateChannel
	}
	return nil
}

// Del removes the channel with the given name, returning
// ErrChannelNotFound if absent.
func (cl *ChannelList) Del(name string) error {
	if !cl.m.Delete(name) {
		return ErrChannelNotFound
	}
	return nil
}

// Get returns the channel with the given name, reporting whether found.
func (cl *ChannelList) Get(name string) (*Chan, bool) {
	return cl.m.Get(name)
}

// Len returns the number of channels in the list.
func (cl *ChannelList) Len() int {
	return cl.m.Len()
}

// Range calls fn for every channel in ascending name order. It stops early
// if fn returns false.
func (cl *ChannelList) Range(fn func(*Chan) bool) {
	cl.m.Range(func(_ string, c *Chan) bool {
		return fn(c)
	})
}
