package entity

import (
	"errors"

	"github.com/rirc-go/rirc/casefold"
	"github.com/rirc-go/rirc/ircmode"
)

// User is a single nickname tracked within a Channel's user list, along
// with its per-channel prefix modes (op, voice, ...).
type User struct {
	Nick      string
	PrfxModes ircmode.Mode
}

// ErrDuplicateUser and ErrUserNotFound mirror user.c's USER_ERR_DUPLICATE
// and USER_ERR_NOT_FOUND.
var (
	ErrDuplicateUser = errors.New("entity: user already in list")
	ErrUserNotFound  = errors.New("entity: user not found")
)

// UserList is the set of Users within a channel, ordered and looked up
// under the owning server's casefold.CaseMapping. It replaces the AVL tree
// behind user_list_add/del/rpl/get in src/components/user.c.
type UserList struct {
	m *OrderedMap[*User]
}

// NewUserList returns an empty UserList comparing nicknames under cmp.
func NewUserList(cmp casefold.CaseMapping) *UserList {
	return &UserList{m: NewOrderedMap[*User](cmp)}
}

// Add inserts a user with the given nick and prefix modes, returning
// ErrDuplicateUser if the nick is already present.
func (ul *UserList) Add(nick string, prfxModes ircmode.Mode) error {
	if !ul.m.Add(nick, &User{Nick: nick, PrfxModes: prfxModes}) {
		return ErrDuplicateUser
	}
	return nil
}

// Del removes the user with the given nick, returning ErrUserNotFound if
// absent.
func (ul *UserList) Del(nick string) error {
	if !ul.m.Delete(nick) {
		return ErrUserNotFound
	}
	return nil
}

// Rpl renames a user in place, preserving their modes. It returns
// ErrUserNotFound if oldNick is absent, or ErrDuplicateUser if newNick is
// already taken.
func (ul *UserList) Rpl(oldNick, newNick string) error {
	u, ok := ul.m.Get(oldNick)
	if !ok {
		return ErrUserNotFound
	}
	if _, taken := ul.m.Get(newNick); taken {
		return ErrDuplicateUser
	}
	ul.m.Delete(oldNick)
	ul.m.Set(newNick, &User{Nick: newNick, PrfxModes: u.PrfxModes})
	return nil
}

// Get returns the user with the given nick, reporting whether found.
func (ul *UserList) Get(nick string) (*User, bool) {
	return ul.m.Get(nick)
}

// Len returns the number of users in the list.
func (ul *UserList) Len() int {
	return ul.m.Len()
}

// Range calls fn for every user in ascending nick order. It stops early if
// fn returns false.
func (ul *UserList) Range(fn func(*User) bool) {
	ul.m.Range(func(_ string, u *User) bool {
		return fn(u)
	})
}
