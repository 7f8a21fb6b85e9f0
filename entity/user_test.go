package entity

import (
	"testing"

	"github.com/rirc-go/rirc/casefold"
	"github.com/rirc-go/rirc/ircmode"
)

func TestUserListAddDuplicate(t *testing.T) {
	ul := NewUserList(casefold.RFC1459)

	if err := ul.Add("alice", ircmode.Mode{}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ul.Add("alice", ircmode.Mode{}); err != ErrDuplicateUser {
		t.Fatalf("Add duplicate: %v, want ErrDuplicateUser", err)
	}
}

func TestUserListDelNotFound(t *testing.T) {
	ul := NewUserList(casefold.RFC1459)
	if err := ul.Del("alice"); err != ErrUserNotFound {
		t.Fatalf("Del: %v, want ErrUserNotFound", err)
	}
}

func TestUserListRplPreservesModes(t *testing.T) {
	ul := NewUserList(casefold.RFC1459)

	var m ircmode.Mode
	m.IsSet('o') // touch the type; modes are set via ircmode.Config in real use
	ul.Add("alice", m)

	if err := ul.Rpl("alice", "alicia"); err != nil {
		t.Fatalf("Rpl: %v", err)
	}
	if _, ok := ul.Get("alice"); ok {
		t.Fatal("old nick should be gone after Rpl")
	}
	u, ok := ul.Get("alicia")
	if !ok {
		t.Fatal("new nick should resolve after Rpl")
	}
	if u.PrfxModes != m {
		t.Fatalf("PrfxModes = %+v, want preserved %+v", u.PrfxModes, m)
	}
}

func TestUserListRplNotFoundOrDuplicate(t *testing.T) {
	ul := NewUserList(casefold.RFC1459)
	ul.Add("bob", ircmode.Mode{})

	if err := ul.Rpl("missing", "x"); err != ErrUserNotFound {
		t.Fatalf("Rpl: %v, want ErrUserNotFound", err)
	}

	ul.Add("alice", ircmode.Mode{})
	if err := ul.Rpl("alice", "bob"); err != ErrDuplicateUser {
		t.Fatalf("Rpl onto existing nick: %v, want ErrDuplicateUser", err)
	}
}
