//go:build linux

package ioengine

import (
	"net"

	"github.com/higebu/netfd"
)

// fdOf resolves the raw file descriptor behind conn (unwrapping a TLS
// client connection first, since netfd.GetFdFromConn only recognizes
// *net.TCPConn), or -1 if it cannot be determined.
func fdOf(conn net.Conn) int {
	type netConner interface {
		NetConn() net.Conn
	}
	if u, ok := conn.(netConner); ok {
		conn = u.NetConn()
	}
	fd := netfd.GetFdFromConn(conn)
	if fd == 0 {
		return -1
	}
	return fd
}
