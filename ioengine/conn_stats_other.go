//go:build !linux

package ioengine

import "net"

// fdOf always returns -1 outside Linux: netfd.GetFdFromConn's
// syscall.RawConn-based fd extraction is not wired for other platforms,
// mirroring Daedaluz-goserial's per-GOOS ioctl split (no-op fallback file
// instead of the real implementation).
func fdOf(net.Conn) int { return -1 }
