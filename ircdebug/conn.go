// Package ircdebug wraps a live connection to tee its traffic to a
// writer, prefixing each direction, for tracing the wire protocol while
// developing or debugging a client.
package ircdebug

import (
	"io"
	"net"
)

// WriteTo returns a net.Conn that behaves exactly like conn but copies
// everything read from and written to it to w, each direction tagged
// with its own prefix (e.g. "-> " for outgoing, "<- " for incoming).
// Deadlines, addresses, and Close all pass through to conn unchanged;
// only Read and Write are intercepted.
func WriteTo(w io.Writer, conn net.Conn, outPrefix, inPrefix string) net.Conn {
	return &debugConn{
		Conn: conn,
		r:    io.TeeReader(conn, &writePrefixer{w: w, prefix: inPrefix}),
		w:    io.MultiWriter(conn, &writePrefixer{w: w, prefix: outPrefix}),
	}
}

type debugConn struct {
	net.Conn
	r io.Reader
	w io.Writer
}

func (dc *debugConn) Read(p []byte) (int, error)  { return dc.r.Read(p) }
func (dc *debugConn) Write(p []byte) (int, error) { return dc.w.Write(p) }

// NetConn unwraps back to the traced connection, so code that type-asserts
// through a wrapper looking for the underlying socket (e.g. a raw-fd
// lookup unwrapping a *tls.Conn) can see past this one too.
func (dc *debugConn) NetConn() net.Conn { return dc.Conn }

type writePrefixer struct {
	w      io.Writer
	prefix string
}

// Write is only ever used inside a MultiWriter/TeeReader, which requires
// every writer to report back the exact count it was given; the prefix
// bytes written ahead of p would otherwise make that look like a short
// write, so the reported count is adjusted back down by len(prefix).
func (wp *writePrefixer) Write(p []byte) (n int, err error) {
	n, err = wp.w.Write(append([]byte(wp.prefix), p...))
	return n - len(wp.prefix), err
}
