// Package ircdebug helps while developing an IRC client by mirroring
// connection traffic to a writer such as os.Stdout or a log file.
package ircdebug

import (
	"io"
)

// WriteTo returns an io.ReadWriteCloser wrapping rwc that copies every
// read and write to w, prefixed with inPrefix and outPrefix
// respectively. It is not safe for concurrent readers and writers, so
// interleaved traffic may mix lines in the mirror output.
func WriteTo(w io.Writer, rwc io.ReadWriteCloser, outPrefix string, inPrefix string) io.ReadWriteCloser {
	return &teeConn{
		ReadWriteCloser: rwc,
		r:               io.TeeReader(rwc, &linePrefixer{w: w, prefix: inPrefix}),
		w:               io.MultiWriter(rwc, &linePrefixer{w: w, prefix: outPrefix}),
	}
}

type teeConn struct {
	io.ReadWriteCloser
	r io.Reader
	w io.Writer
}

func (tc *teeConn) Read(p []byte) (int, error) {
	return tc.r.Read(p)
}

func (tc *teeConn) Write(p []byte) (int, error) {
	return tc.w.Write(p)
}

type linePrefixer struct {
	w      io.Writer
	prefix string
}

func (lp *linePrefixer) Write(p []byte) (n int, err error) {
	n, err = lp.w.Write(append([]byte(lp.prefix), p...))

	// Report the caller's byte count, not ours: MultiWriter errors out
	// when one of its writers reports a short or long write.
	return n - len(lp.prefix), err
}
