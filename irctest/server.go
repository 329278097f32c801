// Package irctest provides an in-memory IRC server fixture for testing
// clients without a network.
package irctest

import (
	"bufio"
	"encoding"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	irc "github.com/carverholt/ircsession"
)

// NewServer creates a new mock irc server that implements io.ReadWriteCloser.
// Don't forget to close.
func NewServer() *Server {
	s := &Server{}
	s.sendReader, s.sendWriter = io.Pipe()
	s.recvReader, s.recvWriter = io.Pipe()

	// buffered so a client can write a burst of lines while a Handler is
	// still writing its own lines back to that client
	s.recv = make(chan []byte, 64)

	// both goroutines exit when Close is called
	go s.read()
	go s.write()
	return s
}

// Server is an in-memory endpoint a Connection can dial via its DialFn.
// Lines the client writes are parsed and offered to Handler; WriteString
// and Script send lines to the client.
type Server struct {
	Handler irc.Handler

	rs   sync.Once
	recv chan []byte

	recvReader *io.PipeReader
	recvWriter *io.PipeWriter

	sendReader *io.PipeReader
	sendWriter *io.PipeWriter
}

// Read is how the client reads lines from the server.
func (s *Server) Read(p []byte) (int, error) {
	return s.sendReader.Read(p)
}

// Write is how a client sends messages to the server.
func (s *Server) Write(p []byte) (int, error) {
	s.recv <- p
	return len(p), nil
}

func (s *Server) Close() error {
	_ = s.recvWriter.Close()
	_ = s.sendWriter.Close()
	s.rs.Do(func() {
		close(s.recv)
	})
	return nil
}

// WriteString sends one line from the server to the client, appending
// the line terminator if absent.
func (s *Server) WriteString(str string) {
	if !strings.HasSuffix(str, "\r\n") {
		str = str + "\r\n"
	}
	if _, err := s.sendWriter.Write([]byte(str)); err != nil {
		log.Println("mock server write error:", err)
	}
}

// Script sends a sequence of lines from the server to the client in
// order, e.g. a full MOTD or NAMES burst.
func (s *Server) Script(lines ...string) {
	for _, l := range lines {
		s.WriteString(l)
	}
}

// Welcome plays the registration tail for nick: 001 through 004
// followed by the given RPL_ISUPPORT (005) tokens, if any.
func (s *Server) Welcome(nick string, isupport ...string) {
	s.WriteString(fmt.Sprintf(":irc.example.com 001 %s :Welcome to the Example IRC Network %s", nick, nick))
	s.WriteString(fmt.Sprintf(":irc.example.com 002 %s :Your host is irc.example.com", nick))
	s.WriteString(fmt.Sprintf(":irc.example.com 003 %s :This server was created recently", nick))
	s.WriteString(fmt.Sprintf(":irc.example.com 004 %s irc.example.com example-1.0 iosw biklmnopstv", nick))
	if len(isupport) > 0 {
		s.WriteString(fmt.Sprintf(":irc.example.com 005 %s %s :are supported by this server", nick, strings.Join(isupport, " ")))
	}
}

// WriteMessage sends a marshaled message from the server to the client.
func (s *Server) WriteMessage(m encoding.TextMarshaler) {
	b, err := m.MarshalText()
	if err != nil {
		log.Println("marshaler:", err)
		return
	}
	if _, err := s.sendWriter.Write(b); err != nil {
		log.Println("mock server write error:", err)
	}
}

func (s *Server) read() {
	scanner := bufio.NewScanner(s.recvReader)

	for scanner.Scan() {
		line := scanner.Bytes()
		m := new(irc.Message)
		m.IncludePrefix()
		if err := m.UnmarshalText(line); err != nil {
			log.Println("unmarshaling error:", err)
			continue
		}
		if s.Handler != nil {
			s.Handler.SpeakIRC(s, m)
		}
	}
}

func (s *Server) write() {
	for b := range s.recv {
		if _, err := s.recvWriter.Write(b); err != nil {
			log.Println("server mock write error:", err)
		}
	}
}
