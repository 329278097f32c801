package irc

import (
	"regexp"
	"time"
)

// LibraryName and LibraryVersion are reported in reply to a CTCP VERSION
// query; callers may override them before connecting.
var (
	LibraryName    = "ircsession"
	LibraryVersion = "1.0"
)

var ctcpBody = regexp.MustCompile("^\\x01([^ \\x01]+) ?(.*?)\\x01?$")

// parseCTCP splits a PRIVMSG/NOTICE body framed in \x01...\x01 into its
// subcommand and argument, reporting ok=false if body is not CTCP-framed.
func parseCTCP(body string) (subcommand, arg string, ok bool) {
	if len(body) == 0 || body[0] != 0x01 {
		return "", "", false
	}
	parts := ctcpBody.FindStringSubmatch(body)
	if parts == nil {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// CreateCTCPReply is a user-settable hook: given the CTCP subcommand and
// argument of an incoming query, it returns the reply text to send back
// (without \x01 framing and without the leading subcommand, which the
// Connection prepends) and whether a reply should be sent at all.
// When absent, the Connection falls back to defaultCTCPReply.
type CreateCTCPReply func(subcommand, arg string) (reply string, respond bool)

// defaultCTCPReply implements the stock CTCP reply policy: PING echoes
// its payload, TIME reports the local short time, VERSION reports the
// library name and version, SOURCE reports the source location
// (settable via CTCPSourceURL), CLIENTINFO lists the advertised
// subcommands, and ERRMSG echoes the query back prefixed with "No
// error". Unknown subcommands yield no reply.
func defaultCTCPReply(subcommand, arg string) (string, bool) {
	switch subcommand {
	case "PING":
		return arg, true
	case "TIME":
		return time.Now().Format("15:04:05 MST"), true
	case "VERSION":
		return LibraryName + " " + LibraryVersion, true
	case "SOURCE":
		return CTCPSourceURL, true
	case "CLIENTINFO":
		return "PING SOURCE TIME VERSION", true
	case "ERRMSG":
		return "No error: " + arg, true
	default:
		return "", false
	}
}

// CTCPSourceURL is reported in reply to a CTCP SOURCE query.
var CTCPSourceURL = "https://pkg.go.dev/"
