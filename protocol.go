package irc

import (
	"encoding/base64"
	"strings"

	"github.com/emersion/go-sasl"
)

// protoState is the handshake sub-state, tracked independently of
// ConnectionStatus. Capability negotiation, SASL, and registration
// interleave on the wire, so one state machine drives all three.
type protoState int

const (
	stateOpening protoState = iota
	stateCapNegotiate
	stateCapAck
	stateRegistration
	stateRuntime
)

// saslExchange tracks an in-progress AUTHENTICATE exchange.
type saslExchange struct {
	client sasl.Client
}

// beginHandshake sends CAP LS, PASS (if set), NICK and USER, and
// enters capability negotiation.
func (c *Connection) beginHandshake() {
	c.proto = stateCapNegotiate
	c.capContinuation = nil
	c.writeRaw(CapLS("302"))
	if c.Config.Password != "" {
		c.writeRaw(Pass(c.Config.Password))
	}
	c.writeRaw(Nick(c.nick))
	c.writeRaw(User(c.user, c.Config.RealName))
}

// requestCapabilities is installed as Network's capability-request sink;
// it lets callers request additional capabilities at any time, including
// after registration when the server advertises new ones via CAP NEW.
func (c *Connection) requestCapabilities(list []string) {
	if len(list) == 0 {
		return
	}
	for _, token := range list {
		c.networkInfo.setRequested(strings.TrimLeft(token, "-=~"), capModifierFor(token))
	}
	c.writeRaw(Cap("REQ", strings.Join(stripModifiers(list), " ")))
}

func capModifierFor(token string) capModifier {
	var mod capModifier
	for strings.HasPrefix(token, "-") || strings.HasPrefix(token, "=") || strings.HasPrefix(token, "~") {
		switch token[0] {
		case '=':
			mod |= capSticky
		case '~':
			mod |= capRequireAck
		}
		token = token[1:]
	}
	return mod
}

func stripModifiers(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.TrimLeft(t, "-=~")
	}
	return out
}

// runState lets the protocol engine observe and react to an inbound
// message before it reaches the composer and filter chain. It returns
// whether the message should continue down the normal dispatch pipeline;
// CAP and AUTHENTICATE traffic is handshake machinery and is consumed
// here rather than surfaced to observers.
func (s *protoState) runState(c *Connection, m *Message) bool {
	switch m.Command {
	case CmdPing:
		c.writeRaw(Pong(m.Params.Get(1)))
		return true

	case CmdCap:
		c.handleCap(m)
		return false

	case CmdAuthenticate:
		c.handleAuthenticate(m)
		return false

	case RplWelcome:
		c.registered = true
		*s = stateRuntime
		c.flushPending()
		c.setStatus(StatusConnected)
		for _, fn := range c.onConnect {
			fn()
		}
		return true

	case RplErrNicknameInUse, RplErrNickCollision:
		if !c.registered && c.NickReserved != nil {
			if alt := c.NickReserved(c.nick); alt != "" {
				c.nick = alt
				c.writeRaw(Nick(alt))
			}
		}
		return true

	case RplLoggedIn, RplSaslSuccess:
		if c.sasl != nil {
			c.sasl = nil
			c.writeRaw(CapEnd())
		}
		return true

	case RplSaslFail, RplSaslTooLong, RplSaslAborted:
		if c.sasl != nil {
			c.sasl = nil
			c.writeRaw(CapEnd())
		}
		return true
	}
	return true
}

// handleCap processes CAP LS/ACK/NAK/NEW/DEL, including LS continuation
// lines, the -/=/~ capability modifiers, and post-welcome churn.
func (c *Connection) handleCap(m *Message) {
	if len(m.Params) < 3 {
		return
	}
	sub := strings.ToUpper(m.Params.Get(2))
	more := m.Params.Get(3) == "*"
	var list string
	if more {
		if len(m.Params) >= 4 {
			list = m.Params.Get(len(m.Params))
		}
	} else {
		list = m.Params.Get(len(m.Params))
	}

	switch sub {
	case "LS":
		c.capContinuation = append(c.capContinuation, strings.Fields(list)...)
		if more {
			return
		}
		for _, tok := range c.capContinuation {
			name, value, _ := strings.Cut(tok, "=")
			c.networkInfo.setAvailable(name, value)
		}
		c.capContinuation = nil
		c.Network.notify(NetworkChangeAvailableCapabilities)
		c.negotiateCapabilities()

	case "NEW":
		for _, tok := range strings.Fields(list) {
			name, value, _ := strings.Cut(tok, "=")
			c.networkInfo.setAvailable(name, value)
		}
		c.Network.notify(NetworkChangeAvailableCapabilities)

	case "DEL":
		for _, name := range strings.Fields(list) {
			delete(c.networkInfo.available, strings.ToLower(name))
			c.networkInfo.setActive(name, false)
		}
		c.Network.notify(NetworkChangeAvailableCapabilities)
		c.Network.notify(NetworkChangeActiveCapabilities)

	case "ACK":
		// modifier bits were recorded when the request was sent; the
		// server's ACK echoes bare names, so don't re-derive them here
		for _, tok := range strings.Fields(list) {
			name := strings.TrimLeft(tok, "-=~")
			if strings.HasPrefix(tok, "-") {
				c.networkInfo.setActive(name, false)
				continue
			}
			c.networkInfo.setActive(name, true)
		}
		c.Network.notify(NetworkChangeActiveCapabilities)
		c.maybeStartSASL()

	case "NAK":
		c.proceedPastCapabilities()
	}
}

// negotiateCapabilities selects which offered capabilities to request
// once the final CAP LS line arrives. The default set is empty unless
// the configuration names capabilities to request. Entries may carry
// the -/=/~ modifier prefixes; the bare name is matched against the
// server's offer and written on the wire, while the modifier bits are
// recorded for the capability's lifetime.
func (c *Connection) negotiateCapabilities() {
	var toRequest []string
	for _, token := range c.capRequestedBatch {
		name := strings.TrimLeft(token, "-=~")
		if c.networkInfo.HasCapability(name) {
			c.networkInfo.setRequested(name, capModifierFor(token))
			toRequest = append(toRequest, name)
		}
	}
	if saslMech, ok := c.networkInfo.capabilityValue("sasl"); c.Config.SASLMechanism != "" && c.networkInfo.HasCapability("sasl") && (!ok || saslMech == "" || containsMech(saslMech, c.Config.SASLMechanism)) {
		c.networkInfo.setRequested("sasl", capNone)
		toRequest = append(toRequest, "sasl")
	}
	if len(toRequest) == 0 {
		c.proceedPastCapabilities()
		return
	}
	c.writeRaw(Cap("REQ", strings.Join(toRequest, " ")))
}

func containsMech(list, mech string) bool {
	for _, m := range strings.Split(list, ",") {
		if strings.EqualFold(m, mech) {
			return true
		}
	}
	return false
}

func (c *Connection) maybeStartSASL() {
	if c.Config.SASLMechanism == "" || !c.networkInfo.IsCapable("sasl") || c.sasl != nil {
		c.proceedPastCapabilities()
		return
	}
	c.sasl = &saslExchange{client: sasl.NewPlainClient(c.Config.UserName, c.Config.UserName, c.Config.Password)}
	c.writeRaw(Authenticate("PLAIN"))
}

// proceedPastCapabilities sends CAP END when no SASL exchange is
// outstanding, completing registration's handshake phase.
func (c *Connection) proceedPastCapabilities() {
	if c.sasl != nil {
		return
	}
	c.writeRaw(CapEnd())
}

// rewriteCTCP detects \x01-framed CTCP content in PRIVMSG/NOTICE bodies,
// rewrites the message's Command to the internal CTCP representation
// (so Router.OnCTCP/OnCTCPReply and filters can match it) and strips the
// framing from the visible content, then answers queries addressed to
// our own nick per the CTCP reply policy.
func (c *Connection) rewriteCTCP(m *Message) {
	if m.Command != CmdPrivmsg && m.Command != CmdNotice {
		return
	}
	body := m.Params.Get(2)
	subcommand, arg, ok := parseCTCP(body)
	if !ok {
		return
	}

	isQuery := m.Command == CmdPrivmsg
	if len(m.Params) > 1 {
		m.Params[1] = arg
	}
	// the message stays a Private/Notice variant; only the internal
	// command changes so CTCP-specific routes can match it
	if isQuery {
		m.Command = NewCTCPCmd(subcommand)
		m.kind = KindPrivate
	} else {
		m.Command = NewCTCPReplyCmd(subcommand)
		m.kind = KindNotice
	}

	if !isQuery || m.Params.Get(1) != c.nick {
		return
	}
	reply := c.CreateCTCPReply
	if reply == nil {
		reply = defaultCTCPReply
	}
	if text, respond := reply(subcommand, arg); respond {
		c.WriteMessage(CTCPReply(string(m.Source.Nick), subcommand, text))
	}
}

// handleAuthenticate drives the AUTHENTICATE PLAIN exchange: on the
// server's "+" continuation, respond with the base64-encoded
// "authzid\0authcid\0passwd" payload.
func (c *Connection) handleAuthenticate(m *Message) {
	if c.sasl == nil {
		return
	}
	arg := m.Params.Get(1)
	if arg != "+" {
		return
	}
	_, ir, err := c.sasl.client.Start()
	if err != nil {
		c.log(err)
		c.sasl = nil
		c.proceedPastCapabilities()
		return
	}
	c.writeRaw(Authenticate(base64.StdEncoding.EncodeToString(ir)))
}
