package irc

import (
	"fmt"
	"regexp"
	"strings"
)

// Router dispatches incoming messages to route handlers based on message
// attributes such as the command (verb), source, and message contents.
//
// Routes are tested in the order they were added and only the first
// matching route's handler is called, so avoid adding multiple routes
// that can trigger on the same input. The Router is a convenience layer
// above Connection's notifier and filter surface; attach one with
// Connection.UseRouter.
type Router struct {
	// routes to be matched, in order.
	routes []*route

	// middleware run for every message, whether or not a route matched.
	middlewares []middleware
}

// Handle appends h to the list of handlers for cmd.
func (r *Router) Handle(cmd Command, h Handler) *route {
	rt := &route{
		h:        h,
		matchers: []matcher{&commandMatch{cmd}},
	}
	r.routes = append(r.routes, rt)
	return rt
}

// HandleFunc appends f to the list of handlers for cmd.
func (r *Router) HandleFunc(cmd Command, f HandlerFunc) *route {
	return r.Handle(cmd, f)
}

// SpeakIRC implements Handler.
func (r *Router) SpeakIRC(mw MessageWriter, m *Message) {
	for _, rt := range r.routes {
		if rt.matches(m) {
			wrap(rt.h, r.middlewares...).SpeakIRC(mw, m)
			return
		}
	}
	// Global middleware must run even without a matching route, so wrap
	// the no-op handler in that case.
	wrap(noop, r.middlewares...).SpeakIRC(mw, m)
}

// Use appends global middleware to the router. Middleware are functions
// which accept a handler and return a handler, and run against every
// incoming line in the order they were attached.
//
// Middleware can mutate the message before the next handler sees it,
// decorate the MessageWriter, write messages of their own, or stop
// processing by not calling the next handler.
func (r *Router) Use(middlewares ...middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Use wraps the route's handler with middlewares, which execute in the
// order listed and only when the route matched. Route-specific
// middleware suit shared per-route functionality: rate limiting,
// authorization checks, stripping formatting control characters, and
// the like.
//
// Use panics if the route handler is nil.
func (r *route) Use(middlewares ...middleware) *route {
	if r.h == nil {
		panic("nil handler: the route handler must be defined before wrapping the handler with middleware")
	}
	r.h = wrap(r.h, middlewares...)
	return r
}

// OnConnect attaches a handler called upon successful registration with
// an IRC server, triggered by numeric 001 (RPL_WELCOME).
func (r *Router) OnConnect(h HandlerFunc) *route {
	return r.Handle(RplWelcome, h)
}

// OnText attaches a handler for PRIVMSG events whose text matches the
// wildcard expression wildtext, per the MaskToRegex rules.
func (r *Router) OnText(wildtext string, h HandlerFunc) *route {
	return r.HandleFunc(CmdPrivmsg, h).wildtext(wildtext)
}

// OnTextRE attaches the handler h for PRIVMSG events whose text matches
// the Go regular expression expr.
func (r *Router) OnTextRE(expr string, h HandlerFunc) *route {
	return r.HandleFunc(CmdPrivmsg, h).textRE(expr)
}

// OnNotice is triggered when a NOTICE is received from another client,
// following the same wildcard format as OnText. For server notices, use
// MatchServer.
func (r *Router) OnNotice(wildtext string, h HandlerFunc) *route {
	return r.HandleFunc(CmdNotice, h).
		wildtext(wildtext).
		MatchFunc(func(m *Message) bool {
			return !m.Source.IsServer()
		})
}

// OnAction attaches a handler for PRIVMSG that matches CTCP ACTION, and
// follows the same wildcard format as OnText.
func (r *Router) OnAction(wildtext string, h HandlerFunc) *route {
	return r.HandleFunc(CTCPAction, h).wildtext(wildtext)
}

// OnJoin attaches a handler for JOIN events.
func (r *Router) OnJoin(h HandlerFunc) *route {
	return r.Handle(CmdJoin, h)
}

// OnPart is triggered when a client departs a channel we are on.
func (r *Router) OnPart(h HandlerFunc) *route {
	return r.Handle(CmdPart, h)
}

// OnQuit is triggered when a client which shares a channel with us
// disconnects from the server.
func (r *Router) OnQuit(h HandlerFunc) *route {
	return r.Handle(CmdQuit, h)
}

// OnError is triggered when the server sends an ERROR message, usually
// just before disconnecting us.
func (r *Router) OnError(h HandlerFunc) *route {
	return r.Handle(CmdError, h)
}

// OnNick attaches a handler called when a user's nickname changes.
func (r *Router) OnNick(h func(nick Nickname, newnick Nickname)) *route {
	adapter := func(mw MessageWriter, m *Message) {
		h(m.Source.Nick, Nickname(m.Params.Get(1)))
	}
	return r.HandleFunc(CmdNick, adapter)
}

// OnCTCP attaches a route handler matching a CTCP query of type
// subcommand.
func (r *Router) OnCTCP(subcommand string, h HandlerFunc) *route {
	return r.Handle(NewCTCPCmd(subcommand), h)
}

// OnCTCPReply attaches a route handler matching a CTCP reply of type
// subcommand.
func (r *Router) OnCTCPReply(subcommand string, h HandlerFunc) *route {
	return r.Handle(NewCTCPReplyCmd(subcommand), h)
}

// NewCTCPCmd returns the Command used internally to represent a
// CTCP-encoded PRIVMSG, for mapping CTCP queries to handlers.
//
// The returned Command is not a valid wire command. To send a
// CTCP-formatted message, see func CTCP.
func NewCTCPCmd(subcommand string) Command {
	return Command(fmt.Sprintf("_CTCP_QUERY_%s", strings.ToUpper(subcommand)))
}

// NewCTCPReplyCmd returns the Command used internally to represent a
// CTCP-encoded NOTICE, for mapping CTCP replies to handlers.
//
// The returned Command is not a valid wire command. To send a
// CTCP-formatted reply, see func CTCPReply.
func NewCTCPReplyCmd(subcommand string) Command {
	return Command(fmt.Sprintf("_CTCP_REPLY_%s", strings.ToUpper(subcommand)))
}

type route struct {
	h        Handler
	matchers []matcher
}

func (r *route) matches(m *Message) bool {
	for _, rm := range r.matchers {
		if !rm.matches(m) {
			return false
		}
	}
	return true
}

// A matcher is attached to a route and determines whether a given
// Message satisfies some condition.
type matcher interface {
	matches(*Message) bool
}

// wildtext appends a matcher built from an IRC wildcard expression.
func (r *route) wildtext(s string) *route {
	return r.textRE(MaskToRegex(s))
}

// textRE appends the regular expression expr to the route's matchers.
func (r *route) textRE(expr string) *route {
	r.matchers = append(r.matchers, &regexMatch{regexp.MustCompile(expr)})
	return r
}

type nickTracker interface {
	Nick() Nickname
}

// MatchQuery limits the route to direct messages: messages whose target
// is client's current nickname rather than a channel. Connection
// satisfies nickTracker.
func (r *route) MatchQuery(client nickTracker) *route {
	return r.MatchFunc(func(m *Message) bool {
		targ, err := m.Target()
		if err != nil {
			return false
		}
		return client.Nick().Is(targ)
	})
}

func (r *route) channel(ch string) *route {
	r.matchers = append(r.matchers, &channelMatch{ch})
	return r
}

func (r *route) MatchFunc(f matcherFunc) *route {
	return r.Matcher(f)
}

// MatchServer limits the route to messages originating from a server
// rather than another client.
func (r *route) MatchServer() *route {
	return r.MatchFunc(func(m *Message) bool {
		return m.Source.IsServer()
	})
}

func (r *route) Matcher(m matcher) *route {
	r.matchers = append(r.matchers, m)
	return r
}

// MatchChan limits the route to messages applying to channel ch.
func (r *route) MatchChan(ch string) *route {
	return r.channel(ch)
}

// MatchClient matches messages concerning the client itself: the kick
// target for KICK, otherwise the message source, compared against the
// client's current nickname.
func (r *route) MatchClient(client nickTracker) *route {
	return r.MatchFunc(func(m *Message) bool {
		switch m.Command {
		case CmdKick:
			return client.Nick().Is(m.Params.Get(2))
		default:
			return m.Source.Nick.Is(client.Nick().String())
		}
	})
}

type commandMatch struct {
	cmd Command
}

type matcherFunc func(m *Message) bool

func (f matcherFunc) matches(m *Message) bool {
	return f(m)
}

func (cm commandMatch) matches(m *Message) bool {
	return m.Command.is(cm.cmd)
}

type regexMatch struct {
	re *regexp.Regexp
}

func (rm regexMatch) matches(m *Message) bool {
	text, err := m.Text()
	if err != nil {
		return false
	}
	return rm.re.MatchString(text)
}

type channelMatch struct {
	channel string
}

func (cm channelMatch) matches(m *Message) bool {
	ch, err := m.Chan()
	if err != nil {
		return false
	}
	return strings.EqualFold(cm.channel, ch)
}
