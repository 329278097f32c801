package irc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"
)

var fullAddress = regexp.MustCompile("^([^!@]+)!(.+?)@(.+)?$")

// Config holds a Connection's settings. It must not be modified while
// the connection is active.
type Config struct {
	Host string
	Port int // default 6667 when zero

	UserName string
	NickName string
	RealName string
	Password string

	Secure        bool
	SASLMechanism string // "" or "PLAIN"
	Encoding      string // fallback codec name; "" selects the package default

	ReconnectDelaySeconds int // 0 disables automatic reconnect
	Enabled               bool

	// KeepaliveIntervalSeconds, when positive, idle-probes the connection
	// with PING after that many seconds without a line from the server,
	// and treats a missing PONG within 10s as a dead connection. Zero
	// disables the probe.
	KeepaliveIntervalSeconds int

	// RequestCapabilities lists the capabilities to request once CAP LS
	// completes, intersected against what the server actually offers.
	// SASL is requested automatically when SASLMechanism is set and the
	// server offers it, independent of this list.
	RequestCapabilities []string

	// DialFn overrides how the transport is established. When nil, the
	// default dials Host:Port with tls.Dial if Secure, else net.Dial
	// ("tcp", addr).
	DialFn func() (io.ReadWriteCloser, error)
}

func (cfg Config) addr() string {
	if cfg.Port == 0 {
		return fmt.Sprintf("%s:6667", cfg.Host)
	}
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// valid reports whether the fields required to register are populated.
func (cfg Config) valid() bool {
	return cfg.Host != "" && cfg.UserName != "" && cfg.NickName != "" && cfg.RealName != ""
}

// ConnectionStatus enumerates the lifecycle states of a Connection.
type ConnectionStatus int

const (
	StatusInactive ConnectionStatus = iota
	StatusWaiting
	StatusConnecting
	StatusConnected
	StatusClosing
	StatusClosed
	StatusError
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusWaiting:
		return "waiting"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Active reports whether status is one of Connecting, Connected, Closing.
func (s ConnectionStatus) Active() bool {
	switch s {
	case StatusConnecting, StatusConnected, StatusClosing:
		return true
	default:
		return false
	}
}

// Connected reports whether status is Connected.
func (s ConnectionStatus) Connected() bool { return s == StatusConnected }

// Connection manages one IRC session: it owns the transport, the
// parser/composer pipeline, the network info, the filter chains, and
// the registration state machine, and presents a non-blocking
// Open/Close lifecycle.
//
// Open returns immediately; event notifications are delivered
// synchronously on the connection's own goroutine, so observers never
// race one another for a given session.
type Connection struct {
	Config Config

	ErrorLog *log.Logger

	// NickReserved is invoked with the currently attempted nick when the
	// server rejects it with 433/436 before Welcome. A non-empty return
	// value is sent as the next NICK attempt.
	NickReserved func(current string) string

	// CreateCTCPReply overrides the default CTCP reply policy. When nil,
	// defaultCTCPReply is used.
	CreateCTCPReply CreateCTCPReply

	networkInfo *NetworkInfo
	Network     *Network
	composer    *Composer
	dec         *decoder
	codec       lineCodec

	inbound  filterChain[InboundFilter]
	outbound filterChain[OutboundFilter]

	onMessage  []func(*Message)
	onKind     map[MessageKind][]func(*Message)
	onStatus   []func(ConnectionStatus)
	onConnect  []func()

	conn   io.ReadWriteCloser
	status ConnectionStatus
	nick   string
	user   string
	host   string

	registered bool
	pending    []*Message

	proto             protoState
	capContinuation   []string
	capRequestedBatch []string
	sasl              *saslExchange

	keepalive *keepalive

	quitSent bool

	wg     sync.WaitGroup
	errC   chan error
	cancel context.CancelFunc

	reconnectTimer *time.Timer

	mu sync.Mutex // guards status (setStatus writes, Status() reads from any goroutine)
}

// NewConnection constructs a Connection from cfg. The returned
// Connection is Inactive until Open is called.
func NewConnection(cfg Config) *Connection {
	c := &Connection{
		Config:      cfg,
		networkInfo: newNetworkInfo(),
		composer:    &Composer{},
		dec:         newDecoder(),
		onKind:      make(map[MessageKind][]func(*Message)),
	}
	c.Network = newNetwork(c.networkInfo)
	c.Network.setRequestFn(c.requestCapabilities)
	if cfg.Encoding != "" {
		if err := c.dec.SetFallback(cfg.Encoding); err != nil {
			c.log(err)
		}
	}
	return c
}

// Status returns the connection's current lifecycle status.
func (c *Connection) Status() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Nick returns the client's currently tracked nickname, satisfying the
// nickTracker interface the Router's MatchClient relies on.
func (c *Connection) Nick() Nickname { return Nickname(c.nick) }

// OnMessage registers fn to be called for every message that survives
// the inbound filter chain, before the variant-specific notifier.
func (c *Connection) OnMessage(fn func(*Message)) {
	c.onMessage = append(c.onMessage, fn)
}

// On registers fn to be called for messages of the given kind.
func (c *Connection) On(kind MessageKind, fn func(*Message)) {
	c.onKind[kind] = append(c.onKind[kind], fn)
}

// OnStatusChange registers fn to be called synchronously whenever the
// connection's status changes.
func (c *Connection) OnStatusChange(fn func(ConnectionStatus)) {
	c.onStatus = append(c.onStatus, fn)
}

// OnConnect registers fn to be called once registration completes (001
// RPL_WELCOME), after pending commands have been flushed.
func (c *Connection) OnConnect(fn func()) {
	c.onConnect = append(c.onConnect, fn)
}

// AddInboundFilter installs fn as the new head of the inbound filter
// chain (LIFO: it runs before previously-installed filters).
func (c *Connection) AddInboundFilter(fn InboundFilter) filterHandle[InboundFilter] {
	return c.inbound.Add(fn)
}

// RemoveInboundFilter removes a filter installed with AddInboundFilter.
func (c *Connection) RemoveInboundFilter(h filterHandle[InboundFilter]) {
	c.inbound.Remove(h)
}

// AddOutboundFilter installs fn as the new head of the outbound filter
// chain.
func (c *Connection) AddOutboundFilter(fn OutboundFilter) filterHandle[OutboundFilter] {
	return c.outbound.Add(fn)
}

// RemoveOutboundFilter removes a filter installed with AddOutboundFilter.
func (c *Connection) RemoveOutboundFilter(h filterHandle[OutboundFilter]) {
	c.outbound.Remove(h)
}

// Open begins connecting to the configured server. It returns
// immediately; connection progress is reported through OnStatusChange
// and the registered message notifiers. Open is a no-op if the
// configuration is disabled or already active.
//
// Any pending reconnect timer is canceled: an explicit Open always
// supersedes a scheduled automatic reconnect.
func (c *Connection) Open() error {
	if !c.Config.Enabled {
		return nil
	}
	if c.Status().Active() {
		return nil
	}
	if !c.Config.valid() {
		return errors.New("irc: open refused: host, userName, nickName, and realName must all be set")
	}
	c.cancelReconnectTimer()

	c.setStatus(StatusConnecting)
	c.nick = c.Config.NickName
	c.user = c.Config.UserName
	c.host = strings.Split(c.Config.Host, ":")[0]
	c.registered = false
	c.quitSent = false
	c.proto = stateOpening
	c.codec = lineCodec{}
	c.capRequestedBatch = c.Config.RequestCapabilities
	c.keepalive = &keepalive{onTimeout: func() { c.exit(errKeepaliveTimeout) }}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.errC = make(chan error, 1)

	dial := c.Config.DialFn
	if dial == nil {
		dial = c.defaultDial
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		conn, err := dial()
		if err != nil {
			c.onTransportError(err)
			return
		}
		c.conn = conn
		c.runLoop(ctx)
	}()
	return nil
}

func (c *Connection) defaultDial() (io.ReadWriteCloser, error) {
	addr := c.Config.addr()
	if c.Config.Secure {
		return tls.Dial("tcp", addr, nil)
	}
	return net.Dial("tcp", addr)
}

// Close requests a graceful shutdown: it sends QUIT (if connected) and
// waits briefly for the server to close the connection, transitioning
// through Closing to Closed.
func (c *Connection) Close() {
	c.Quit("")
}

// Quit sends a QUIT with reason (possibly empty) and begins closing the
// connection.
func (c *Connection) Quit(reason string) {
	if !c.Status().Active() {
		return
	}
	c.setStatus(StatusClosing)
	c.writeRaw(Quit(reason))
	go func() {
		select {
		case <-time.After(3 * time.Second):
			c.exit(nil)
		case <-c.doneSignal():
		}
	}()
}

func (c *Connection) doneSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	return done
}

// Wait blocks until the connection's background goroutines have
// finished. That happens when the connection reaches Closed, and also
// when it enters Waiting with an automatic reconnect scheduled; the
// reconnect starts new goroutines that an earlier Wait does not cover.
func (c *Connection) Wait() {
	c.wg.Wait()
}

func (c *Connection) setStatus(s ConnectionStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
	for _, fn := range c.onStatus {
		fn(s)
	}
}

func (c *Connection) cancelReconnectTimer() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func (c *Connection) scheduleReconnect() {
	if c.quitSent || c.Config.ReconnectDelaySeconds <= 0 || !c.Config.Enabled {
		c.setStatus(StatusClosed)
		return
	}
	c.setStatus(StatusWaiting)
	c.reconnectTimer = time.AfterFunc(time.Duration(c.Config.ReconnectDelaySeconds)*time.Second, func() {
		_ = c.Open()
	})
}

func (c *Connection) onTransportError(err error) {
	c.log(fmt.Errorf("transport: %w", err))
	c.setStatus(StatusError)
	c.scheduleReconnect()
}

// exit requests the run loop to stop with err; only the first call has
// effect.
func (c *Connection) exit(err error) {
	select {
	case c.errC <- err:
	default:
	}
}

var errKeepaliveTimeout = errors.New("irc: keepalive timeout")

func (c *Connection) runLoop(ctx context.Context) {
	lines := c.startReading(ctx)
	defer func() {
		if c.conn != nil {
			_ = c.conn.Close()
		}
		if c.quitSent {
			c.setStatus(StatusClosed)
		} else {
			c.setStatus(StatusError)
			c.scheduleReconnect()
		}
	}()

	c.beginHandshake()

	idle := c.idleTimeout()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-c.errC:
			if err != nil {
				c.log(fmt.Errorf("connection: %w", err))
			}
			return
		case l, ok := <-lines:
			if !ok {
				continue
			}
			c.handleLine(l)
			idle = c.idleTimeout()
		case <-idle:
			c.keepalive.probe(ctx, c, "keepalive", 10*time.Second)
			idle = c.idleTimeout()
		}
	}
}

// idleTimeout returns a channel that fires once the configured idle
// window elapses, or a nil channel (blocks forever) when keepalive
// probing is disabled.
func (c *Connection) idleTimeout() <-chan time.Time {
	if c.Config.KeepaliveIntervalSeconds <= 0 {
		return nil
	}
	return time.After(time.Duration(c.Config.KeepaliveIntervalSeconds) * time.Second)
}

func (c *Connection) startReading(ctx context.Context) <-chan []byte {
	out := make(chan []byte)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		buf := make([]byte, 4096)
		for {
			n, err := c.conn.Read(buf)
			if n > 0 {
				for _, line := range c.codec.Feed(buf[:n]) {
					select {
					case <-ctx.Done():
						return
					case out <- line:
					}
				}
			}
			if err != nil {
				if err == io.EOF {
					c.exit(nil)
				} else {
					c.exit(err)
				}
				return
			}
		}
	}()
	return out
}

func (c *Connection) handleLine(l []byte) {
	m := new(Message)
	m.IncludePrefix()
	m.Conn = c
	m.Timestamp = c.now()
	if err := m.UnmarshalText(l); err != nil {
		c.log(fmt.Errorf("unmarshal: %w", err))
		return
	}
	for i, p := range m.Params {
		m.Params[i] = c.dec.Decode([]byte(p))
	}
	if (m.Source == Prefix{}) {
		m.Source.Host = c.host
	}
	c.dispatchInbound(m)
}

// now is a seam so tests can stamp deterministic timestamps without the
// package reaching for time.Now() directly in the hot path.
func (c *Connection) now() time.Time { return time.Now() }

func (c *Connection) dispatchInbound(m *Message) {
	c.applyStateTracking(m)

	if c.keepalive.observe(m) {
		return
	}

	if !c.proto.runState(c, m) {
		return // handshake consumed the message entirely
	}

	emit, suppressed := c.composer.Process(m)
	if suppressed && emit == nil {
		return
	}
	if emit != nil {
		m = emit
	}

	m.Flags |= c.identifyFlags(m)
	c.rewriteCTCP(m)

	if runFilterChain(&c.inbound, func(fn InboundFilter) bool { return fn(m) }) {
		return
	}

	for _, fn := range c.onMessage {
		fn(m)
	}
	for _, fn := range c.onKind[m.Kind()] {
		fn(m)
	}
}

func (c *Connection) identifyFlags(m *Message) MessageFlags {
	if !c.Network.IsCapable("identify-msg") {
		return 0
	}
	if m.Command != CmdPrivmsg && m.Command != CmdNotice {
		return 0
	}
	body := m.Params.Get(2)
	if len(body) == 0 {
		return 0
	}
	switch body[0] {
	case '+':
		m.Params[1] = body[1:]
		return FlagIdentified
	case '-':
		m.Params[1] = body[1:]
		return FlagUnidentified
	}
	return 0
}

func (c *Connection) applyStateTracking(m *Message) {
	if m.Source.Nick != "" && string(m.Source.Nick) == c.nick {
		m.Flags |= FlagOwn
	}
	switch m.Command {
	case RplWelcome:
		if nick := m.Params.Get(1); nick != "" {
			c.nick = nick
		}
		fields := strings.Fields(m.Params.Get(2))
		if len(fields) > 0 {
			if parts := fullAddress.FindStringSubmatch(fields[len(fields)-1]); parts != nil {
				c.nick = parts[1]
				c.user = parts[2]
				c.host = parts[3]
			}
		}
	case RplMyInfo:
		if len(m.Params) > 2 {
			c.host = m.Params.Get(2)
		}
	case RplISupport:
		if len(m.Params) > 2 {
			info := c.networkInfo
			name, modes, prefixes, types := info.name, string(info.modes), string(info.prefixes), string(info.channelTypes)
			info.Absorb(m.Params[1 : len(m.Params)-1])
			if info.name != name {
				c.Network.notify(NetworkChangeName)
			}
			if string(info.modes) != modes {
				c.Network.notify(NetworkChangeModes)
			}
			if string(info.prefixes) != prefixes {
				c.Network.notify(NetworkChangePrefixes)
			}
			if string(info.channelTypes) != types {
				c.Network.notify(NetworkChangeChannelTypes)
			}
		}
	case CmdNick:
		if m.Source.Nick.Is(c.nick) {
			c.nick = m.Params.Get(1)
		}
	}
}

// WriteMessage sends a command through the outbound pipeline: filters
// run newest-first and may consume it; if the connection is not yet
// registered the command is queued and flushed at the welcome boundary;
// otherwise it is encoded and written immediately. Values that are not a
// *Message skip the filters and the pending queue and are written at once.
func (c *Connection) WriteMessage(m encoding.TextMarshaler) {
	msg, ok := m.(*Message)
	if !ok {
		c.writeEncoded(m)
		return
	}
	if runFilterChain(&c.outbound, func(fn OutboundFilter) bool { return fn(msg.Command, msg) }) {
		return
	}
	if !c.registered {
		c.pending = append(c.pending, msg)
		return
	}
	c.writeRaw(msg)
}

// writeRaw bypasses the pending queue; used by the handshake state
// machine to send CAP/NICK/USER/PASS/AUTHENTICATE before registration.
func (c *Connection) writeRaw(m *Message) {
	c.writeEncoded(m)
	if m.Command == CmdQuit {
		c.quitSent = true
	}
}

func (c *Connection) writeEncoded(m encoding.TextMarshaler) {
	if c.conn == nil {
		c.log(fmt.Errorf("write: no connection; message %#v", m))
		return
	}
	if msg, ok := m.(*Message); ok && !msg.includePrefix {
		msg.Source = Prefix{Nick: Nickname(c.nick), User: c.user, Host: c.host}
	}
	b, err := m.MarshalText()
	if err != nil {
		c.log(fmt.Errorf("marshal: %w; message %#v", err, m))
		if !errors.Is(err, warnTruncate) {
			return
		}
	}
	if !bytes.HasSuffix(b, []byte("\r\n")) {
		b = encodeLine(b)
	}
	if _, err := c.conn.Write(b); err != nil {
		c.exit(err)
	}
}

func (c *Connection) flushPending() {
	pending := c.pending
	c.pending = nil
	for _, m := range pending {
		c.writeRaw(m)
	}
}

func (c *Connection) log(err error) {
	if c.ErrorLog == nil {
		log.Println(err)
		return
	}
	c.ErrorLog.Println(err)
}

// UseRouter attaches r to the connection's message dispatch: every
// message that survives the inbound filter chain is offered to r. The
// router is registered as an OnMessage notifier, so it runs among the
// OnMessage callbacks in registration order and before the kind-specific
// On notifiers. Routers may be shared between
// connections or owned by one.
func (c *Connection) UseRouter(r *Router) {
	c.OnMessage(func(m *Message) {
		r.SpeakIRC(c, m)
	})
}
