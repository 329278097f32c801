package irc

import (
	"strconv"
	"strings"
)

// NetworkInfo absorbs RPL_ISUPPORT (005) tokens and the set of IRCv3
// capabilities negotiated over the life of a Connection, and derives the
// lookups higher layers need from them.
type NetworkInfo struct {
	name         string
	modes        []rune
	prefixes     []rune
	channelTypes []rune
	channelModes [4]string // A,B,C,D

	nickLength    int
	channelLength int
	topicLength   int
	kickLength    int
	awayLength    int
	modeCount     int
	monitorCount  int

	modeLimits    map[rune]int
	channelLimits map[rune]int
	targetLimits  map[string]int

	available map[string]string
	requested map[string]capModifier
	active    map[string]bool
}

type capModifier uint8

const (
	capNone       capModifier = 0
	capSticky     capModifier = 1 << 0
	capRequireAck capModifier = 1 << 1
)

// newNetworkInfo returns a NetworkInfo seeded with the limits of
// pre-ISUPPORT servers: a 9-character nick limit, a 200-character
// channel name limit, and unlimited (-1) topic/kick/away reason
// lengths, used until RPL_ISUPPORT first arrives.
func newNetworkInfo() *NetworkInfo {
	return &NetworkInfo{
		nickLength:    9,
		channelLength: 200,
		topicLength:   -1,
		kickLength:    -1,
		awayLength:    -1,
		modeCount:     -1,
		monitorCount:  -1,
		modes:         []rune{'o', 'v'},
		prefixes:      []rune{'@', '+'},
		channelTypes:  []rune{'#', '&'},
		modeLimits:    map[rune]int{},
		channelLimits: map[rune]int{},
		targetLimits:  map[string]int{},
		available:     map[string]string{},
		requested:     map[string]capModifier{},
		active:        map[string]bool{},
	}
}

// Absorb parses one RPL_ISUPPORT line's tokens, updating the cache in
// place. Unrecognized tokens are ignored; the caller is expected to have
// already stripped the trailing ":are supported by this server" param.
func (n *NetworkInfo) Absorb(tokens []string) {
	for _, tok := range tokens {
		key, val, _ := strings.Cut(tok, "=")
		switch key {
		case "NETWORK":
			n.name = val
		case "PREFIX":
			n.absorbPrefix(val)
		case "CHANTYPES":
			n.channelTypes = []rune(val)
		case "CHANMODES":
			n.absorbChanmodes(val)
		case "NICKLEN":
			n.nickLength = atoiOr(val, n.nickLength)
		case "CHANNELLEN":
			n.channelLength = atoiOr(val, n.channelLength)
		case "TOPICLEN":
			n.topicLength = atoiOr(val, n.topicLength)
		case "KICKLEN":
			n.kickLength = atoiOr(val, n.kickLength)
		case "AWAYLEN":
			n.awayLength = atoiOr(val, n.awayLength)
		case "MODES":
			n.modeCount = atoiOr(val, n.modeCount)
		case "MONITOR":
			n.monitorCount = atoiOr(val, n.monitorCount)
		case "MAXLIST":
			n.absorbKeyedRunes(val, n.modeLimits)
		case "CHANLIMIT":
			n.absorbKeyedRunes(val, n.channelLimits)
		case "TARGMAX":
			n.absorbKeyedStrings(val)
		}
	}
}

func (n *NetworkInfo) absorbPrefix(val string) {
	if len(val) == 0 || val[0] != '(' {
		return
	}
	end := strings.IndexByte(val, ')')
	if end < 0 {
		return
	}
	modes := []rune(val[1:end])
	prefixes := []rune(val[end+1:])
	if len(modes) != len(prefixes) {
		return
	}
	n.modes = modes
	n.prefixes = prefixes
}

func (n *NetworkInfo) absorbChanmodes(val string) {
	groups := strings.Split(val, ",")
	for i := 0; i < 4 && i < len(groups); i++ {
		n.channelModes[i] = groups[i]
	}
}

func (n *NetworkInfo) absorbKeyedRunes(val string, into map[rune]int) {
	for _, pair := range strings.Split(val, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok || k == "" {
			continue
		}
		count := atoiOr(v, -1)
		for _, r := range k {
			into[r] = count
		}
	}
}

func (n *NetworkInfo) absorbKeyedStrings(val string) {
	for _, pair := range strings.Split(val, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		n.targetLimits[k] = atoiOr(v, -1)
	}
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Name returns the network's advertised name, or "" if none has arrived.
func (n *NetworkInfo) Name() string { return n.name }

// Modes and Prefixes return the parity-matched PREFIX mode/prefix runes.
func (n *NetworkInfo) Modes() []rune    { return n.modes }
func (n *NetworkInfo) Prefixes() []rune { return n.prefixes }

// PrefixToMode and ModeToPrefix translate between a PREFIX entry's mode
// letter and its display prefix, using index parity on the PREFIX pair.
func (n *NetworkInfo) PrefixToMode(prefix rune) (rune, bool) {
	for i, p := range n.prefixes {
		if p == prefix {
			return n.modes[i], true
		}
	}
	return 0, false
}

func (n *NetworkInfo) ModeToPrefix(mode rune) (rune, bool) {
	for i, m := range n.modes {
		if m == mode {
			return n.prefixes[i], true
		}
	}
	return 0, false
}

// ChannelTypes returns the accepted leading channel-name characters.
func (n *NetworkInfo) ChannelTypes() []rune { return n.channelTypes }

// IsChannel reports whether name's first rune is a channel type.
func (n *NetworkInfo) IsChannel(name string) bool {
	if name == "" {
		return false
	}
	first := []rune(name)[0]
	for _, t := range n.channelTypes {
		if t == first {
			return true
		}
	}
	return false
}

// ChannelModeKind enumerates the CHANMODES A/B/C/D type groups.
type ChannelModeKind int

const (
	ChanModeTypeA ChannelModeKind = iota // always takes a parameter (list modes, e.g. ban)
	ChanModeTypeB                        // always takes a parameter
	ChanModeTypeC                        // takes a parameter only when set
	ChanModeTypeD                        // never takes a parameter
)

// ChannelModes returns the union of mode characters belonging to kind.
func (n *NetworkInfo) ChannelModes(kind ChannelModeKind) string {
	if int(kind) < 0 || int(kind) >= len(n.channelModes) {
		return ""
	}
	return n.channelModes[kind]
}

// NumericLimit reports one of the scalar ISUPPORT-derived limits.
type NumericLimit int

const (
	LimitNickLength NumericLimit = iota
	LimitChannelLength
	LimitTopicLength
	LimitMessageLength
	LimitKickReasonLength
	LimitAwayReasonLength
	LimitModeCount
	LimitMonitorCount
)

// NumericLimit returns the current value of the requested scalar limit.
// LimitMessageLength is fixed at the protocol's 512-byte line limit.
func (n *NetworkInfo) NumericLimit(kind NumericLimit) int {
	switch kind {
	case LimitNickLength:
		return n.nickLength
	case LimitChannelLength:
		return n.channelLength
	case LimitTopicLength:
		return n.topicLength
	case LimitMessageLength:
		return 512
	case LimitKickReasonLength:
		return n.kickLength
	case LimitAwayReasonLength:
		return n.awayLength
	case LimitModeCount:
		return n.modeCount
	case LimitMonitorCount:
		return n.monitorCount
	}
	return -1
}

// ModeLimit returns the MAXLIST limit for mode, or -1 if unspecified.
func (n *NetworkInfo) ModeLimit(mode rune) int {
	if v, ok := n.modeLimits[mode]; ok {
		return v
	}
	return -1
}

// ChannelLimit returns the CHANLIMIT limit for a channel type, or -1.
func (n *NetworkInfo) ChannelLimit(chanType rune) int {
	if v, ok := n.channelLimits[chanType]; ok {
		return v
	}
	return -1
}

// TargetLimit returns the TARGMAX limit for a command, or -1.
func (n *NetworkInfo) TargetLimit(cmd string) int {
	if v, ok := n.targetLimits[strings.ToUpper(cmd)]; ok {
		return v
	}
	return -1
}

// --- IRCv3 capability bookkeeping ---

// setAvailable records a capability offered by the server in CAP LS,
// along with its value (the part after '=', or "" if bare).
func (n *NetworkInfo) setAvailable(name, value string) {
	n.available[strings.ToLower(name)] = value
}

// AvailableCapabilities returns every capability the server has offered.
func (n *NetworkInfo) AvailableCapabilities() []string {
	return sortedKeys(n.available)
}

// capabilityValue returns the value associated with an offered
// capability (e.g. the mechanism list for "sasl").
func (n *NetworkInfo) capabilityValue(name string) (string, bool) {
	v, ok := n.available[strings.ToLower(name)]
	return v, ok
}

// setRequested records that name was requested with the given modifier
// bits, parsed from its leading -/=/~ characters.
func (n *NetworkInfo) setRequested(name string, mod capModifier) {
	n.requested[strings.ToLower(name)] = mod
}

// RequestedCapabilities returns every capability the client has asked
// for, regardless of whether it was acknowledged yet.
func (n *NetworkInfo) RequestedCapabilities() []string {
	return sortedKeys(n.requested)
}

// setActive marks a capability active (on ACK) or inactive (on DEL,
// unless it is sticky).
func (n *NetworkInfo) setActive(name string, on bool) {
	key := strings.ToLower(name)
	if !on {
		if n.requested[key]&capSticky != 0 {
			return
		}
		delete(n.active, key)
		return
	}
	n.active[key] = true
}

// ActiveCapabilities returns every capability currently in effect.
func (n *NetworkInfo) ActiveCapabilities() []string {
	return sortedKeys(n.active)
}

// HasCapability reports whether the server currently offers name (offered
// by CAP LS or CAP NEW and not since withdrawn by CAP DEL).
func (n *NetworkInfo) HasCapability(name string) bool {
	_, ok := n.available[strings.ToLower(name)]
	return ok
}

// IsCapable reports whether name is currently active.
func (n *NetworkInfo) IsCapable(name string) bool {
	return n.active[strings.ToLower(name)]
}

func sortedKeys(m interface{}) []string {
	var keys []string
	switch mm := m.(type) {
	case map[string]string:
		for k := range mm {
			keys = append(keys, k)
		}
	case map[string]capModifier:
		for k := range mm {
			keys = append(keys, k)
		}
	case map[string]bool:
		for k := range mm {
			keys = append(keys, k)
		}
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// NetworkChange identifies which facet of a Network projection changed,
// passed to NetworkObserver so callers don't have to diff snapshots
// themselves.
type NetworkChange int

const (
	NetworkChangeName NetworkChange = iota
	NetworkChangeModes
	NetworkChangePrefixes
	NetworkChangeChannelTypes
	NetworkChangeAvailableCapabilities
	NetworkChangeRequestedCapabilities
	NetworkChangeActiveCapabilities
)

// NetworkObserver is notified synchronously whenever a Network facet
// changes, matching the single-threaded cooperative model: the call
// happens on the Connection's event loop, never concurrently with it.
// The Connection does not emit NetworkChangeRequestedCapabilities:
// changes to the requested set are not reported to observers.
type NetworkObserver func(NetworkChange)

// Network is the read-only, observable projection of a Connection's
// NetworkInfo exposed to higher layers. The Connection owns
// the mutable NetworkInfo and calls notify as ISUPPORT and
// CAP traffic arrives; Network itself never mutates state on its own.
type Network struct {
	info      *NetworkInfo
	observers []NetworkObserver
	requestFn func([]string)
}

func newNetwork(info *NetworkInfo) *Network {
	return &Network{info: info, requestFn: func([]string) {}}
}

// setRequestFn installs the protocol engine's capability-request sink.
func (n *Network) setRequestFn(fn func([]string)) { n.requestFn = fn }

// Observe registers fn to be called whenever a facet of the network
// changes. It returns a function that removes the observer.
func (n *Network) Observe(fn NetworkObserver) (remove func()) {
	n.observers = append(n.observers, fn)
	idx := len(n.observers) - 1
	return func() {
		if idx < len(n.observers) {
			n.observers[idx] = nil
		}
	}
}

func (n *Network) notify(change NetworkChange) {
	for _, fn := range n.observers {
		if fn != nil {
			fn(change)
		}
	}
}

func (n *Network) Name() string                             { return n.info.Name() }
func (n *Network) Modes() []rune                            { return n.info.Modes() }
func (n *Network) Prefixes() []rune                         { return n.info.Prefixes() }
func (n *Network) PrefixToMode(p rune) (rune, bool)         { return n.info.PrefixToMode(p) }
func (n *Network) ModeToPrefix(m rune) (rune, bool)         { return n.info.ModeToPrefix(m) }
func (n *Network) ChannelTypes() []rune                     { return n.info.ChannelTypes() }
func (n *Network) IsChannel(name string) bool               { return n.info.IsChannel(name) }
func (n *Network) ChannelModes(kind ChannelModeKind) string { return n.info.ChannelModes(kind) }
func (n *Network) NumericLimit(kind NumericLimit) int       { return n.info.NumericLimit(kind) }
func (n *Network) ModeLimit(mode rune) int                  { return n.info.ModeLimit(mode) }
func (n *Network) ChannelLimit(t rune) int                  { return n.info.ChannelLimit(t) }
func (n *Network) TargetLimit(cmd string) int               { return n.info.TargetLimit(cmd) }
func (n *Network) AvailableCapabilities() []string          { return n.info.AvailableCapabilities() }
func (n *Network) RequestedCapabilities() []string          { return n.info.RequestedCapabilities() }
func (n *Network) ActiveCapabilities() []string             { return n.info.ActiveCapabilities() }
func (n *Network) HasCapability(name string) bool           { return n.info.HasCapability(name) }
func (n *Network) IsCapable(name string) bool               { return n.info.IsCapable(name) }

// RequestCapability records the modifier bits of each entry in list and
// sends one CAP REQ for the list at once. Nothing is queued: without a
// transport the write is logged and dropped, and the list is not carried
// into a later negotiation. The actual wire write is performed by the
// protocol engine, which owns the connection's write path.
func (n *Network) RequestCapability(list []string) {
	n.requestFn(list)
}

