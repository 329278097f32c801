package irc

import "strings"

// Composer aggregates multi-line numeric reply sequences (MOTD, NAMES)
// and the single-shot informational numerics (WHO, TOPIC and its
// companions, channel MODE, AWAY) into typed logical messages.
//
// A Composer is not safe for concurrent use; it is owned by exactly one
// Connection's event loop.
type Composer struct {
	motd  *motdBuilder
	names *namesBuilder
}

type motdBuilder struct {
	lines []string
}

type namesBuilder struct {
	channel string
	names   []string
}

// MotdData is the composed payload of a full MOTD sequence (375, 372*, 376).
type MotdData struct {
	Lines []string
}

// NamesData is the composed payload of a full NAMES sequence (353*, 366).
type NamesData struct {
	Channel string
	Names   []string
}

// WhoReplyData is the composed payload of a single RPL_WHOREPLY (352) line.
type WhoReplyData struct {
	Channel  string
	User     string
	Host     string
	Server   string
	Nick     string
	Away     bool
	Status   string
	Hopcount int
	RealName string
}

// TopicData is the composed payload of RPL_TOPIC/RPL_NOTOPIC (332/331).
type TopicData struct {
	Channel  string
	Topic    string
	HasTopic bool
}

// InviteData is the composed payload of RPL_INVITING/RPL_INVITED (341/345).
type InviteData struct {
	User    string
	Channel string
}

// ModeData is the composed payload of RPL_CHANNELMODEIS (324).
type ModeData struct {
	Target string
	Modes  string
	Args   []string
}

// AwayData is the composed payload of RPL_AWAY/RPL_UNAWAY/RPL_NOWAWAY
// (301/305/306).
type AwayData struct {
	Nick    string
	Content string
	Away    bool
}

// Process inspects an inbound numeric message and returns the message that
// should actually be dispatched to filters/observers.
//
//   - emit == m, suppressed == false: the message passes through unchanged
//     (it is not a numeric the composer interprets).
//   - emit == nil, suppressed == true: the message is an intermediate line
//     of a multi-line sequence (MOTDSTART, an interior MOTD, or an interior
//     NAMREPLY); it must not reach observers.
//   - emit != nil, suppressed == true: emit is a synthesized logical
//     message (Motd/Names/WhoReply/Topic/Invite/Mode/Away) that replaces m.
func (c *Composer) Process(m *Message) (emit *Message, suppressed bool) {
	if _, ok := m.Numeric(); !ok {
		return m, false
	}

	switch m.Command {
	case RplMOTDStart:
		c.motd = &motdBuilder{}
		return nil, true

	case RplMOTD:
		if c.motd == nil {
			c.motd = &motdBuilder{}
		}
		c.motd.lines = append(c.motd.lines, m.Params.Get(2))
		return nil, true

	case RplEndOfMOTD:
		b := c.motd
		c.motd = nil
		lines := []string{}
		if b != nil {
			lines = b.lines
		}
		return c.composed(m, KindMotd, MotdData{Lines: lines}), true

	case RplNamReply:
		if c.names == nil {
			c.names = &namesBuilder{}
		}
		if n := len(m.Params); n >= 2 {
			c.names.channel = m.Params.Get(n - 1)
		}
		c.names.names = append(c.names.names, strings.Fields(m.Params.Get(len(m.Params)))...)
		return nil, true

	case RplEndOfNames:
		b := c.names
		c.names = nil
		data := NamesData{}
		if b != nil {
			data = NamesData{Channel: b.channel, Names: b.names}
		} else {
			data.Channel = m.Params.Get(2)
		}
		return c.composed(m, KindNames, data), true

	// The leading parameter of every numeric below is the client's own
	// nick; payload fields start at the second parameter.
	case RplTopic:
		return c.composed(m, KindTopic, TopicData{Channel: m.Params.Get(2), Topic: m.Params.Get(3), HasTopic: true}), true

	case RplNoTopic:
		return c.composed(m, KindTopic, TopicData{Channel: m.Params.Get(2), HasTopic: false}), true

	case RplInviting, RplInvited:
		return c.composed(m, KindInvite, InviteData{User: m.Params.Get(2), Channel: m.Params.Get(3)}), true

	case RplWhoReply:
		data := parseWhoReply(m)
		out := c.composed(m, KindWhoReply, data)
		out.Source = Prefix{Nick: Nickname(data.Nick), User: data.User, Host: data.Host}
		return out, true

	case RplChannelModeIs:
		data := ModeData{Target: m.Params.Get(2), Modes: m.Params.Get(3)}
		if len(m.Params) > 3 {
			data.Args = append([]string(nil), m.Params[3:]...)
		}
		return c.composed(m, KindMode, data), true

	case RplAway:
		return c.composed(m, KindAway, AwayData{Nick: m.Params.Get(2), Content: m.Params.Get(3), Away: true}), true

	case RplUnAway:
		return c.composed(m, KindAway, AwayData{Nick: m.Params.Get(1), Away: false}), true

	case RplNowAway:
		return c.composed(m, KindAway, AwayData{Nick: m.Params.Get(1), Away: true}), true
	}

	return m, false
}

// composed builds the synthesized message, inheriting the terminating
// numeric's prefix and timestamp as specified.
func (c *Composer) composed(m *Message, kind MessageKind, data interface{}) *Message {
	out := &Message{
		Source:    m.Source,
		Command:   m.Command,
		Params:    m.Params,
		Timestamp: m.Timestamp,
		Flags:     m.Flags,
		Conn:      m.Conn,
		kind:      kind,
		composed:  data,
	}
	return out
}

// parseWhoReply splits a RPL_WHOREPLY line's trailing parameter into
// hopcount and realname; the caller reconstructs the described user's
// full nick!user@host prefix from the User/Host/Nick fields.
func parseWhoReply(m *Message) WhoReplyData {
	d := WhoReplyData{
		Channel: m.Params.Get(2),
		User:    m.Params.Get(3),
		Host:    m.Params.Get(4),
		Server:  m.Params.Get(5),
		Nick:    m.Params.Get(6),
	}
	status := m.Params.Get(7)
	if strings.Contains(status, "G") {
		d.Away = true
	}
	d.Status = status

	trailing := m.Params.Get(len(m.Params))
	parts := strings.SplitN(trailing, " ", 2)
	if len(parts) > 0 {
		var n int
		for _, r := range parts[0] {
			if r < '0' || r > '9' {
				n = 0
				goto done
			}
			n = n*10 + int(r-'0')
		}
	done:
		d.Hopcount = n
	}
	if len(parts) > 1 {
		d.RealName = parts[1]
	}
	return d
}
