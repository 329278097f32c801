package irc

import (
	"fmt"
	"strings"
)

// PRIVMSG
// NOTICE
// CTCP ACTION
// TOPIC
// KICK
// PART
// QUIT
// ERROR
// INVITE
// MODE

// Text returns the free-form text portion of a message for the well-known (named) IRC commands.
// An error is returned if the method is called for unsupported message types.
// If err is not nil, then Text will contain the entire parameter list joined together as one string.
// However, for commands that return an error, it may be better to call Params.Get directly.
//
// Supported commands include PRIVMSG, NOTICE, PART, QUIT, ERROR, and more.
//
// In the case of PART and KICK, Text contains the <reason> message parameter.
//
// The error may be discarded without checking
// If it's known that the message will always be a supported command,
// for example when used inside a handler that is only ever called for PRIVMSG events,
// then it is safe to discard err.
// Errors are only returned to prevent the method from returning unexpected results to callers that assume it will work for all message types.
func (m *Message) Text() (string, error) {
	switch m.Command {
	case CmdQuit, CmdError:
		return m.Params.Get(1), nil
	case CmdPrivmsg, CmdNotice, CTCPAction, CmdTopic, CmdPart, CmdMode:
		return m.Params.Get(2), nil
	case CmdKick:
		return m.Params.Get(3), nil

	default:
		return strings.Join(m.Params, " "), fmt.Errorf("text: command %s is not supported", m.Command)
	}
}

// Target returns the intended target of a message.
// In the case of query messages, Target will equal our client's nickname.
// For channel messages, Target will usually be the name of the channel a message was sent to.
// If target is a channel,
// it may be prefixed with one or more channel membership prefixes (e.g. '@', '+' for Op, Voice)
// on servers that support the STATUSMSG response of RPL_ISUPPORT.
func (m *Message) Target() (string, error) {
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CTCPAction, CmdInvite, CmdTopic, CmdKick, CmdPart, CmdMode:
		return m.Params.Get(1), nil
	default:
		return "", fmt.Errorf("%s: target method not supported", m.Command)
	}
}

// Chan is the channel the message was sent to. If the message was a direct
// message (query), Chan returns the target nickname; no channel-type check
// is made. If the message target
// was a group on a channel, e.g. "+#foo", then Chan will be the
// channel name with the target prefix removed ("#foo").

// Chan returns the channel a message applies to.
// If the message target was a channel name prefixed with membership prefixes ('@', '+', etc.) the prefixes will be stripped.
func (m *Message) Chan() (string, error) {
	switch m.Command {
	case CmdPrivmsg, CmdNotice, CTCPAction, CmdJoin, CmdTopic, CmdKick, CmdPart:
		return StripStatusPrefixes(m.Params.Get(1)), nil
	case CmdInvite:
		return m.Params.Get(2), nil
	default:
		return "", fmt.Errorf("%s: chan method not supported", m.Command)
	}
}

// NewNick returns the new nickname carried by a Nick message.
func (m *Message) NewNick() string { return m.Params.Get(1) }

// QuitReason returns the reason carried by a Quit message.
func (m *Message) QuitReason() string { return m.Params.Get(1) }

// JoinChannel returns the channel carried by a Join message.
func (m *Message) JoinChannel() string { return m.Params.Get(1) }

// PartChannel and PartReason return the channel and reason carried by a Part message.
func (m *Message) PartChannel() string { return m.Params.Get(1) }
func (m *Message) PartReason() string  { return m.Params.Get(2) }

// InviteUser and InviteChannel return the fields of a live (non-composed) Invite message.
func (m *Message) InviteUser() string    { return m.Params.Get(1) }
func (m *Message) InviteChannel() string { return m.Params.Get(2) }

// KickChannel, KickUser and KickReason return the fields of a Kick message.
func (m *Message) KickChannel() string { return m.Params.Get(1) }
func (m *Message) KickUser() string    { return m.Params.Get(2) }
func (m *Message) KickReason() string  { return m.Params.Get(3) }

// ModeTarget, ModeString and ModeArgs return the fields of a live MODE message.
func (m *Message) ModeTarget() string   { return m.Params.Get(1) }
func (m *Message) ModeString() string   { return m.Params.Get(2) }
func (m *Message) ModeArgs() []string {
	if len(m.Params) < 3 {
		return nil
	}
	return m.Params[2:]
}

// PrivateTarget/PrivateContent and NoticeTarget/NoticeContent return the fields
// of Private and Notice messages. Content has already had any identify-msg
// prefix byte stripped and CTCP framing removed by the protocol engine.
func (m *Message) PrivateTarget() string  { return m.Params.Get(1) }
func (m *Message) PrivateContent() string { return m.Params.Get(2) }
func (m *Message) NoticeTarget() string   { return m.Params.Get(1) }
func (m *Message) NoticeContent() string  { return m.Params.Get(2) }

// PingArg returns the argument of a Ping message.
func (m *Message) PingArg() string { return m.Params.Get(1) }

// PongArg returns the trailing argument of a Pong message.
func (m *Message) PongArg() string { return m.Params.Get(len(m.Params)) }

// CapSubCommand returns the CAP subcommand (LS, REQ, ACK, NAK, NEW, DEL, LIST, END).
func (m *Message) CapSubCommand() string { return strings.ToUpper(m.Params.Get(2)) }

// CapCapabilities splits the trailing capability list parameter on spaces.
// It returns nil when the CAP message carried no capability list (count<=2).
func (m *Message) CapCapabilities() []string {
	if len(m.Params) <= 2 {
		return nil
	}
	return strings.Fields(m.Params.Get(len(m.Params)))
}

// Numeric returns the parsed numeric reply code and whether the message was one.
func (m *Message) Numeric() (int, bool) {
	if !isNumeric(m.Command) {
		return 0, false
	}
	var code int
	for _, r := range m.Command.String() {
		code = code*10 + int(r-'0')
	}
	return code, true
}

// Motd returns the composed MOTD payload, if this message is one.
func (m *Message) Motd() (MotdData, bool) {
	d, ok := m.composed.(MotdData)
	return d, ok
}

// Names returns the composed NAMES payload, if this message is one.
func (m *Message) Names() (NamesData, bool) {
	d, ok := m.composed.(NamesData)
	return d, ok
}

// WhoReply returns the composed WHO reply payload, if this message is one.
func (m *Message) WhoReply() (WhoReplyData, bool) {
	d, ok := m.composed.(WhoReplyData)
	return d, ok
}

// ComposedTopic returns the composed channel-topic payload (332/331), if any.
func (m *Message) ComposedTopic() (TopicData, bool) {
	d, ok := m.composed.(TopicData)
	return d, ok
}

// ComposedInvite returns the composed invite-confirmation payload (341/345), if any.
func (m *Message) ComposedInvite() (InviteData, bool) {
	d, ok := m.composed.(InviteData)
	return d, ok
}

// ComposedMode returns the composed channel MODE-query reply payload (324), if any.
func (m *Message) ComposedMode() (ModeData, bool) {
	d, ok := m.composed.(ModeData)
	return d, ok
}

// Away returns the composed AWAY-status payload (301/305/306), if any.
func (m *Message) Away() (AwayData, bool) {
	d, ok := m.composed.(AwayData)
	return d, ok
}
