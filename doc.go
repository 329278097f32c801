/*
Package irc implements the core of an IRC client: a connection state
machine with capability negotiation and SASL authentication, a parser
and encoder for the RFC 1459 / IRCv3 line format, multi-line numeric
reply composition, and a filterable message/command pipeline.

Connections

A Connection owns the transport and everything layered on it. Configure
it, register observers, and call Open; progress is reported through
status changes and message notifiers:

	c := irc.NewConnection(irc.Config{
		Enabled:  true,
		Host:     "irc.example.com",
		NickName: "WiZ",
		UserName: "wiz",
		RealName: "WiZ",
	})
	c.OnConnect(func() {
		c.WriteMessage(irc.Join("#irc"))
	})
	c.On(irc.KindPrivate, func(m *irc.Message) {
		log.Println(m.Source.Nick, m.PrivateContent())
	})
	if err := c.Open(); err != nil {
		log.Fatal(err)
	}

Commands written before registration completes are queued and flushed
once the server's welcome arrives. Inbound and outbound traffic can be
intercepted with AddInboundFilter and AddOutboundFilter; filters run
newest-first and may consume a message or command to stop it.

Encoding and decoding

The Message type marshals and unmarshals itself to and from a raw line
of IRC-formatted text. If you only want IRC parsing and encoding, you
can use this type alone:

	m := new(irc.Message)
	err := m.UnmarshalText([]byte(":WiZ!w@h PRIVMSG #irc :hello"))

Routing

For handler-per-event dispatch above the raw notifier surface, a Router
maps commands, wildcard text patterns, and CTCP queries to handlers;
attach one with Connection.UseRouter.
*/
package irc
