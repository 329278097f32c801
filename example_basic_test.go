package irc_test

import (
	"fmt"
	"log"
	"strings"

	irc "github.com/carverholt/ircsession"
)

const myName = "HelloBot"

// myHandler reacts to messages at the protocol level.
//
// On connection success (001), it joins #MyChannel.
//
// On join events, it checks if the joining nickname matched myName and the channel matched #MyChannel
// before sending an introduction.
//
// On privmsg events check if the message target matched our name (indicating a query/DM) and the first
// word begins with "Hello" before responding with "hey there!".
func myHandler(w irc.MessageWriter, m *irc.Message) {
	switch m.Command {
	case "001":
		w.WriteMessage(rawLine("JOIN #MyChannel"))
	case "JOIN":
		if !m.Source.Nick.Is(myName) {
			return
		}
		if !strings.EqualFold("#MyChannel", m.Params.Get(1)) {
			return
		}

		w.WriteMessage(rawLine("PRIVMSG #MyChannel :Hello everybody, my name is " + myName))
	case "PRIVMSG":
		if m.Params.Get(1) == myName {
			if msgBody := m.Params.Get(2); strings.HasPrefix(msgBody, "Hello") {
				w.WriteMessage(rawLine(fmt.Sprintf("PRIVMSG %s :hey there!", m.Source.Nick)))
			}
		}
	}
}

// rawLine is an IRC-formatted message.
type rawLine string

// MarshalText implements encoding.TextMarshaler, which
// is used by irc.MessageWriter.
func (l rawLine) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

// The simplest possible implementation of a message handler: a single
// function fed every message, writing raw protocol lines back. The code
// should be considered a "messy" implementation, but demonstrates how
// easy it is to get down to the protocol level, if desired.
func Example_simple() {
	bot := irc.NewConnection(irc.Config{
		Enabled:  true,
		Host:     "irc.example.com",
		Port:     6697,
		Secure:   true,
		NickName: myName,
		UserName: "hellobot",
		RealName: myName,
	})
	bot.OnMessage(func(m *irc.Message) {
		myHandler(bot, m)
	})

	if err := bot.Open(); err != nil {
		log.Fatal(err)
	}
	bot.Wait()
}
