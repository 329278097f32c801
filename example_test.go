package irc_test

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"

	irc "github.com/carverholt/ircsession"
	"github.com/carverholt/ircsession/ircdebug"
)

func ExampleConfig_dialFn() {
	c := irc.NewConnection(irc.Config{
		Enabled:  true,
		NickName: "WiZ",
		UserName: "wiz",
		RealName: "WiZ",
		Host:     "irc.example.com",
		DialFn: func() (io.ReadWriteCloser, error) {
			return net.Dial("tcp", "irc.example.com:6667")
		},
	})
	_ = c
}

func ExampleConfig_dialFnDecorated() {
	c := irc.NewConnection(irc.Config{
		Enabled:  true,
		NickName: "WiZ",
		UserName: "wiz",
		RealName: "WiZ",
		Host:     "irc.example.com",
		DialFn: func() (io.ReadWriteCloser, error) {
			conn, err := net.Dial("tcp", "irc.example.com:6667")
			return ircdebug.WriteTo(os.Stdout, conn, "-> ", "<- "), err
		},
	})
	_ = c
}

// This example demonstrates why using the Get method of a Params type is preferable to accessing its slice index directly.
// Note the parsing behavior around missing and empty params.
// The parser only interprets syntax without understanding the semantics of a PART command.
// In other words, it does not know how many parameters a PART command has.
// Similarly, functions which interpret a PART command don't care about the protocol syntax difference between omitting a parameter or leaving it empty:
// in both cases they would only care about checking if the second param is equal to empty string.
func ExampleParams_get() {

	lines := []struct {
		raw         string
		description string
	}{{
		raw:         ":WiZ PART #foo",
		description: "PART with omitted reason",
	}, {
		raw:         ":WiZ PART #foo :",
		description: "PART with empty reason",
	}, {
		raw:         ":WiZ PART #foo :leaving now",
		description: `PART with reason "leaving now"`,
	},
	}

	m := &irc.Message{}
	for _, line := range lines {
		err := m.UnmarshalText([]byte(line.raw))
		if err != nil {
			log.Println(err)
		}
		fmt.Printf("%s:\n", line.description)
		fmt.Printf("parsed: %#v\n", m.Params)
		fmt.Printf("get 1,2: %q, %q\n", m.Params.Get(1), m.Params.Get(2))
	}
	// Output:
	// PART with omitted reason:
	// parsed: irc.Params{"#foo"}
	// get 1,2: "#foo", ""
	// PART with empty reason:
	// parsed: irc.Params{"#foo", ""}
	// get 1,2: "#foo", ""
	// PART with reason "leaving now":
	// parsed: irc.Params{"#foo", "leaving now"}
	// get 1,2: "#foo", "leaving now"

}

// The Message returned by NewMessage does not have any tags set.
// This also includes the Message returned by the Msg, Notice, and other related functions.
//
// To attach tags for an outgoing message, simply access the Tags field and call the Set method before passing the message to a MessageWriter.
func ExampleNewMessage_attachingTags() {
	response := irc.Msg("#somechannel", "hello!")
	response.Tags.Set("msgid", "63E1033A051D4B41B1AB1FA3CF4B243E")
}

// Reconnecting after an unexpected disconnect is built into the
// Connection: a nonzero ReconnectDelaySeconds re-dials that many
// seconds after any disconnect that wasn't preceded by our own QUIT.
func ExampleConnection_reconnect() {
	c := irc.NewConnection(irc.Config{
		Enabled:               true,
		Host:                  "irc.example.com",
		NickName:              "HelloBot",
		UserName:              "hellobot",
		RealName:              "Hello Bot",
		ReconnectDelaySeconds: 30,
	})
	c.OnStatusChange(func(s irc.ConnectionStatus) {
		log.Println("status:", s)
	})
	if err := c.Open(); err != nil {
		log.Fatal(err)
	}
}
