package irc_test

import (
	"log"

	irc "github.com/carverholt/ircsession"
)

// Hello, #world:
// The following code connects to an IRC server,
// waits for RPL_WELCOME,
// then requests to join a channel called #world,
// waits for the server to tell us that we've joined,
// then sends the message "Hello!" to #world,
// then disconnects with the message "Goodbye.".
func Example() {
	bot := irc.NewConnection(irc.Config{
		Enabled:  true,
		Host:     "irc.example.com",
		Port:     6697,
		Secure:   true,
		NickName: "HelloBot",
		UserName: "hellobot",
		RealName: "Hello Bot",
	})
	r := &irc.Router{}
	r.OnConnect(func(w irc.MessageWriter, m *irc.Message) {
		w.WriteMessage(irc.Join("#world"))
	})
	r.OnJoin(func(w irc.MessageWriter, m *irc.Message) {
		w.WriteMessage(irc.Msg("#world", "Hello!"))
		w.WriteMessage(irc.Quit("Goodbye."))
	}).MatchChan("#world").MatchClient(bot)
	bot.UseRouter(r)

	if err := bot.Open(); err != nil {
		log.Println(err)
		return
	}
	// block until the connection is closed
	bot.Wait()
}
