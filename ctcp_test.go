package irc

import "testing"

func TestParseCTCP(t *testing.T) {
	tt := []struct {
		body       string
		subcommand string
		arg        string
		ok         bool
	}{
		{"\x01VERSION\x01", "VERSION", "", true},
		{"\x01PING 12345\x01", "PING", "12345", true},
		{"\x01ACTION slaps bob\x01", "ACTION", "slaps bob", true},
		{"\x01PING no trailing delimiter", "PING", "no trailing delimiter", true},
		{"plain text", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range tt {
		sub, arg, ok := parseCTCP(tc.body)
		if sub != tc.subcommand || arg != tc.arg || ok != tc.ok {
			t.Errorf("parseCTCP(%q) = %q, %q, %v; want %q, %q, %v",
				tc.body, sub, arg, ok, tc.subcommand, tc.arg, tc.ok)
		}
	}
}

func TestDefaultCTCPReply(t *testing.T) {
	if reply, ok := defaultCTCPReply("PING", "12345"); !ok || reply != "12345" {
		t.Errorf("PING reply = %q, %v; want the payload echoed", reply, ok)
	}
	if reply, ok := defaultCTCPReply("CLIENTINFO", ""); !ok || reply != "PING SOURCE TIME VERSION" {
		t.Errorf("CLIENTINFO reply = %q, %v", reply, ok)
	}
	if reply, ok := defaultCTCPReply("VERSION", ""); !ok || reply != LibraryName+" "+LibraryVersion {
		t.Errorf("VERSION reply = %q, %v", reply, ok)
	}
	if reply, ok := defaultCTCPReply("TIME", ""); !ok || reply == "" {
		t.Errorf("TIME reply = %q, %v; want any non-empty local time", reply, ok)
	}
	if reply, ok := defaultCTCPReply("ERRMSG", "oops"); !ok || reply != "No error: oops" {
		t.Errorf("ERRMSG reply = %q, %v", reply, ok)
	}
	if _, ok := defaultCTCPReply("DCC", "SEND"); ok {
		t.Error("unknown CTCP subcommands must yield no reply")
	}
}
