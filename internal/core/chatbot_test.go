package core

import (
	"strings"
	"testing"
)

func TestChatbotReply(t *testing.T) {
	var bot Chatbot

	cases := []struct {
		in   string
		want string
	}{
		{"/bot hello", "Hello 👋 How can I help you?"},
		{"/bot Hey there", "Hello 👋 How can I help you?"},
		{"/bot how are you?", "I'm just code, but I'm running perfectly 😄"},
		{"/bot what's your name", "I'm your friendly chat assistant 🤖"},
		{"/bot bye", "Goodbye! 😊"},
		{"/bot gibberish", "🤖 Sorry, I didn't understand that. Try `/bot help`."},
	}
	for _, tc := range cases {
		if got := bot.Reply(tc.in); got != tc.want {
			t.Errorf("Reply(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChatbotHelpListsCommands(t *testing.T) {
	var bot Chatbot

	got := bot.Reply("/bot help")
	for _, cmd := range []string{"/bot hello", "/bot how are you", "/bot bye", "/bot help"} {
		if !strings.Contains(got, cmd) {
			t.Errorf("help reply missing %q:\n%s", cmd, got)
		}
	}
}
