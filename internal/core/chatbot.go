package core

import "strings"

const (
	// BotPrefix marks a message as a chatbot command.
	BotPrefix = "/bot"
	// BotName is the reserved sender name for chatbot replies.
	BotName = "Chatbot"
)

const botHelp = `Available commands:
/bot hello
/bot how are you
/bot what is your name
/bot bye
/bot help`

// Chatbot is a synchronous rule-based reply generator.
type Chatbot struct{}

// Reply produces the canned response for a /bot command.
func (Chatbot) Reply(message string) string {
	msg := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(message, BotPrefix)))

	switch {
	case containsAny(msg, "hi", "hello", "hey"):
		return "Hello 👋 How can I help you?"
	case containsAny(msg, "how are you", "how you doing"):
		return "I'm just code, but I'm running perfectly 😄"
	case containsAny(msg, "what's your name", "your name"):
		return "I'm your friendly chat assistant 🤖"
	case containsAny(msg, "bye", "goodbye"):
		return "Goodbye! 😊"
	case strings.Contains(msg, "help"):
		return botHelp
	default:
		return "🤖 Sorry, I didn't understand that. Try `/bot help`."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
