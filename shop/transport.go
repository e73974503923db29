package shop

import tele "gopkg.in/telebot.v4"

// Transport renders all outbound effects of one inbound event. It is scoped
// to the event's chat: Send posts a new message, Edit rewrites the message
// the event's callback button was attached to, and Answer acknowledges the
// callback query (a no-op for non-callback events).
type Transport interface {
	Send(text string, markup *tele.ReplyMarkup) error
	Edit(text string, markup *tele.ReplyMarkup) error
	Answer(text string) error
}
