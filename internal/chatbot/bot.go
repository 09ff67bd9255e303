package chatbot

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reply is the bot's answer to one message.
type Reply struct {
	Topic Topic
	Text  string
}

// Bot answers visitor questions from the static knowledge base.
type Bot struct {
	pick func(n int) int
}

// Option configures a Bot.
type Option func(*Bot)

// WithPicker replaces the random response picker. pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(b *Bot) {
		if pick != nil {
			b.pick = pick
		}
	}
}

func NewBot(opts ...Option) *Bot {
	b := &Bot{pick: rand.IntN}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Reply classifies message and picks one of the topic's responses.
func (b *Bot) Reply(message string) Reply {
	topic := Classify(message)
	options := responses[topic]
	idx := b.pick(len(options))
	if idx < 0 || idx >= len(options) {
		idx = 0
	}
	return Reply{Topic: topic, Text: options[idx]}
}

// Classify returns the first topic whose terms appear in message as whole words.
func Classify(message string) Topic {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, term := range r.terms {
			if containsTerm(lower, term) {
				return r.topic
			}
		}
	}
	return TopicFallback
}

// containsTerm reports whether term occurs in s bounded by non-word runes,
// so "hi" does not match inside "this" and "ai" not inside "email".
func containsTerm(s, term string) bool {
	for offset := 0; offset <= len(s)-len(term); {
		idx := strings.Index(s[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if wordBoundaryBefore(s, start) {
			if wordBoundaryAfter(s, end) {
				return true
			}
			// Plurals of longer terms ("websites", "quotes") still match.
			if len(term) > 2 && strings.HasPrefix(s[end:], "s") && wordBoundaryAfter(s, end+1) {
				return true
			}
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func wordBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
