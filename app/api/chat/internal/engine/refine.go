package engine

import (
	"context"
	"strings"
	"unicode"

	"shopsage/app/api/chat/internal/engine/intent"
	"shopsage/app/api/chat/internal/engine/llm"
	"shopsage/app/api/chat/internal/engine/text"
)

// looksGarbled reports whether a message is a plausible typo-correction
// candidate. Correction is opt-in and narrow: short messages, repeated-letter
// runs, or stray non-letter noise. Long clean sentences are left alone so the
// model cannot rewrite intent.
func looksGarbled(message string) bool {
	words := strings.Fields(message)
	if len(words) == 0 {
		return false
	}
	if len(words) <= 3 {
		return true
	}

	run := 1
	var prev rune
	for _, r := range message {
		if r == prev && unicode.IsLetter(r) {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 1
		}
		prev = r
	}

	noise := 0
	for _, r := range message {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && !strings.ContainsRune(".,!?'-€$", r) {
			noise++
		}
	}
	return noise >= 3
}

// correct runs the typo-correction pass. It returns the corrected message and
// whether a meaningful correction happened. Any model failure or implausible
// output keeps the original.
func (e *Engine) correct(ctx context.Context, message string, lang intent.Language) (string, bool) {
	if !e.llm.Available() || !looksGarbled(message) {
		return message, false
	}

	system := "Fix obvious typos in the user message.\n" +
		"Keep the language (" + string(lang) + ") and the meaning.\n" +
		"Return ONLY the corrected message, nothing else.\n" +
		"If the message has no typos, return it unchanged."

	out, err := e.llm.Generate(ctx, llm.Request{
		System:      system,
		User:        message,
		Temperature: 0,
		MaxTokens:   80,
	})
	if err != nil {
		e.log.Errorf("typo correction failed, keeping original: %v", err)
		return message, false
	}

	corrected := strings.Trim(strings.TrimSpace(out), `"`)
	if corrected == "" || strings.ContainsRune(corrected, '\n') {
		return message, false
	}
	// Drift guards: a correction may not balloon or collapse the message.
	if len(corrected) > 2*len(message)+10 || len(corrected)*2 < len(message) {
		return message, false
	}
	if text.Normalize(corrected) == text.Normalize(message) {
		return message, false
	}
	return corrected, true
}

// translate produces the English search text for a non-English message. The
// catalog is English, so retrieval quality depends on this pass; on failure
// the original text is searched as-is.
func (e *Engine) translate(ctx context.Context, message string, lang intent.Language) string {
	if lang == intent.LangEnglish || !e.llm.Available() {
		return message
	}

	system := "Translate the user message to English for a product search.\n" +
		"Return ONLY the translation, nothing else."

	out, err := e.llm.Generate(ctx, llm.Request{
		System:      system,
		User:        message,
		Temperature: 0,
		MaxTokens:   80,
	})
	if err != nil {
		e.log.Errorf("translation failed, searching original text: %v", err)
		return message
	}

	translated := strings.Trim(strings.TrimSpace(out), `"`)
	if translated == "" || strings.ContainsRune(translated, '\n') || len(translated) > 3*len(message)+20 {
		return message
	}
	return translated
}
