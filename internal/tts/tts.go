// Package tts turns coach text into speech for the audio morning briefing.
package tts

import (
	"context"
	"errors"
	"strings"
)

// ErrDisabled is returned when no speech backend is configured.
var ErrDisabled = errors.New("text-to-speech is not configured")

// Speaker renders text to MP3 audio. The emotion is the student's latest
// logged emotion and only tunes the delivery.
type Speaker interface {
	Synthesize(ctx context.Context, text, emotion string) ([]byte, error)
	Name() string
}

// Delivery is the speaking rate and pitch used for a briefing.
type Delivery struct {
	SpeakingRate float64
	Pitch        float64
}

// DeliveryFor picks how the coach should sound for a student feeling emotion.
// Low-energy moods get a slower, warmer voice; upbeat moods a livelier one.
func DeliveryFor(emotion string) Delivery {
	switch strings.ToLower(strings.TrimSpace(emotion)) {
	case "excited", "happy", "proud", "motivated":
		return Delivery{SpeakingRate: 1.10, Pitch: 2.0}
	case "curious":
		return Delivery{SpeakingRate: 1.05, Pitch: 1.0}
	case "stressed", "anxious", "frustrated":
		return Delivery{SpeakingRate: 0.90, Pitch: -1.0}
	case "sad", "tired":
		return Delivery{SpeakingRate: 0.85, Pitch: -2.0}
	case "bored", "confused":
		return Delivery{SpeakingRate: 0.95, Pitch: 1.0}
	case "calm":
		return Delivery{SpeakingRate: 0.95, Pitch: 0}
	default:
		return Delivery{SpeakingRate: 1.0, Pitch: 0}
	}
}

// cleanText strips markdown the coach tends to emit so it is not read aloud.
func cleanText(text string) string {
	r := strings.NewReplacer("*", "", "#", "", "_", " ", "[", "", "]", "", "`", "")
	return strings.TrimSpace(r.Replace(text))
}

// languageCode extracts the BCP-47 code from a voice name,
// e.g. "th-TH-Standard-A" -> "th-TH".
func languageCode(voice string) string {
	parts := strings.Split(voice, "-")
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "th-TH"
}
