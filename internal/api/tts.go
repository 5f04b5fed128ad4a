package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tahcohcat/studyquest/internal/llm"
)

const audioTimeout = 30 * time.Second

type chatRequest struct {
	Message             string        `json:"message" validate:"max=4000"`
	ConversationHistory []llm.Message `json:"conversation_history" validate:"max=50"`
}

// POST /api/v1/coach/briefing
func (h *Handler) Briefing(w http.ResponseWriter, r *http.Request) {
	text, err := h.Coach.Briefing(r.Context(), userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": text})
}

// POST /api/v1/coach/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.decode(w, r, &req) {
		return
	}
	text, err := h.Coach.Chat(r.Context(), userID(r), req.ConversationHistory, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": text})
}

// POST /api/v1/coach/briefing/audio - Generate the morning briefing as MP3
func (h *Handler) BriefingAudio(w http.ResponseWriter, r *http.Request) {
	id := userID(r)

	text, err := h.Coach.Briefing(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// The latest emotion only tunes the voice; the briefing is still read
	// when there is none.
	emotion := ""
	if logs, err := h.Motivation.RecentEmotions(r.Context(), id, 1); err != nil {
		h.logger.WithError(err).Warn("Failed to load latest emotion")
	} else if len(logs) > 0 {
		emotion = logs[0].Emotion
	}

	ctx, cancel := context.WithTimeout(r.Context(), audioTimeout)
	defer cancel()

	audio, err := h.Speaker.Synthesize(ctx, text, emotion)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
