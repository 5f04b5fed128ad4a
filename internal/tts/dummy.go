package tts

import (
	"context"

	"github.com/tahcohcat/studyquest/internal/logger"
)

type DummyTts struct{}

func NewDummyTts() *DummyTts {
	return &DummyTts{}
}

func (d *DummyTts) Synthesize(context.Context, string, string) ([]byte, error) {
	logger.New().Debug("no tts configured. ignoring TTS request")
	return nil, ErrDisabled
}

func (d *DummyTts) Name() string {
	return "dummy"
}
