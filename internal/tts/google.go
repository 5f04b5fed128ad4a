package tts

import (
	"context"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/logger"
)

const defaultVoice = "th-TH-Standard-A"

type GoogleTTS struct {
	client *texttospeech.Client
	voice  string
	logger *logger.Log
}

// NewGoogleTTS uses cfg.CredentialsFile when set and falls back to the
// application default credentials otherwise.
func NewGoogleTTS(ctx context.Context, cfg config.TtsConfig) (*GoogleTTS, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google TTS client: %w", err)
	}

	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	return &GoogleTTS{client: client, voice: voice, logger: logger.New().With("tts", "google")}, nil
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text, emotion string) ([]byte, error) {
	req, err := buildRequest(g.voice, text, emotion)
	if err != nil {
		return nil, err
	}

	g.logger.With("voice", g.voice).With("emotion", emotion).Debug("Synthesizing briefing audio")

	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return nil, fmt.Errorf("empty audio content received from Google TTS")
	}
	return resp.AudioContent, nil
}

func buildRequest(voice, text, emotion string) (*ttspb.SynthesizeSpeechRequest, error) {
	clean := cleanText(text)
	if clean == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	d := DeliveryFor(emotion)
	return &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: clean},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: languageCode(voice),
			Name:         voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   ttspb.AudioEncoding_MP3,
			SpeakingRate:    d.SpeakingRate,
			Pitch:           d.Pitch,
			SampleRateHertz: 22050,
		},
	}, nil
}

func (g *GoogleTTS) Name() string {
	return "Google Cloud Text-to-Speech"
}

func (g *GoogleTTS) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
