package tts

import (
	"context"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryFor(t *testing.T) {
	tests := []struct {
		emotion string
		want    Delivery
	}{
		{"happy", Delivery{SpeakingRate: 1.10, Pitch: 2.0}},
		{" Excited ", Delivery{SpeakingRate: 1.10, Pitch: 2.0}},
		{"tired", Delivery{SpeakingRate: 0.85, Pitch: -2.0}},
		{"anxious", Delivery{SpeakingRate: 0.90, Pitch: -1.0}},
		{"calm", Delivery{SpeakingRate: 0.95}},
		{"", Delivery{SpeakingRate: 1.0}},
		{"unknown", Delivery{SpeakingRate: 1.0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeliveryFor(tt.emotion), tt.emotion)
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest("th-TH-Standard-A", "**สวัสดี** [Ploy]", "sad")
	require.NoError(t, err)

	assert.Equal(t, "สวัสดี Ploy", req.GetInput().GetText())
	assert.Equal(t, "th-TH", req.GetVoice().GetLanguageCode())
	assert.Equal(t, "th-TH-Standard-A", req.GetVoice().GetName())
	assert.Equal(t, ttspb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
	assert.Equal(t, 0.85, req.GetAudioConfig().GetSpeakingRate())
	assert.Equal(t, -2.0, req.GetAudioConfig().GetPitch())

	_, err = buildRequest("en-US-Standard-C", " ** ", "")
	assert.Error(t, err)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "en-GB", languageCode("en-GB-Standard-D"))
	assert.Equal(t, "th-TH", languageCode("th-TH-Neural2-C"))
	assert.Equal(t, "th-TH", languageCode("voice"))
}

func TestDummy(t *testing.T) {
	_, err := NewDummyTts().Synthesize(context.Background(), "hi", "happy")
	assert.ErrorIs(t, err, ErrDisabled)
}
