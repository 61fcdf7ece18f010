package twilio

import (
	"context"
	"fmt"
)

// SpeechToText turns audio into text.
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}

// RecordingTranscriber downloads a call recording and transcribes it.
type RecordingTranscriber struct {
	recordings *Client
	speech     SpeechToText
}

func NewRecordingTranscriber(recordings *Client, speech SpeechToText) *RecordingTranscriber {
	return &RecordingTranscriber{
		recordings: recordings,
		speech:     speech,
	}
}

func (t *RecordingTranscriber) Transcribe(ctx context.Context, recordingURL string) (string, error) {
	recording, err := t.recordings.FetchRecording(ctx, recordingURL)
	if err != nil {
		return "", err
	}
	text, err := t.speech.Transcribe(ctx, recording.Audio, recording.Filename, recording.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe recording: %w", err)
	}
	return text, nil
}
