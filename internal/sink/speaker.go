package sink

import (
	"context"
	"fmt"
	"os"
)

// SpeakFunc voices a message; the host wires its TTS pipeline in here
type SpeakFunc func(ctx context.Context, text string) error

// SpeakerSink voices announcements. Without a SpeakFunc it writes to
// stdout, which is what the text-only chat mode uses.
type SpeakerSink struct {
	speak SpeakFunc
}

func NewSpeakerSink(speak SpeakFunc) *SpeakerSink {
	return &SpeakerSink{speak: speak}
}

func (s *SpeakerSink) Name() string { return "speaker" }

func (s *SpeakerSink) Announce(ctx context.Context, a Announcement) error {
	if s.speak != nil {
		return s.speak(ctx, a.Message)
	}
	_, err := fmt.Fprintln(os.Stdout, a.Message)
	return err
}
