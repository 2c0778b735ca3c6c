package ai

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Transcribe converts an uploaded audio payload into English text using the
// configured speech-to-text model. filename only supplies the extension the
// provider uses to sniff the container format.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.STTModel,
		Reader:   audio,
		FilePath: filename,
		Language: "en",
	})
	if err != nil {
		return "", upstream("transcription", err)
	}
	return resp.Text, nil
}

// Synthesize converts assistant text into spoken audio (mp3 bytes).
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(c.cfg.TTSModel),
		Voice: openai.SpeechVoice(c.cfg.TTSVoice),
		Input: text,
	})
	if err != nil {
		return nil, upstream("speech", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, upstream("speech", err)
	}
	return audio, nil
}
