package speech

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pharmachat/pharmachat/internal/api"
)

// maxAudioUpload caps transcription uploads at 25 MB, the provider's own
// file size limit.
const maxAudioUpload = 25 << 20

// Transcriber converts spoken audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Handler exposes speech-to-text and text-to-speech endpoints. Both are thin
// passthroughs to the provider; no audio is persisted server-side.
type Handler struct {
	transcriber Transcriber
	synthesizer Synthesizer
}

func NewHandler(transcriber Transcriber, synthesizer Synthesizer) *Handler {
	return &Handler{transcriber: transcriber, synthesizer: synthesizer}
}

// Transcribe handles POST /speech/transcriptions. Expects a multipart form
// with the recording under the "audio" field and responds with the
// transcribed text as JSON.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)

	file, header, err := r.FormFile("audio")
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("missing audio file"))
		return
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		slog.Error("transcription failed", "error", err, "filename", header.Filename)
		api.HandleError(w, api.ErrUpstream)
		return
	}

	api.JSON(w, http.StatusOK, transcriptionResponse{Text: text})
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

type synthesisRequest struct {
	Text string `json:"text"`
}

// Synthesize handles POST /speech/speech. Takes {"text": ...} and responds
// with the rendered mp3 bytes.
func (h *Handler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.HandleError(w, api.NewBadRequestError("text is required"))
		return
	}

	audio, err := h.synthesizer.Synthesize(r.Context(), req.Text)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err)
		api.HandleError(w, api.ErrUpstream)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		slog.Error("writing audio response", "error", err)
	}
}
