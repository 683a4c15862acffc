package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const voiceAttempts = 3

// ProcessVoice uploads a WAV recording for transcription and
// evaluation. Transport failures are retried up to three times with a
// pause between attempts; server-side failures are returned as-is
// since resending the same audio will not change the verdict.
func (c *Client) ProcessVoice(ctx context.Context, wav []byte, question string) (VoiceResult, error) {
	if len(wav) == 0 {
		return VoiceResult{}, &ValidationError{Field: "audio", Reason: "recording is empty"}
	}

	var lastErr error
	for attempt := 1; attempt <= voiceAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return VoiceResult{}, ctx.Err()
			case <-time.After(c.retryWait):
			}
		}

		result, err := c.uploadVoice(ctx, wav, question)
		if err == nil {
			return result, nil
		}

		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			return VoiceResult{}, err
		}

		c.logger.Warn("voice upload failed", "attempt", attempt, "error", err)
		lastErr = err
	}

	return VoiceResult{}, fmt.Errorf("process voice: %d attempts failed: %w", voiceAttempts, lastErr)
}

func (c *Client) uploadVoice(ctx context.Context, wav []byte, question string) (VoiceResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "answer.wav")
	if err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: build form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: build form: %w", err)
	}
	if err := writer.WriteField("question", question); err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: build form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process-voice", &buf)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VoiceResult{}, &RequestError{Op: "process voice", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return VoiceResult{}, &RequestError{Op: "process voice", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return VoiceResult{}, &StatusError{Op: "process voice", StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	var result VoiceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return VoiceResult{}, fmt.Errorf("process voice: decode response: %w", err)
	}
	return result, nil
}
