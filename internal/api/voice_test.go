package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessVoiceRejectsEmptyRecording(t *testing.T) {
	client, _ := newTestClient(t, http.NotFoundHandler())

	_, err := client.ProcessVoice(context.Background(), nil, "q")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "audio", verr.Field)
}

func TestProcessVoiceUploadsMultipartForm(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/process-voice", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "What is recursion?", r.FormValue("question"))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "answer.wav", header.Filename)

		json.NewEncoder(w).Encode(VoiceResult{
			Success:    true,
			Transcript: "recursion is a function calling itself",
		})
	}))

	result, err := client.ProcessVoice(context.Background(), []byte("RIFFdata"), "What is recursion?")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "recursion is a function calling itself", result.Transcript)
}

func TestProcessVoiceRetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode(VoiceResult{Success: true, Transcript: "third time lucky"})
	}))

	result, err := client.ProcessVoice(context.Background(), []byte("RIFFdata"), "q")
	require.NoError(t, err)
	require.Equal(t, "third time lucky", result.Transcript)
	require.Equal(t, int32(3), calls.Load())
}

func TestProcessVoiceDoesNotRetryServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "No audio file provided"})
	}))

	_, err := client.ProcessVoice(context.Background(), []byte("RIFFdata"), "q")

	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "No audio file provided", serr.Message)
	require.Equal(t, int32(1), calls.Load())
}

func TestProcessVoiceGivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, _, err := hj.Hijack()
		require.NoError(t, err)
		conn.Close()
	}))

	_, err := client.ProcessVoice(context.Background(), []byte("RIFFdata"), "q")
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}
