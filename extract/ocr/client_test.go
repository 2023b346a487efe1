package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paddockpal/paddock/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService simulates the OCR service endpoints: token exchange, asset
// upload, job creation, status polling, and result download.
type fakeService struct {
	mux           *http.ServeMux
	server        *httptest.Server
	pollsUntilDone int32
	polls         atomic.Int32
	jobOutcome    JobStatus
	uploaded      atomic.Int32
}

func newFakeService(t *testing.T, pollsUntilDone int32, outcome JobStatus) *fakeService {
	t.Helper()
	f := &fakeService{pollsUntilDone: pollsUntilDone, jobOutcome: outcome}
	f.mux = http.NewServeMux()
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("client_id") != "id" || r.FormValue("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})

	f.mux.HandleFunc("POST /assets", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"uploadUri": f.server.URL + "/upload",
			"assetID":   "asset-1",
		})
	})

	f.mux.HandleFunc("PUT /upload", func(w http.ResponseWriter, r *http.Request) {
		f.uploaded.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	f.mux.HandleFunc("POST /operation/extractpdf", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Location", f.server.URL+"/job/1")
		w.WriteHeader(http.StatusCreated)
	})

	f.mux.HandleFunc("GET /job/1", func(w http.ResponseWriter, r *http.Request) {
		n := f.polls.Add(1)
		if n < f.pollsUntilDone {
			json.NewEncoder(w).Encode(map[string]any{"status": string(StatusInProgress)})
			return
		}
		if f.jobOutcome == StatusFailed {
			json.NewEncoder(w).Encode(map[string]any{"status": string(StatusFailed)})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":  string(StatusDone),
			"content": map[string]string{"downloadUri": f.server.URL + "/result"},
		})
	})

	f.mux.HandleFunc("GET /result", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"elements":[
			{"Path":"//Document/Title","Text":"2024 Sporting Regulations"},
			{"Path":"//Document/P[1]","Text":"Article 1: General principles"},
			{"Path":"//Document/Figure[1]"},
			{"Path":"//Document/P[2]","Text":"Article 2: Licences"}
		]}`)
	})

	return f
}

func newTestClient(t *testing.T, f *fakeService, maxAttempts int) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:      f.server.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		PollInterval: time.Millisecond,
		MaxAttempts:  maxAttempts,
	})
	require.NoError(t, err)
	return client
}

func TestExtractSuccess(t *testing.T) {
	f := newFakeService(t, 3, StatusDone)
	client := newTestClient(t, f, 10)

	text, err := client.Extract(context.Background(), "sporting/doc.pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t,
		"2024 Sporting Regulations\nArticle 1: General principles\nArticle 2: Licences",
		text)
	assert.Equal(t, int32(1), f.uploaded.Load(), "document bytes uploaded once")
	assert.Equal(t, int32(3), f.polls.Load())
}

func TestExtractJobFailed(t *testing.T) {
	f := newFakeService(t, 2, StatusFailed)
	client := newTestClient(t, f, 10)

	_, err := client.Extract(context.Background(), "sporting/doc.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, core.ErrExtractionFailed)
}

func TestExtractPollingTimeout(t *testing.T) {
	// Job never finishes; the attempt budget must end the wait.
	f := newFakeService(t, 1000, StatusDone)
	client := newTestClient(t, f, 4)

	_, err := client.Extract(context.Background(), "sporting/doc.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Equal(t, int32(4), f.polls.Load(), "stops exactly at the attempt budget")
}

func TestExtractContextCancelled(t *testing.T) {
	f := newFakeService(t, 1000, StatusDone)
	client := newTestClient(t, f, 1000)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Extract(ctx, "sporting/doc.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExtractBadCredentials(t *testing.T) {
	f := newFakeService(t, 1, StatusDone)
	client, err := New(Config{
		BaseURL:      f.server.URL,
		ClientID:     "id",
		ClientSecret: "wrong",
		PollInterval: time.Millisecond,
		MaxAttempts:  2,
	})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), "sporting/doc.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{ClientID: "id", ClientSecret: "s"})
	assert.ErrorIs(t, err, core.ErrConfiguration)

	_, err = New(Config{BaseURL: "https://ocr.example.io"})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestJobStatusTerminal(t *testing.T) {
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusQueued.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}

func TestDecodeResult(t *testing.T) {
	t.Run("skips empty elements", func(t *testing.T) {
		text, err := decodeResult([]byte(`{"elements":[{"Text":"a"},{"Text":""},{"Text":"b"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "a\nb", text)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := decodeResult([]byte(`{`))
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
	})

	t.Run("no text", func(t *testing.T) {
		_, err := decodeResult([]byte(`{"elements":[{"Path":"//Figure"}]}`))
		assert.ErrorIs(t, err, core.ErrExtractionFailed)
	})
}
