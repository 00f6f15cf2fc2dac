package omeife

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// speechServer serves the speech endpoint and the audio asset it points to.
func speechServer(t *testing.T, audio http.HandlerFunc) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/user/developer/text-to-speech", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q", got)
		}
		var payload speechRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if payload.Text != "Sannu Duniya" || payload.Language != "Hausa" {
			t.Errorf("payload = %+v", payload)
		}
		_, _ = io.WriteString(w, `{"data":{"audio_url":"`+srv.URL+`/audio/out.wav"}}`)
	})
	mux.HandleFunc("/audio/out.wav", audio)
	srv = httptest.NewServer(mux)
	return srv
}

func TestSynthesizeSuccess(t *testing.T) {
	wav := []byte("RIFF\x00\x00\x00\x00WAVEfmt ")
	srv := speechServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("audio download must not carry the API key")
		}
		_, _ = w.Write(wav)
	})
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "speech.wav")
	n, err := newTestClient(srv, "k").Synthesize(context.Background(), "Sannu Duniya", "Hausa", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(wav)) {
		t.Errorf("wrote %d bytes, want %d", n, len(wav))
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, wav) {
		t.Errorf("audio = %q, want %q", got, wav)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("expected only the audio file, found %d entries", len(entries))
	}
}

func TestSynthesizeDownloadFailureKeepsExistingFile(t *testing.T) {
	srv := speechServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "speech.wav")
	if err := os.WriteFile(out, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := newTestClient(srv, "k").Synthesize(context.Background(), "Sannu Duniya", "Hausa", out)
	if code := CodeOf(err); code != ErrorCodeDownload {
		t.Fatalf("code = %q, want %q (err: %v)", code, ErrorCodeDownload, err)
	}

	got, _ := os.ReadFile(out)
	if string(got) != "previous" {
		t.Errorf("existing file was overwritten: %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestSynthesizeRequestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "speech.wav")
	_, err := newTestClient(srv, "k").Synthesize(context.Background(), "Sannu Duniya", "Hausa", out)
	if code := CodeOf(err); code != ErrorCodeSynthesis {
		t.Fatalf("code = %q, want %q", code, ErrorCodeSynthesis)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("no file should be created, stat err = %v", err)
	}
}

func TestRequestSpeechMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "k").RequestSpeech(context.Background(), "hello", "Hausa")
	if code := CodeOf(err); code != ErrorCodeParse {
		t.Errorf("code = %q, want %q", code, ErrorCodeParse)
	}
}

func TestRequestSpeechEmptyText(t *testing.T) {
	c := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:0/"})
	if _, err := c.RequestSpeech(context.Background(), "", "Hausa"); CodeOf(err) != ErrorCodeParse {
		t.Errorf("code = %q, want %q", CodeOf(err), ErrorCodeParse)
	}
}

func TestDownloadAudioInvalidURL(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	out := filepath.Join(t.TempDir(), "a.wav")

	for _, u := range []string{"not a url", "ftp://example.com/a.wav", "/relative/a.wav"} {
		if _, err := c.DownloadAudio(context.Background(), u, out); CodeOf(err) != ErrorCodeDownload {
			t.Errorf("DownloadAudio(%q) code = %q, want %q", u, CodeOf(err), ErrorCodeDownload)
		}
	}
}

func TestDownloadAudioWriteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "audio")
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "missing-dir", "a.wav")
	_, err := newTestClient(srv, "k").DownloadAudio(context.Background(), srv.URL+"/a.wav", out)
	if code := CodeOf(err); code != ErrorCodeIO {
		t.Errorf("code = %q, want %q (err: %v)", code, ErrorCodeIO, err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestWriteAtomicReadFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "a.wav")
	src := io.MultiReader(strings.NewReader("partial"), failingReader{})

	if _, err := writeAtomic("test", out, src); CodeOf(err) != ErrorCodeDownload {
		t.Errorf("code = %q, want %q", CodeOf(err), ErrorCodeDownload)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial download left %d files behind", len(entries))
	}
}
