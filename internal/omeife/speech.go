package omeife

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type speechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type speechResponse struct {
	Data *struct {
		AudioURL string `json:"audio_url"`
	} `json:"data"`
}

// RequestSpeech asks the speech endpoint to synthesize text and returns the
// URL of the generated audio asset.
func (c *Client) RequestSpeech(ctx context.Context, text, language string) (string, error) {
	const op = "text-to-speech"

	if err := c.checkKey(op); err != nil {
		return "", err
	}
	if text == "" {
		return "", newError(ErrorCodeParse, op, "nothing to synthesize", ErrEmptyText)
	}

	var resp speechResponse
	req := speechRequest{Text: text, Language: language}
	if err := c.postJSON(ctx, op, speechPath, req, &resp); err != nil {
		return "", err
	}

	if resp.Data == nil || strings.TrimSpace(resp.Data.AudioURL) == "" {
		return "", newError(ErrorCodeParse, op, "no data.audio_url in response",
			fmt.Errorf("%w: data.audio_url", ErrMissingField))
	}
	return strings.TrimSpace(resp.Data.AudioURL), nil
}

// DownloadAudio fetches audioURL with a plain GET and writes the body to
// savePath. The body is first written to a temporary file next to savePath
// and renamed into place once complete, so a failed download never leaves a
// partial file or clobbers an existing one. It returns the number of bytes
// written.
func (c *Client) DownloadAudio(ctx context.Context, audioURL, savePath string) (int64, error) {
	const op = "download audio"

	u, err := url.Parse(audioURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		if err == nil {
			err = fmt.Errorf("%q is not an http(s) URL", audioURL)
		}
		return 0, newError(ErrorCodeDownload, op, "invalid audio URL", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, newError(ErrorCodeDownload, op, "rate limit wait cancelled", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, newError(ErrorCodeDownload, op, "create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, newError(ErrorCodeDownload, op, "http request", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return 0, newError(ErrorCodeDownload, op, "audio server error", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		})
	}

	return writeAtomic(op, savePath, resp.Body)
}

// Synthesize requests speech for text and downloads the resulting audio to
// savePath. Failures of the speech request are reported with
// ErrorCodeSynthesis; download and write failures keep their own codes.
func (c *Client) Synthesize(ctx context.Context, text, language, savePath string) (int64, error) {
	audioURL, err := c.RequestSpeech(ctx, text, language)
	if err != nil {
		if CodeOf(err) == ErrorCodeCredentialMissing {
			return 0, err
		}
		return 0, newError(ErrorCodeSynthesis, "synthesize", "speech request failed", err)
	}
	return c.DownloadAudio(ctx, audioURL, savePath)
}

// readErrReader remembers the last read error so copy failures can be
// attributed to the network rather than the disk.
type readErrReader struct {
	r   io.Reader
	err error
}

func (r *readErrReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = err
	}
	return n, err
}

// writeAtomic copies src into a temporary file in the directory of path and
// renames it to path on success.
func writeAtomic(op, path string, src io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, newError(ErrorCodeIO, op, "create temp file", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	body := &readErrReader{r: src}
	n, err := io.Copy(tmp, body)
	if err != nil {
		if body.err != nil {
			return 0, newError(ErrorCodeDownload, op, "read audio body", err)
		}
		return 0, newError(ErrorCodeIO, op, "write audio file", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, newError(ErrorCodeIO, op, "sync audio file", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, newError(ErrorCodeIO, op, "close audio file", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, newError(ErrorCodeIO, op, "chmod audio file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return 0, newError(ErrorCodeIO, op, "rename audio file", err)
	}
	committed = true
	return n, nil
}
