package omeife

import (
	"context"
	"fmt"
)

type translateRequest struct {
	Text string `json:"text"`
	From string `json:"from"`
	To   string `json:"to"`
}

type translateResponse struct {
	Data *struct {
		TranslatedText *string `json:"translated_text"`
	} `json:"data"`
}

// Translate sends text to the translation endpoint and returns the
// translated text. No request is made when the client has no API key.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	const op = "translate"

	if err := c.checkKey(op); err != nil {
		return "", err
	}

	req := translateRequest{
		Text: text,
		From: c.sourceLanguage,
		To:   targetLanguage,
	}

	var resp translateResponse
	if err := c.postJSON(ctx, op, translatePath, req, &resp); err != nil {
		return "", err
	}

	if resp.Data == nil || resp.Data.TranslatedText == nil || *resp.Data.TranslatedText == "" {
		return "", newError(ErrorCodeParse, op, "no data.translated_text in response",
			fmt.Errorf("%w: data.translated_text", ErrMissingField))
	}

	return *resp.Data.TranslatedText, nil
}
