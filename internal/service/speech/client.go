package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ModelClient talks to the speech-synthesis model over its streaming
// websocket endpoint. One request per connection; audio arrives as
// base64-encoded frames and a negative sequence marks the final one.
type ModelClient struct {
	endpoint string
	voice    string
	dialer   *websocket.Dialer
}

// NewModelClient builds a client for the configured endpoint.
func NewModelClient(endpoint, voice string) *ModelClient {
	return &ModelClient{
		endpoint: endpoint,
		voice:    voice,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

type synthesisRequest struct {
	ReqID      string `json:"reqid"`
	Text       string `json:"text"`
	Voice      string `json:"voice,omitempty"`
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
}

type synthesisFrame struct {
	ReqID    string `json:"reqid"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Sequence int    `json:"sequence"`
	Data     string `json:"data"`
}

// Synthesize renders the text to wav bytes via the model endpoint.
func (c *ModelClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("synthesis text is empty")
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("failed to connect to speech endpoint: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	request := synthesisRequest{
		ReqID:      uuid.NewString(),
		Text:       text,
		Voice:      c.voice,
		Format:     "wav",
		SampleRate: 22050,
	}
	if err := conn.WriteJSON(request); err != nil {
		return nil, fmt.Errorf("failed to send synthesis request: %w", err)
	}

	var audio bytes.Buffer
	for {
		var frame synthesisFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return nil, fmt.Errorf("failed to read synthesis frame: %w", err)
		}

		if frame.Code != 0 {
			return nil, fmt.Errorf("speech model returned code %d: %s", frame.Code, frame.Message)
		}

		if frame.Data != "" {
			chunk, err := base64.StdEncoding.DecodeString(frame.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode audio frame: %w", err)
			}
			audio.Write(chunk)
		}

		if frame.Sequence < 0 {
			break
		}
	}

	if audio.Len() == 0 {
		return nil, errors.New("speech model returned no audio")
	}

	return audio.Bytes(), nil
}
