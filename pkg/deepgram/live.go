package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// LiveTranscription is a websocket connection to /v1/listen. Audio frames go
// out, finalized transcripts come back on Transcripts.
type LiveTranscription struct {
	conn *websocket.Conn

	transcripts chan string
	closeOnce   sync.Once

	mu sync.Mutex // guards writes; gorilla allows one concurrent writer
}

type listenResponse struct {
	IsFinal bool `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// NewLive opens a live transcription stream for 16kHz linear PCM.
func (c *Client) NewLive(ctx context.Context) (*LiveTranscription, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1)
	endpoint := fmt.Sprintf(
		"%s/v1/listen?model=%s&encoding=linear16&sample_rate=16000",
		wsURL, url.QueryEscape(c.sttModel),
	)

	header := http.Header{}
	header.Set("Authorization", "Token "+c.apiKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("dial deepgram listen: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	lt := &LiveTranscription{
		conn:        conn,
		transcripts: make(chan string, 16),
	}
	go lt.readLoop()
	return lt, nil
}

// SendAudio forwards one PCM frame upstream.
func (lt *LiveTranscription) SendAudio(frame []byte) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return lt.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// Transcripts delivers finalized utterances. The channel closes when the
// upstream connection does.
func (lt *LiveTranscription) Transcripts() <-chan string {
	return lt.transcripts
}

func (lt *LiveTranscription) Close() error {
	var err error
	lt.closeOnce.Do(func() {
		err = lt.conn.Close()
	})
	return err
}

func (lt *LiveTranscription) readLoop() {
	defer close(lt.transcripts)
	for {
		_, raw, err := lt.conn.ReadMessage()
		if err != nil {
			return
		}

		var parsed listenResponse
		if err := json.Unmarshal(raw, &parsed); err != nil {
			continue
		}
		if !parsed.IsFinal || len(parsed.Channel.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(parsed.Channel.Alternatives[0].Transcript); text != "" {
			lt.transcripts <- text
		}
	}
}
