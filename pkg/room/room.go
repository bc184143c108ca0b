// Package room is the websocket client for the media/session host. It joins
// a room, waits for the participant, pushes utterances out, and surfaces
// transcripts — either from host transcript events or, with a transcriber
// attached, by feeding inbound participant audio through a live
// speech-to-text stream.
package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type Option func(*Session)

// WithSynthesizer makes Say ship synthesized audio alongside the utterance
// text, for hosts that do not run their own TTS.
func WithSynthesizer(tts contractx.Synthesizer) Option {
	return func(s *Session) {
		s.tts = tts
	}
}

// TranscriberOpener opens one live speech-to-text stream per connection.
type TranscriberOpener func(ctx context.Context) (contractx.Transcriber, error)

// WithTranscriber makes the session transcribe inbound participant audio
// frames itself. Host "transcript" events are ignored while a transcriber is
// attached, so each utterance is delivered exactly once.
func WithTranscriber(open TranscriberOpener) Option {
	return func(s *Session) {
		s.openSTT = open
	}
}

// Session implements contract.SessionHost over a websocket signaling
// channel.
type Session struct {
	roomURL string
	token   string
	timeout time.Duration
	tts     contractx.Synthesizer
	openSTT TranscriberOpener

	conn         *websocket.Conn
	stt          contractx.Transcriber
	participants chan contractx.Participant
	transcripts  chan string

	writeMu   sync.Mutex
	closeOnce sync.Once
}

type envelope struct {
	Type        string                 `json:"type"`
	Subscribe   string                 `json:"subscribe,omitempty"`
	Participant *contractx.Participant `json:"participant,omitempty"`
	Text        string                 `json:"text,omitempty"`
}

func NewSession(cfg Config, opts ...Option) (*Session, error) {
	roomURL := strings.TrimSpace(cfg.URL)
	if roomURL == "" {
		return nil, errors.New("room url is required")
	}
	if _, err := url.ParseRequestURI(roomURL); err != nil {
		return nil, fmt.Errorf("invalid room url: %w", err)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("room token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Session{
		roomURL:      roomURL,
		token:        strings.TrimSpace(cfg.Token),
		timeout:      timeout,
		participants: make(chan contractx.Participant, 1),
		transcripts:  make(chan string, 16),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Session) Connect(ctx context.Context, mode contractx.SubscribeMode) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)

	dialer := websocket.Dialer{HandshakeTimeout: s.timeout}
	conn, resp, err := dialer.DialContext(ctx, s.roomURL, header)
	if err != nil {
		return fmt.Errorf("dial room: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	s.conn = conn

	if s.openSTT != nil {
		stt, err := s.openSTT(ctx)
		if err != nil {
			s.conn.Close()
			return fmt.Errorf("open transcription stream: %w", err)
		}
		s.stt = stt
	}

	if err := s.send(envelope{Type: "join", Subscribe: string(mode)}); err != nil {
		if s.stt != nil {
			s.stt.Close()
		}
		s.conn.Close()
		return fmt.Errorf("join room: %w", err)
	}

	if s.stt != nil {
		go s.forwardTranscripts()
	}
	go s.readLoop()
	return nil
}

func (s *Session) WaitForParticipant(ctx context.Context) (contractx.Participant, error) {
	select {
	case <-ctx.Done():
		return contractx.Participant{}, ctx.Err()
	case p, ok := <-s.participants:
		if !ok {
			return contractx.Participant{}, errors.New("room closed before a participant joined")
		}
		return p, nil
	}
}

// Say publishes an utterance. With a synthesizer attached, the audio frame
// follows the text event on the same connection.
func (s *Session) Say(ctx context.Context, text string) error {
	if s.conn == nil {
		return errors.New("room session is not connected")
	}

	if err := s.send(envelope{Type: "say", Text: text}); err != nil {
		return fmt.Errorf("send utterance: %w", err)
	}

	if s.tts != nil {
		audio, err := s.tts.Synthesize(ctx, text)
		if err != nil {
			return fmt.Errorf("synthesize utterance: %w", err)
		}
		s.writeMu.Lock()
		err = s.conn.WriteMessage(websocket.BinaryMessage, audio)
		s.writeMu.Unlock()
		if err != nil {
			return fmt.Errorf("send audio frame: %w", err)
		}
	}
	return nil
}

func (s *Session) Transcripts() <-chan string {
	return s.transcripts
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.conn != nil {
			err = s.conn.Close()
		}
	})
	return err
}

func (s *Session) send(env envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *Session) readLoop() {
	// With a transcriber attached, closing it ends the forward goroutine,
	// which owns the transcripts channel.
	if s.stt != nil {
		defer s.stt.Close()
	} else {
		defer close(s.transcripts)
	}

	for {
		msgType, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		if msgType == websocket.BinaryMessage {
			if s.stt != nil {
				if err := s.stt.SendAudio(raw); err != nil {
					return
				}
			}
			continue
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}

		switch env.Type {
		case "participant_joined":
			if env.Participant != nil {
				select {
				case s.participants <- *env.Participant:
				default:
				}
			}
		case "transcript":
			if s.stt != nil {
				continue
			}
			if text := strings.TrimSpace(env.Text); text != "" {
				s.transcripts <- text
			}
		}
	}
}

func (s *Session) forwardTranscripts() {
	defer close(s.transcripts)
	for text := range s.stt.Transcripts() {
		if text = strings.TrimSpace(text); text != "" {
			s.transcripts <- text
		}
	}
}
