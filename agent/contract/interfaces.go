package contract

import "context"

// QuestionSource resolves the ordered question set for a session. The
// returned slice must not be mutated after return and its order is preserved
// verbatim when presented to the reasoning process.
type QuestionSource interface {
	Resolve(ctx context.Context, ref SessionRef) ([]string, error)
}

// AnswerStore persists one answer record per save call and returns the
// store-assigned record id. It performs a single insert, never retries, and
// enforces no uniqueness on (session, questionNumber).
type AnswerStore interface {
	Save(ctx context.Context, req SaveAnswerRequest) (string, error)
}

// Capability is the surface the reasoning process may invoke mid-dialogue.
type Capability interface {
	FetchQuestions(ctx context.Context, ref SessionRef) ([]string, error)
	SaveAnswer(ctx context.Context, req SaveAnswerRequest) (string, error)
}

// SessionHost is the media/runtime collaborator: it delivers the participant,
// carries synthesized speech out, and streams transcripts in. The controller
// treats it purely as a say-sink and transcript source.
type SessionHost interface {
	Connect(ctx context.Context, mode SubscribeMode) error
	WaitForParticipant(ctx context.Context) (Participant, error)
	Say(ctx context.Context, text string) error
	Transcripts() <-chan string
	Close() error
}

// Synthesizer turns text into playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber is one live speech-to-text stream: audio frames go in,
// finalized transcript texts come out. Transcripts closes when the stream
// ends.
type Transcriber interface {
	SendAudio(frame []byte) error
	Transcripts() <-chan string
	Close() error
}
