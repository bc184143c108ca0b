package storage

import (
	"time"

	"github.com/uptrace/bun"
)

type Interview struct {
	bun.BaseModel `bun:"table:interviews,alias:iv"`

	ID            string    `bun:"id,pk"`
	QuestionSetID string    `bun:"question_set_id,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            string `bun:"id,pk"`
	QuestionSetID string `bun:"question_set_id,notnull"`
	Text          string `bun:"text,notnull"`
	// Position records insertion order; reads intentionally do not sort on
	// it (store-return order contract).
	Position int64 `bun:"position,autoincrement"`
}

// Answer is one persisted question/answer pair. Records are immutable after
// insert and never deleted by this system.
type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID             string    `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()"`
	UserID         string    `bun:"user_id,notnull"`
	InterviewID    string    `bun:"interview_id,notnull"`
	Domain         string    `bun:"domain,nullzero"`
	QuestionNumber int       `bun:"question_number,notnull"`
	Question       string    `bun:"question,notnull"`
	Answer         string    `bun:"answer,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
}
