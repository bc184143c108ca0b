package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/cafi-ai/voice-interviewer/agent/contract"
)

type Config struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func MustOpen(cfg Config) *bun.DB {
	db, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return db
}

// Repository is the injected persistence handle. A single *bun.DB replaces
// the original per-call connect/close; each operation is scoped by its
// context and the pool releases connections on every exit path.
type Repository struct {
	db  *bun.DB
	now func() time.Time
}

func NewRepository(db *bun.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	return &Repository{db: db, now: time.Now}, nil
}

// QuestionSetID looks up the interview record and returns its question-set
// identifier. Missing interviews surface as ErrNotFound; everything else is
// a persistence fault.
func (r *Repository) QuestionSetID(ctx context.Context, interviewID string) (string, error) {
	iv := new(Interview)
	err := r.db.NewSelect().
		Model(iv).
		Column("iv.question_set_id").
		Where("iv.id = ?", interviewID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: interview %s", contractx.ErrNotFound, interviewID)
		}
		return "", fmt.Errorf("%w: select interview %s: %v", contractx.ErrPersistence, interviewID, err)
	}
	return iv.QuestionSetID, nil
}

// QuestionsBySet returns the texts of all questions whose question_set_id
// matches, in store-return order (no explicit sort).
func (r *Repository) QuestionsBySet(ctx context.Context, questionSetID string) ([]string, error) {
	var rows []Question
	err := r.db.NewSelect().
		Model(&rows).
		Where("q.question_set_id = ?", questionSetID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: select questions for set %s: %v", contractx.ErrPersistence, questionSetID, err)
	}

	texts := make([]string, 0, len(rows))
	for _, row := range rows {
		texts = append(texts, row.Text)
	}
	return texts, nil
}

// Save inserts exactly one answer record with a timestamp captured at call
// time and returns the store-assigned id. No retry, no uniqueness check on
// (session, questionNumber): calling twice with the same arguments produces
// two records.
func (r *Repository) Save(ctx context.Context, req contractx.SaveAnswerRequest) (string, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return "", fmt.Errorf("%w: user id is required", contractx.ErrValidation)
	}
	if req.QuestionNumber < 0 {
		return "", fmt.Errorf("%w: question number must be >= 0", contractx.ErrValidation)
	}

	rec := &Answer{
		UserID:         req.UserID,
		InterviewID:    req.Ref.InterviewID,
		Domain:         req.Ref.Domain,
		QuestionNumber: req.QuestionNumber,
		Question:       req.Question,
		Answer:         req.Answer,
		CreatedAt:      r.now().UTC(),
	}

	_, err := r.db.NewInsert().
		Model(rec).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: insert answer: %v", contractx.ErrPersistence, err)
	}
	return rec.ID, nil
}
