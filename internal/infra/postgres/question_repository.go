package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"cabao-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionRepository stores the question bank in Postgres, options as JSONB.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) All(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, options, correct_answer, difficulty, category FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Text, &rawOptions, &q.CorrectAnswer, &q.Difficulty, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuestionRepository) Append(ctx context.Context, q domain.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO questions (id, text, options, correct_answer, difficulty, category)
		 VALUES ($1, $2, $3::jsonb, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		   text = EXCLUDED.text,
		   options = EXCLUDED.options,
		   correct_answer = EXCLUDED.correct_answer,
		   difficulty = EXCLUDED.difficulty,
		   category = EXCLUDED.category`,
		q.ID, q.Text, options, q.CorrectAnswer, q.Difficulty, q.Category)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
