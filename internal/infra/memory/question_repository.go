package memory

import (
	"context"
	"sync"

	"cabao-quiz-service/internal/domain"
)

// QuestionRepository is an in-memory question bank seeded at construction.
type QuestionRepository struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionRepository(seed []domain.Question) *QuestionRepository {
	questions := make([]domain.Question, len(seed))
	copy(questions, seed)
	return &QuestionRepository{questions: questions}
}

func (r *QuestionRepository) All(_ context.Context) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

func (r *QuestionRepository) Append(_ context.Context, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.questions {
		if r.questions[i].ID == q.ID {
			r.questions[i] = q
			return nil
		}
	}
	r.questions = append(r.questions, q)
	return nil
}

func (r *QuestionRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}
