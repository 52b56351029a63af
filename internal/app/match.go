package app

import (
	"math/rand"
	"sync"

	"cabao-quiz-service/internal/domain"
)

// MatchState tracks where a match is in its lifecycle. Won and Lost are
// terminal; every mutating operation outside InProgress is ignored.
type MatchState string

const (
	MatchInProgress MatchState = "inProgress"
	MatchWon        MatchState = "won"
	MatchLost       MatchState = "lost"
)

// Lifeline identifies one of the limited-use assists.
type Lifeline string

const (
	LifelineSkip      Lifeline = "skip"
	LifelineSergeant  Lifeline = "sergeant"
	LifelineCaboVelho Lifeline = "caboVelho"
)

// Lifelines holds the remaining uses of each assist for one match.
type Lifelines struct {
	Skip      int `json:"skip"`
	Sergeant  int `json:"sergeant"`
	CaboVelho int `json:"caboVelho"`
}

func startingLifelines() Lifelines {
	return Lifelines{Skip: 3, Sergeant: 2, CaboVelho: 1}
}

// Progress is a transport-friendly snapshot of a match. Question is nil once
// the match reaches a terminal state.
type Progress struct {
	State         MatchState       `json:"state"`
	Index         int              `json:"index"`
	Total         int              `json:"total"`
	Score         int              `json:"score"`
	Prize         int              `json:"prize"`
	Lifelines     Lifelines        `json:"lifelines"`
	Question      *domain.Question `json:"question,omitempty"`
	HintText      string           `json:"hintText,omitempty"`
	CaboVelhoText string           `json:"caboVelhoText,omitempty"`
}

// Match is the state machine for one play-through: a sampled question
// sequence, the current position, the banked score, and lifeline counters.
type Match struct {
	mu            sync.Mutex
	questions     []domain.Question
	index         int
	score         int
	state         MatchState
	skipped       int
	lifelines     Lifelines
	hintText      string
	caboVelhoText string
	hintBusy      bool
}

// NewMatch starts a match over an already-sampled question sequence.
func NewMatch(questions []domain.Question) *Match {
	return &Match{
		questions: questions,
		state:     MatchInProgress,
		lifelines: startingLifelines(),
	}
}

// SampleQuestions draws up to n questions uniformly at random without
// replacement using a partial Fisher-Yates pass over a copy of the bank.
func SampleQuestions(bank []domain.Question, n int, rnd *rand.Rand) []domain.Question {
	pool := make([]domain.Question, len(bank))
	copy(pool, bank)
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// Answer applies an option choice to the current question. It reports whether
// the choice was correct; invalid options and calls outside InProgress are
// ignored and return the unchanged snapshot with correct=false.
func (m *Match) Answer(option int) (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MatchInProgress {
		return m.snapshotLocked(), false
	}

	q := m.questions[m.index]
	if option < 0 || option >= len(q.Options) {
		return m.snapshotLocked(), false
	}
	if option != q.CorrectAnswer {
		// The current attempt's points are forfeited; the banked score stands.
		m.state = MatchLost
		return m.snapshotLocked(), false
	}

	if m.index+1 >= len(m.questions) {
		m.score = domain.Prize(m.index)
		m.state = MatchWon
		return m.snapshotLocked(), true
	}

	m.score = domain.Prize(m.index)
	m.index++
	m.clearHintsLocked()
	return m.snapshotLocked(), true
}

// Skip advances past the current question without awarding its prize.
// Skipping the final question ends the match as won with the banked score,
// since a skip can never add new points.
func (m *Match) Skip() (Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MatchInProgress {
		return m.snapshotLocked(), domain.ErrMatchNotFound
	}
	if m.lifelines.Skip <= 0 {
		return m.snapshotLocked(), domain.ErrLifelineExhausted
	}

	m.lifelines.Skip--
	m.skipped++
	m.clearHintsLocked()
	if m.index+1 >= len(m.questions) {
		m.state = MatchWon
		return m.snapshotLocked(), nil
	}
	m.index++
	return m.snapshotLocked(), nil
}

// BeginHint consumes a hint lifeline and marks the match busy until
// ResolveHint is called. The count is spent on issuance, before the provider
// is contacted, so a failed request cannot be retried for free. CaboVelho is
// forced to zero rather than decremented: it is single-use even if the stored
// counter was tampered up.
func (m *Match) BeginHint(kind Lifeline) (domain.Question, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != MatchInProgress {
		return domain.Question{}, 0, domain.ErrMatchNotFound
	}
	if m.hintBusy {
		return domain.Question{}, 0, domain.ErrHintInFlight
	}

	switch kind {
	case LifelineSergeant:
		if m.lifelines.Sergeant <= 0 {
			return domain.Question{}, 0, domain.ErrLifelineExhausted
		}
		m.lifelines.Sergeant--
	case LifelineCaboVelho:
		if m.lifelines.CaboVelho <= 0 {
			return domain.Question{}, 0, domain.ErrLifelineExhausted
		}
		m.lifelines.CaboVelho = 0
	default:
		return domain.Question{}, 0, domain.ErrLifelineExhausted
	}

	m.hintBusy = true
	return m.questions[m.index], m.index, nil
}

// ResolveHint stores the advisory text for the question the hint was
// requested at. A result arriving after the match moved past that question
// (or ended) is discarded; the busy flag is always released.
func (m *Match) ResolveHint(kind Lifeline, atIndex int, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hintBusy = false
	if m.state != MatchInProgress || m.index != atIndex {
		return
	}
	switch kind {
	case LifelineSergeant:
		m.hintText = text
	case LifelineCaboVelho:
		m.caboVelhoText = text
	}
}

// fullWin reports whether every question was answered correctly. Only a full
// win advances rank; a match finished by skipping questions does not, because
// a skip sidesteps the correctness requirement.
func (m *Match) fullWin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == MatchWon && m.skipped == 0
}

// Snapshot returns the current match view.
func (m *Match) Snapshot() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Match) clearHintsLocked() {
	m.hintText = ""
	m.caboVelhoText = ""
}

func (m *Match) snapshotLocked() Progress {
	p := Progress{
		State:         m.state,
		Index:         m.index,
		Total:         len(m.questions),
		Score:         m.score,
		Prize:         domain.Prize(m.index),
		Lifelines:     m.lifelines,
		HintText:      m.hintText,
		CaboVelhoText: m.caboVelhoText,
	}
	if m.state == MatchInProgress {
		q := m.questions[m.index]
		p.Question = &q
	}
	return p
}
