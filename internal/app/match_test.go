package app

import (
	"fmt"
	"math/rand"
	"testing"

	"cabao-quiz-service/internal/domain"
)

func makeQuestions(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			Text:          fmt.Sprintf("Pergunta %d", i+1),
			Options:       [4]string{"A", "B", "C", "D"},
			CorrectAnswer: i % 4,
			Difficulty:    domain.DifficultyRecruta,
			Category:      "Teste",
		}
	}
	return questions
}

func answerCorrectly(t *testing.T, m *Match) Progress {
	t.Helper()
	q := m.Snapshot().Question
	if q == nil {
		t.Fatalf("expected an active question")
	}
	prog, correct := m.Answer(q.CorrectAnswer)
	if !correct {
		t.Fatalf("expected correct answer to be accepted")
	}
	return prog
}

func TestFullWinScoresTopPrize(t *testing.T) {
	m := NewMatch(makeQuestions(16))

	var prog Progress
	for i := 0; i < 16; i++ {
		prog = answerCorrectly(t, m)
	}
	if prog.State != MatchWon {
		t.Fatalf("expected won, got %s", prog.State)
	}
	if prog.Score != 1600 {
		t.Fatalf("expected final score 1600, got %d", prog.Score)
	}
	if !m.fullWin() {
		t.Fatalf("expected a full win")
	}
}

func TestScoreTracksPrizeLadder(t *testing.T) {
	m := NewMatch(makeQuestions(16))
	for i := 0; i < 5; i++ {
		prog := answerCorrectly(t, m)
		if prog.Score != domain.PrizeLadder[i] {
			t.Fatalf("after %d correct answers expected score %d, got %d", i+1, domain.PrizeLadder[i], prog.Score)
		}
	}
}

func TestWrongAnswerForfeitsCurrentPrize(t *testing.T) {
	m := NewMatch(makeQuestions(16))
	answerCorrectly(t, m)
	answerCorrectly(t, m)

	q := m.Snapshot().Question
	prog, correct := m.Answer((q.CorrectAnswer + 1) % 4)
	if correct {
		t.Fatalf("expected wrong answer")
	}
	if prog.State != MatchLost {
		t.Fatalf("expected lost, got %s", prog.State)
	}
	if prog.Score != 200 {
		t.Fatalf("expected banked score 200, got %d", prog.Score)
	}
}

func TestWrongFirstAnswerScoresZero(t *testing.T) {
	m := NewMatch(makeQuestions(16))
	q := m.Snapshot().Question
	prog, _ := m.Answer((q.CorrectAnswer + 1) % 4)
	if prog.State != MatchLost || prog.Score != 0 {
		t.Fatalf("expected lost with score 0, got %s/%d", prog.State, prog.Score)
	}
}

func TestSkipAdvancesWithoutPrize(t *testing.T) {
	m := NewMatch(makeQuestions(16))
	for i := 0; i < 4; i++ {
		answerCorrectly(t, m)
	}
	m.ResolveHint(LifelineSergeant, 4, "dica") // seed a displayed hint directly

	prog, err := m.Skip()
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if prog.Lifelines.Skip != 2 {
		t.Fatalf("expected skip count 2, got %d", prog.Lifelines.Skip)
	}
	if prog.Index != 5 {
		t.Fatalf("expected index 5, got %d", prog.Index)
	}
	if prog.Score != 400 {
		t.Fatalf("expected score unchanged at 400, got %d", prog.Score)
	}
	if prog.HintText != "" || prog.CaboVelhoText != "" {
		t.Fatalf("expected hints cleared on skip")
	}
}

func TestSkipExhaustion(t *testing.T) {
	m := NewMatch(makeQuestions(16))
	for i := 0; i < 3; i++ {
		if _, err := m.Skip(); err != nil {
			t.Fatalf("skip %d: %v", i+1, err)
		}
	}
	if _, err := m.Skip(); err != domain.ErrLifelineExhausted {
		t.Fatalf("expected exhausted, got %v", err)
	}
}

func TestSkipOnLastQuestionWinsWithBankedScore(t *testing.T) {
	m := NewMatch(makeQuestions(2))
	answerCorrectly(t, m)

	prog, err := m.Skip()
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if prog.State != MatchWon {
		t.Fatalf("expected won, got %s", prog.State)
	}
	if prog.Score != 100 {
		t.Fatalf("expected banked score 100, got %d", prog.Score)
	}
	if m.fullWin() {
		t.Fatalf("a win reached by skipping must not count as full")
	}
}

func TestOperationsAfterTerminalAreIgnored(t *testing.T) {
	m := NewMatch(makeQuestions(1))
	prog := answerCorrectly(t, m)
	if prog.State != MatchWon {
		t.Fatalf("expected won, got %s", prog.State)
	}

	after, correct := m.Answer(0)
	if correct || after.State != MatchWon || after.Score != prog.Score {
		t.Fatalf("terminal answer should be a no-op, got %+v", after)
	}
	if _, err := m.Skip(); err != domain.ErrMatchNotFound {
		t.Fatalf("expected no active match, got %v", err)
	}
	if _, _, err := m.BeginHint(LifelineSergeant); err != domain.ErrMatchNotFound {
		t.Fatalf("expected no active match, got %v", err)
	}
}

func TestInvalidOptionIsIgnored(t *testing.T) {
	m := NewMatch(makeQuestions(3))
	for _, option := range []int{-1, 4, 99} {
		prog, correct := m.Answer(option)
		if correct || prog.State != MatchInProgress || prog.Index != 0 {
			t.Fatalf("option %d should be ignored, got %+v", option, prog)
		}
	}
}

func TestSergeantHintConsumesUse(t *testing.T) {
	m := NewMatch(makeQuestions(3))

	q, atIndex, err := m.BeginHint(LifelineSergeant)
	if err != nil {
		t.Fatalf("begin hint: %v", err)
	}
	if q.ID != "q1" || atIndex != 0 {
		t.Fatalf("expected hint for first question, got %s at %d", q.ID, atIndex)
	}
	m.ResolveHint(LifelineSergeant, atIndex, "macete do sargento")

	prog := m.Snapshot()
	if prog.Lifelines.Sergeant != 1 {
		t.Fatalf("expected sergeant count 1, got %d", prog.Lifelines.Sergeant)
	}
	if prog.HintText != "macete do sargento" {
		t.Fatalf("expected hint text stored, got %q", prog.HintText)
	}
}

func TestHintBusyBlocksSecondRequest(t *testing.T) {
	m := NewMatch(makeQuestions(3))

	_, atIndex, err := m.BeginHint(LifelineSergeant)
	if err != nil {
		t.Fatalf("begin hint: %v", err)
	}
	if _, _, err := m.BeginHint(LifelineCaboVelho); err != domain.ErrHintInFlight {
		t.Fatalf("expected in-flight error, got %v", err)
	}
	m.ResolveHint(LifelineSergeant, atIndex, "dica")

	if _, _, err := m.BeginHint(LifelineCaboVelho); err != nil {
		t.Fatalf("expected cabo velho available after resolve, got %v", err)
	}
}

func TestCaboVelhoForcedToZero(t *testing.T) {
	m := NewMatch(makeQuestions(3))
	m.lifelines.CaboVelho = 5 // tampered-up counter still yields a single use

	_, atIndex, err := m.BeginHint(LifelineCaboVelho)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if got := m.Snapshot().Lifelines.CaboVelho; got != 0 {
		t.Fatalf("expected cabo velho forced to 0, got %d", got)
	}
	m.ResolveHint(LifelineCaboVelho, atIndex, "opinião")

	if _, _, err := m.BeginHint(LifelineCaboVelho); err != domain.ErrLifelineExhausted {
		t.Fatalf("expected exhausted on second use, got %v", err)
	}
}

func TestStaleHintResultDiscarded(t *testing.T) {
	m := NewMatch(makeQuestions(3))

	_, atIndex, err := m.BeginHint(LifelineSergeant)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	answerCorrectly(t, m) // match moved on before the hint arrived
	m.ResolveHint(LifelineSergeant, atIndex, "dica atrasada")

	prog := m.Snapshot()
	if prog.HintText != "" {
		t.Fatalf("stale hint should be discarded, got %q", prog.HintText)
	}
	if _, _, err := m.BeginHint(LifelineSergeant); err != nil {
		t.Fatalf("busy flag should be released, got %v", err)
	}
}

func TestSampleQuestionsUniqueAndCapped(t *testing.T) {
	bank := makeQuestions(40)
	rnd := rand.New(rand.NewSource(7))

	sample := SampleQuestions(bank, domain.MatchLength, rnd)
	if len(sample) != 16 {
		t.Fatalf("expected 16 questions, got %d", len(sample))
	}
	seen := make(map[string]bool)
	for _, q := range sample {
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}

	small := SampleQuestions(makeQuestions(5), domain.MatchLength, rnd)
	if len(small) != 5 {
		t.Fatalf("expected whole small bank, got %d", len(small))
	}
}
