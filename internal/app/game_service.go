package app

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"cabao-quiz-service/internal/domain"
)

// LeaderboardRepository persists best-score/rank per nickname. Upsert must be
// an atomic conditional merge at the storage layer (max score, latest rank)
// so that concurrent end-of-match writes never lose a higher score.
type LeaderboardRepository interface {
	Upsert(ctx context.Context, entry domain.RankingEntry) error
	FetchTop(ctx context.Context, n int) ([]domain.RankingEntry, error)
	FindByNickname(ctx context.Context, nickname string) (domain.RankingEntry, error)
}

// QuestionRepository abstracts the question bank (in-memory, Postgres, etc).
type QuestionRepository interface {
	All(ctx context.Context) ([]domain.Question, error)
	Append(ctx context.Context, q domain.Question) error
	DeleteByID(ctx context.Context, id string) error
}

// MatchStore tracks active matches per nickname.
type MatchStore interface {
	Put(nickname string, m *Match)
	Get(nickname string) (*Match, bool)
	Delete(nickname string)
}

// PlayerStore keeps the logged-in player per device key, so a combatant does
// not have to log in again on reconnect.
type PlayerStore interface {
	Save(ctx context.Context, deviceKey string, p domain.Player) error
	Find(ctx context.Context, deviceKey string) (domain.Player, error)
	Delete(ctx context.Context, deviceKey string) error
}

// HintProvider generates advisory text from an opaque language backend. Any
// error degrades to a fixed fallback string; the lifeline is consumed either way.
type HintProvider interface {
	SergeantHint(ctx context.Context, q domain.Question) (string, error)
	CaboVelhoOpinion(ctx context.Context, q domain.Question) (string, error)
	MissionFeedback(ctx context.Context, score int, won bool) (string, error)
}

// AdminAuthorizer decides whether a nickname/secret pair may edit the bank.
type AdminAuthorizer interface {
	Authorize(nickname, secret string) bool
}

// Radio-silence fallbacks, used whenever the hint backend is unreachable.
const (
	fallbackSergeantHint  = "O rádio está com interferência, combatente! Confie nos seus estudos."
	fallbackCaboVelho     = "Cabo Antunes: 'Poxa, o rádio pifou. Vai na que tu estudou!'"
	fallbackFeedbackGood  = "Excelente desempenho, Cabo! Mérito reconhecido. AD SUMUS!"
	fallbackFeedbackPlain = "Continue estudando, a farda exige sacrifício!"
)

// GameService contains the game-progression use cases: login, match flow,
// lifelines, ranking, and admin bank edits.
type GameService struct {
	leaderboard LeaderboardRepository
	questions   QuestionRepository
	matches     MatchStore
	players     PlayerStore
	hints       HintProvider
	authorizer  AdminAuthorizer
	now         func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewGameService(
	leaderboard LeaderboardRepository,
	questions QuestionRepository,
	matches MatchStore,
	players PlayerStore,
	hints HintProvider,
	authorizer AdminAuthorizer,
) *GameService {
	return NewGameServiceWithClock(leaderboard, questions, matches, players, hints, authorizer, time.Now)
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(
	leaderboard LeaderboardRepository,
	questions QuestionRepository,
	matches MatchStore,
	players PlayerStore,
	hints HintProvider,
	authorizer AdminAuthorizer,
	now func() time.Time,
) *GameService {
	return &GameService{
		leaderboard: leaderboard,
		questions:   questions,
		matches:     matches,
		players:     players,
		hints:       hints,
		authorizer:  authorizer,
		now:         now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Login normalizes the nickname, seeds the player from any existing
// leaderboard record, and persists the session under the device key. The
// reserved admin nickname additionally requires the shared secret.
func (s *GameService) Login(ctx context.Context, rawNickname, secret, deviceKey string) (domain.Player, error) {
	nickname := domain.NormalizeNickname(rawNickname)
	if nickname == "" {
		return domain.Player{}, domain.ErrInvalidNickname
	}

	isAdmin := nickname == domain.AdminNickname
	if isAdmin && !s.authorizer.Authorize(nickname, secret) {
		return domain.Player{}, domain.ErrNotAuthorized
	}

	player := domain.Player{
		Nickname:   nickname,
		Rank:       domain.RankFerro,
		LastPlayed: s.now(),
		IsAdmin:    isAdmin,
	}
	entry, err := s.leaderboard.FindByNickname(ctx, nickname)
	switch {
	case err == nil:
		player.Score = entry.Score
		player.Rank = entry.Rank
	case errors.Is(err, domain.ErrEntryNotFound):
		// fresh combatant, starts at Ferro with zero merit
	default:
		return domain.Player{}, err
	}

	if deviceKey != "" {
		if err := s.players.Save(ctx, deviceKey, player); err != nil {
			return domain.Player{}, err
		}
	}
	return player, nil
}

// Resume restores the logged-in player for a device, if any.
func (s *GameService) Resume(ctx context.Context, deviceKey string) (domain.Player, error) {
	return s.players.Find(ctx, deviceKey)
}

// Logout clears the device session and discards any active match.
func (s *GameService) Logout(ctx context.Context, deviceKey, nickname string) error {
	if nickname != "" {
		s.matches.Delete(nickname)
	}
	if deviceKey == "" {
		return nil
	}
	return s.players.Delete(ctx, deviceKey)
}

// StartMatch samples a fresh question sequence and begins a match for the
// player, replacing any match already in progress.
func (s *GameService) StartMatch(ctx context.Context, nickname string) (Progress, error) {
	bank, err := s.questions.All(ctx)
	if err != nil {
		return Progress{}, err
	}
	if len(bank) == 0 {
		return Progress{}, domain.ErrQuestionBankEmpty
	}

	s.rndMu.Lock()
	sample := SampleQuestions(bank, domain.MatchLength, s.rnd)
	s.rndMu.Unlock()

	m := NewMatch(sample)
	s.matches.Put(nickname, m)
	return m.Snapshot(), nil
}

// AnswerResult reports one answer transition. Player is set only when the
// match reached a terminal state and the leaderboard write succeeded.
type AnswerResult struct {
	Progress Progress
	Correct  bool
	Player   *domain.Player
}

// Answer applies an option choice to the player's match and, on a terminal
// outcome, merges the final score into the leaderboard.
func (s *GameService) Answer(ctx context.Context, deviceKey, nickname string, option int) (AnswerResult, error) {
	m, ok := s.matches.Get(nickname)
	if !ok {
		return AnswerResult{}, domain.ErrMatchNotFound
	}

	prog, correct := m.Answer(option)
	result := AnswerResult{Progress: prog, Correct: correct}
	if prog.State == MatchInProgress {
		return result, nil
	}
	result.Player = s.finishMatch(ctx, deviceKey, nickname, m, prog)
	return result, nil
}

// Skip consumes a skip lifeline and advances without awarding the prize.
func (s *GameService) Skip(ctx context.Context, deviceKey, nickname string) (AnswerResult, error) {
	m, ok := s.matches.Get(nickname)
	if !ok {
		return AnswerResult{}, domain.ErrMatchNotFound
	}

	prog, err := m.Skip()
	if err != nil {
		return AnswerResult{}, err
	}
	result := AnswerResult{Progress: prog}
	if prog.State != MatchInProgress {
		result.Player = s.finishMatch(ctx, deviceKey, nickname, m, prog)
	}
	return result, nil
}

// finishMatch discards the match and applies the end-of-match merge: rank
// advances one tier only on a full win, the stored score is the max of old
// and new. When the write fails the local player view is left untouched; the
// persisted state stays authoritative and the next ranking fetch reconciles.
func (s *GameService) finishMatch(ctx context.Context, deviceKey, nickname string, m *Match, prog Progress) *domain.Player {
	s.matches.Delete(nickname)

	player, err := s.players.Find(ctx, deviceKey)
	if err != nil || player.Nickname != nickname {
		player = domain.Player{Nickname: nickname, Rank: domain.RankFerro}
		if entry, lookupErr := s.leaderboard.FindByNickname(ctx, nickname); lookupErr == nil {
			player.Score = entry.Score
			player.Rank = entry.Rank
		}
	}

	nextRank := domain.NextRank(player.Rank, m.fullWin())
	entry := domain.RankingEntry{Nickname: nickname, Score: prog.Score, Rank: nextRank}
	if err := s.leaderboard.Upsert(ctx, entry); err != nil {
		log.Printf("leaderboard upsert failed for %s: %v", nickname, err)
		return nil
	}

	if prog.Score > player.Score {
		player.Score = prog.Score
	}
	player.Rank = nextRank
	player.LastPlayed = s.now()
	if deviceKey != "" {
		if err := s.players.Save(ctx, deviceKey, player); err != nil {
			log.Printf("player session save failed for %s: %v", nickname, err)
		}
	}
	return &player
}

// SergeantHint consumes a sergeant lifeline and fetches advisory text for the
// current question. The count is spent even when the backend fails; the
// fallback line is shown instead.
func (s *GameService) SergeantHint(ctx context.Context, nickname string) (string, Progress, error) {
	return s.requestHint(ctx, nickname, LifelineSergeant)
}

// CaboVelhoOpinion consumes the single cabo-velho lifeline and fetches the
// veterans' take on the current question.
func (s *GameService) CaboVelhoOpinion(ctx context.Context, nickname string) (string, Progress, error) {
	return s.requestHint(ctx, nickname, LifelineCaboVelho)
}

func (s *GameService) requestHint(ctx context.Context, nickname string, kind Lifeline) (string, Progress, error) {
	m, ok := s.matches.Get(nickname)
	if !ok {
		return "", Progress{}, domain.ErrMatchNotFound
	}

	q, atIndex, err := m.BeginHint(kind)
	if err != nil {
		return "", Progress{}, err
	}

	var text string
	var hintErr error
	switch kind {
	case LifelineSergeant:
		text, hintErr = s.hints.SergeantHint(ctx, q)
		if hintErr != nil || text == "" {
			text = fallbackSergeantHint
		}
	case LifelineCaboVelho:
		text, hintErr = s.hints.CaboVelhoOpinion(ctx, q)
		if hintErr != nil || text == "" {
			text = fallbackCaboVelho
		}
	}
	if hintErr != nil {
		log.Printf("hint backend failed (%s): %v", kind, hintErr)
	}

	m.ResolveHint(kind, atIndex, text)
	return text, m.Snapshot(), nil
}

// MissionFeedback returns the end-of-match narrative. It is meant to be
// requested after the terminal transition and never blocks game state.
func (s *GameService) MissionFeedback(ctx context.Context, score int, won bool) string {
	text, err := s.hints.MissionFeedback(ctx, score, won)
	if err == nil && text != "" {
		return text
	}
	if err != nil {
		log.Printf("feedback backend failed: %v", err)
	}
	if score > 800 {
		return fallbackFeedbackGood
	}
	return fallbackFeedbackPlain
}

// Ranking returns the current top entries in leaderboard order.
func (s *GameService) Ranking(ctx context.Context) ([]domain.RankingEntry, error) {
	return s.leaderboard.FetchTop(ctx, domain.RankingSize)
}

// AddQuestion appends a question to the bank. Admin only.
func (s *GameService) AddQuestion(ctx context.Context, nickname, secret string, q domain.Question) error {
	if !s.authorizer.Authorize(domain.NormalizeNickname(nickname), secret) {
		return domain.ErrNotAuthorized
	}
	if q.ID == "" || q.Text == "" || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return domain.ErrInvalidQuestion
	}
	return s.questions.Append(ctx, q)
}

// RemoveQuestion deletes a question from the bank by ID. Admin only.
func (s *GameService) RemoveQuestion(ctx context.Context, nickname, secret, id string) error {
	if !s.authorizer.Authorize(domain.NormalizeNickname(nickname), secret) {
		return domain.ErrNotAuthorized
	}
	return s.questions.DeleteByID(ctx, id)
}
