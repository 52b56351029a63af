package domain

import (
	"strings"
	"time"
)

// Difficulty labels a question with one of four ordered tiers.
type Difficulty string

const (
	DifficultyRecruta      Difficulty = "Recruta (Fácil)"
	DifficultyCombatente   Difficulty = "Combatente (Médio)"
	DifficultyEspecialista Difficulty = "Especialista (Difícil)"
	DifficultyElite        Difficulty = "Elite (Muito Difícil)"
)

// Question is an MCQ record with exactly four options. The bank replaces the
// whole record on admin edits; gameplay never mutates it.
type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Options       [4]string  `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
}

// Player is the logged-in combatant. Identity is the normalized nickname;
// Score is the best score ever banked, not the current match score.
type Player struct {
	Nickname   string    `json:"nickname"`
	Score      int       `json:"score"`
	Rank       Rank      `json:"rank"`
	LastPlayed time.Time `json:"lastPlayed"`
	IsAdmin    bool      `json:"isAdmin"`
}

// RankingEntry is the leaderboard projection of a player, one row per nickname.
type RankingEntry struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Rank     Rank   `json:"rank"`
}

// AdminNickname is the reserved login that unlocks question-bank editing
// when paired with the shared secret.
const AdminNickname = "ADMIN"

// NormalizeNickname maps a raw login name to the identity key used everywhere.
func NormalizeNickname(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
