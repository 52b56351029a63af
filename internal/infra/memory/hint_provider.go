package memory

import (
	"context"

	"cabao-quiz-service/internal/domain"
)

// StaticHintProvider serves canned advisory lines; used when no language
// backend is configured and as a stand-in for tests.
type StaticHintProvider struct{}

func NewStaticHintProvider() *StaticHintProvider {
	return &StaticHintProvider{}
}

func (StaticHintProvider) SergeantHint(_ context.Context, _ domain.Question) (string, error) {
	return "Recruta, elimina as alternativas absurdas e confia no que tu estudou na instrução!", nil
}

func (StaticHintProvider) CaboVelhoOpinion(_ context.Context, _ domain.Question) (string, error) {
	return "Cabo Antunes: 'Essa aí caiu na minha prova, antigão. Lê com calma que a resposta aparece.'", nil
}

func (StaticHintProvider) MissionFeedback(_ context.Context, score int, won bool) (string, error) {
	if won {
		return "Missão cumprida, combatente! Patente nova no peito. AD SUMUS!", nil
	}
	if score > 800 {
		return "Bom desempenho, mas a caserna exige mais. Na próxima tu chega lá!", nil
	}
	return "Missão encerrada. Volta pros estudos e tenta de novo, recruta.", nil
}
