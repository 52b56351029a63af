package gemini

import (
	"context"
	"fmt"
	"strings"

	"cabao-quiz-service/internal/domain"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// HintProvider implements app.HintProvider on top of the Gemini API. Every
// call is a single shot; failures bubble up and the caller substitutes the
// canned fallback line.
type HintProvider struct {
	client *genai.Client
	model  string
}

func NewHintProvider(ctx context.Context, apiKey, model string) (*HintProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &HintProvider{client: client, model: model}, nil
}

func (p *HintProvider) SergeantHint(ctx context.Context, q domain.Question) (string, error) {
	prompt := fmt.Sprintf(
		"Aja como um Sargento Fuzileiro Naval experiente e instrutor. Dê um 'Buzu' "+
			"(dica sutil e encorajadora) para a seguinte questão de prova de cabo, sem dizer "+
			"diretamente a resposta. Use gírias militares brasileiras de forma profissional.\n"+
			"Questão: %s\nOpções: %s",
		q.Text, strings.Join(q.Options[:], ", "))
	return p.generate(ctx, prompt,
		"Você é o Sargento 'Buzu', um instrutor rígido mas justo dos Fuzileiros Navais "+
			"brasileiros que conhece todos os macetes da prova.",
		0.7)
}

func (p *HintProvider) CaboVelhoOpinion(ctx context.Context, q domain.Question) (string, error) {
	prompt := fmt.Sprintf(
		"Aja como três 'Cabos Velhos' (Cabos com 15+ anos de serviço) do CFN: Cabo Antunes, "+
			"Cabo Silva e Cabo Rocha. Eles estão ajudando um recruta no 'Show do Cabão'. "+
			"Cada um deve dar sua opinião rápida sobre qual alternativa (A, B, C ou D) acham "+
			"correta. Eles podem divergir ocasionalmente, mas geralmente apontam o caminho "+
			"certo. Seja curto e use gírias de 'antigão'.\n"+
			"Questão: %s\nOpções:\nA) %s\nB) %s\nC) %s\nD) %s",
		q.Text, q.Options[0], q.Options[1], q.Options[2], q.Options[3])
	return p.generate(ctx, prompt,
		"Você é um trio de veteranos fuzileiros navais, experientes e camaradas.",
		0.8)
}

func (p *HintProvider) MissionFeedback(ctx context.Context, score int, won bool) (string, error) {
	status := "DERROTADO"
	if won {
		status = "VITORIOSO"
	}
	prompt := fmt.Sprintf(
		"O fuzileiro naval terminou sua missão no 'Show do Cabão'. Ele fez %d pontos. "+
			"O resultado foi: %s. Dê uma breve mensagem de ordem e incentivo (máximo 2 linhas). "+
			"Fale sobre sua pontuação de mérito militar.",
		score, status)
	return p.generate(ctx, prompt, "", 0)
}

func (p *HintProvider) generate(ctx context.Context, prompt, system string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{}
	if temperature > 0 {
		temp := temperature
		config.Temperature = &temp
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}
