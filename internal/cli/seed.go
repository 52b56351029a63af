package cli

import (
	"log"

	"cabao-quiz-service/internal/config"
	"cabao-quiz-service/internal/domain"
	"cabao-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the starter question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question bank with the starter CFN questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}

			pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := postgres.NewQuestionRepository(pool)
			for _, q := range SeedQuestions() {
				if err := repo.Append(ctx, q); err != nil {
					return err
				}
			}
			log.Printf("seeded %d questions", len(SeedQuestions()))
			return nil
		},
	}
}

// SeedQuestions is the starter bank; also serves the in-memory mode directly.
func SeedQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            "1",
			Text:          "Qual é o aniversário do Corpo de Fuzileiros Navais?",
			Options:       [4]string{"7 de Março", "19 de Novembro", "13 de Dezembro", "11 de Junho"},
			CorrectAnswer: 0,
			Difficulty:    domain.DifficultyRecruta,
			Category:      "História",
		},
		{
			ID:            "2",
			Text:          "Qual o fuzil padrão utilizado pelo CFN atualmente?",
			Options:       [4]string{"FAL 7.62", "M16A2", "IA2 5.56", "G36"},
			CorrectAnswer: 2,
			Difficulty:    domain.DifficultyRecruta,
			Category:      "Armamento",
		},
		{
			ID:            "3",
			Text:          "Quem é o Patrono do Corpo de Fuzileiros Navais?",
			Options:       [4]string{"Almirante Tamandaré", "Almirante Barroso", "Almirante Gastão Motta", "Almirante Joaquim Marques Lisboa"},
			CorrectAnswer: 2,
			Difficulty:    domain.DifficultyCombatente,
			Category:      "História",
		},
		{
			ID:            "4",
			Text:          "Qual é a principal missão do CFN?",
			Options:       [4]string{"Garantir a lei e a ordem", "Projeção de poder de terra para o mar", "Projeção de poder sobre terra, a partir do mar", "Defesa das fronteiras terrestres"},
			CorrectAnswer: 2,
			Difficulty:    domain.DifficultyEspecialista,
			Category:      "Doutrina",
		},
	}
}
