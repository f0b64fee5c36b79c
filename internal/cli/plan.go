package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loopinhq/loopin-go/internal/service"
)

var autofillCmd = &cobra.Command{
	Use:   "autofill <project-id>",
	Short: "Extract a business plan from the conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getModel()
		if err != nil {
			return err
		}

		plan, err := service.NewPlanService(dbClient, m, logger).Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Service name:      %s\n", plan.ServiceName)
		fmt.Printf("Overview:          %s\n", plan.Overview)
		fmt.Printf("Target market:     %s\n", plan.TargetMarket)
		fmt.Printf("Value proposition: %s\n", plan.ValueProposition)
		fmt.Printf("Competitors:       %s\n", plan.Competitors)
		fmt.Printf("Revenue model:     %s\n", plan.RevenueModel)
		fmt.Printf("Milestones:        %s\n", plan.Milestones)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project-id>",
	Short: "Score the extracted plan along six dimensions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := getModel()
		if err != nil {
			return err
		}

		result, err := service.NewScoreService(dbClient, m, logger).Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		s := result.Scores
		fmt.Printf("Feasibility:   %3d\n", s.Feasibility)
		fmt.Printf("Market size:   %3d\n", s.MarketSize)
		fmt.Printf("Innovation:    %3d\n", s.Innovation)
		fmt.Printf("Profitability: %3d\n", s.Profitability)
		fmt.Printf("Scalability:   %3d\n", s.Scalability)
		fmt.Printf("Team fit:      %3d\n", s.TeamFit)

		if result.Summary != "" {
			fmt.Printf("\n%s\n", result.Summary)
		}
		if len(result.Strengths) > 0 {
			fmt.Printf("\nStrengths:\n  %s\n", strings.Join(result.Strengths, "\n  "))
		}
		if len(result.Weaknesses) > 0 {
			fmt.Printf("\nWeaknesses:\n  %s\n", strings.Join(result.Weaknesses, "\n  "))
		}
		if len(result.Recommendations) > 0 {
			fmt.Printf("\nRecommendations:\n  %s\n", strings.Join(result.Recommendations, "\n  "))
		}
		return nil
	},
}
