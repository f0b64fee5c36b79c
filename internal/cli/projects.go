package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loopinhq/loopin-go/internal/models"
)

var (
	createUserID  string
	createTitle   string
	createPersona string
	listUserID    string
	timelineLimit int
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List your projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := projectService().List(cmd.Context(), listUserID)
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		for _, p := range projects {
			fmt.Printf("%s  [%s]  %s (%s)\n", models.MustRecordIDString(p.ID), p.Status, p.Title, p.AIPersonality)
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	RunE: func(cmd *cobra.Command, args []string) error {
		persona := models.Persona(createPersona)
		if !persona.Valid() {
			return fmt.Errorf("unknown persona %q (valid: %v)", createPersona, models.Personas)
		}

		project, err := projectService().Create(cmd.Context(), models.ProjectInput{
			UserID:        createUserID,
			Title:         createTitle,
			AIPersonality: persona,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created project %s (%s)\n", models.MustRecordIDString(project.ID), project.Title)
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish <project-id>",
	Short: "Publish a project to the shared timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := projectService().Publish(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Published %s (%s)\n", args[0], project.Title)
		return nil
	},
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show recently published projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := projectService().Timeline(cmd.Context(), timelineLimit)
		if err != nil {
			return err
		}

		if len(projects) == 0 {
			fmt.Println("No published projects yet.")
			return nil
		}

		for _, p := range projects {
			fmt.Printf("%s  %s\n", models.MustRecordIDString(p.ID), p.Title)
			if p.PlanData != nil && p.PlanData.Overview != "" {
				fmt.Printf("    %s\n", p.PlanData.Overview)
			}
		}
		return nil
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript <project-id>",
	Short: "Print a project's conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := projectService().Transcript(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, m := range messages {
			speaker := "AI"
			if m.Sender == models.SenderUser {
				speaker = "You"
			}
			fmt.Printf("[%s] %s\n\n", speaker, m.Content)
		}
		return nil
	},
}

func init() {
	projectsCmd.Flags().StringVar(&listUserID, "user", "local", "owner user ID")
	createCmd.Flags().StringVar(&createUserID, "user", "local", "owner user ID")
	createCmd.Flags().StringVar(&createTitle, "title", "", "project title")
	createCmd.Flags().StringVar(&createPersona, "persona", string(models.PersonaLogical), "AI persona (logical|challenger|mentor|friend)")
	timelineCmd.Flags().IntVar(&timelineLimit, "limit", 20, "maximum projects to show")
}
