package main

import (
	"fmt"

	"interview-prep-be/internal/dto"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Generate a new content version for one topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseOwner(cmd)
		if err != nil {
			return err
		}
		rawTopic, _ := cmd.Flags().GetString("topic")
		topicID, err := uuid.Parse(rawTopic)
		if err != nil {
			return fmt.Errorf("--topic must be a UUID: %w", err)
		}
		notes, _ := cmd.Flags().GetString("notes")
		title, _ := cmd.Flags().GetString("title")

		container, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		detail, err := container.TopicService.RegenerateContent(cmd.Context(), owner, topicID, &dto.RegenerateContentRequest{
			Title:       title,
			SourceNotes: notes,
		})
		if err != nil {
			return err
		}

		color.Green("New version %s is current for %q", detail.Content.Id, detail.Topic.Title)
		return printJSON(detail)
	},
}

func init() {
	regenerateCmd.Flags().String("owner", "", "owner id (UUID)")
	regenerateCmd.Flags().String("topic", "", "topic id (UUID)")
	regenerateCmd.Flags().String("notes", "", "source notes for the prompt")
	regenerateCmd.Flags().String("title", "", "title override used only in the prompt")
	_ = regenerateCmd.MarkFlagRequired("owner")
	_ = regenerateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(regenerateCmd)
}
