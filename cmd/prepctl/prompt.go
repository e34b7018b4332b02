package main

import (
	"fmt"

	"interview-prep-be/pkg/prep/prompt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system and user prompt built for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		notes, _ := cmd.Flags().GetString("notes")
		style, _ := cmd.Flags().GetString("style")
		minChars, _ := cmd.Flags().GetInt("min-chars")

		policy := prompt.DefaultPolicy()
		policy.MinChars = minChars
		builder := prompt.NewBuilder(policy)
		p := builder.BuildContent(prompt.ContentInput{
			Title:       title,
			SourceNotes: notes,
			Style:       prompt.ParseStyle(style),
		})

		if policy.IsMeaningful(notes) {
			color.Green("source notes: meaningful")
		} else {
			color.Yellow("source notes: limited, model will use typical experience")
		}
		color.Cyan("\n=== SYSTEM ===")
		fmt.Println(p.System)
		color.Cyan("\n=== USER ===")
		fmt.Println(p.User)
		return nil
	},
}

func init() {
	promptCmd.Flags().String("title", "", "topic title")
	promptCmd.Flags().String("notes", "", "source notes")
	promptCmd.Flags().String("style", string(prompt.StyleQA), "cross-question style: qa or plain")
	promptCmd.Flags().Int("min-chars", prompt.DefaultPolicy().MinChars, "minimum characters for meaningful notes")
	_ = promptCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(promptCmd)
}
