package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default topics for an owner without content",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := parseOwner(cmd)
		if err != nil {
			return err
		}

		container, err := openContainer(cmd.Context())
		if err != nil {
			return err
		}
		defer container.Close()

		summary, err := container.TopicService.CreateDefaultTopics(cmd.Context(), owner)
		if err != nil {
			return err
		}
		if summary.TopicsCreated == 0 {
			color.Yellow("Owner already has %d topics, nothing created", len(summary.Topics))
		} else {
			color.Green("Created %d default topics", summary.TopicsCreated)
		}
		return printJSON(summary)
	},
}

func init() {
	seedCmd.Flags().String("owner", "", "owner id (UUID)")
	_ = seedCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(seedCmd)
}
