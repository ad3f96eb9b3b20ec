package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pookietodo/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pookie-todo",
		Short: "Pookie Todo API Server",
		Long:  `Pookie Todo is a multi-user to-do list API with token auth and an AI chat assistant.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
