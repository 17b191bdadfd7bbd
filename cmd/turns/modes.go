package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tricky-turns/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:     "modes",
	Aliases: []string{"list"},
	Short:   "List all game modes",
	Long:    `Shows every game mode with its ID and name. Either can be passed to play and scores.`,
	Run:     runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	modes := registry.List()

	if len(modes) == 0 {
		fmt.Println("No modes available.")
		return
	}

	fmt.Println("Game modes:")
	fmt.Println()

	maxNameLen := len("Name")
	for _, m := range modes {
		maxNameLen = max(maxNameLen, len(m.Name))
	}

	fmt.Printf("  %-3s  %-*s  %s\n", "ID", maxNameLen, "Name", "Description")
	fmt.Printf("  %-3s  %-*s  %s\n", "--", maxNameLen, "----", "-----------")
	for _, m := range modes {
		fmt.Printf("  %-3d  %-*s  %s\n", m.ID, maxNameLen, m.Name, m.Description)
	}

	fmt.Println()
	fmt.Println("Run 'turns play <name>' to play a mode.")
}
