package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/mindchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mindchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the LLM and embedding providers and writes a .mindchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		if errors.Is(err, config.ErrAborted) {
			fmt.Println("Keeping the existing configuration.")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
