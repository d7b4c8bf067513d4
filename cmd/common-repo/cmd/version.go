package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	commonrepo "github.com/gizzahub/common-repo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(commonrepo.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
