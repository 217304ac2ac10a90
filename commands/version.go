package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "v1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of amazonip",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("amazonip " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
