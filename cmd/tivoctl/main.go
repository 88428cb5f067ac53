package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tivoctl",
	Short: "TiVo set-top box control CLI",
	Long:  `A command line interface for controlling TiVo-based set-top boxes over their TCP remote protocol.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
