package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var poolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "List supported asset pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(false)
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Println()
		for _, e := range rt.pools.Entries() {
			a, _ := rt.catalog.Lookup(e.TokenA)
			b, _ := rt.catalog.Lookup(e.TokenB)
			fmt.Printf("  %-12s %s <-> %s\n", color.CyanString(string(e.Config)), a.Name, b.Name)
			fmt.Printf("  %-12s %s\n  %-12s %s\n", "", a.Mint, "", b.Mint)
		}
		fmt.Printf("\nAssets: %v\n\n", rt.catalog.Symbols())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(poolsCmd)
}
