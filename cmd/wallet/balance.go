package main

import (
	"context"
	"fmt"

	solana "github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/kemerald25/wallet-app/internal/wallet"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the SOL balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("address: %w", err)
		}
		rt, err := loadRuntime(false)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx, cancel := context.WithTimeout(context.Background(), rt.timeout())
		defer cancel()
		net, err := rt.dial(ctx)
		if err != nil {
			return fmt.Errorf("network: %w", err)
		}
		lamports, err := net.GetBalance(ctx, owner)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %v SOL\n", owner, wallet.LamportsToSOL(lamports))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}
