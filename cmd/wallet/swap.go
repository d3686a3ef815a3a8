package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kemerald25/wallet-app/internal/swap"
	"github.com/kemerald25/wallet-app/internal/wallet"
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens through the configured pool table",
	Long: `Swap between two assets served by one pool. The connected wallet is the
keypair from SOLANA_PRIVATE_KEY_BASE58 or the wallet section of the config.

Examples:
  wallet swap 1 ORCA to SOL
  wallet swap 2.5 USDC to SOL`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
	req, err := swap.ParseCommand(strings.Join(args, " "))
	if err != nil {
		return err
	}

	rt, err := loadRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	net, err := rt.dial(ctx)
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	provider, err := wallet.Detect(rt.cfg.Wallet)
	if err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	session := wallet.NewSession()
	if err := session.Connect(ctx, provider, net); err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	defer func() { _ = session.Disconnect(context.Background(), provider) }()
	owner, err := session.Owner()
	if err != nil {
		return err
	}

	svc := swap.NewService(rt.log, rt.pools, rt.exchange(net), rt.history, rt.cfg.Exchange.SlippageBps)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Swapping %s %s to %s...", req.Amount, req.From, req.To)
	s.Start()
	rec, err := svc.Swap(ctx, owner, req)
	s.Stop()
	if err != nil {
		return err
	}

	color.Green("\nSwap submitted")
	fmt.Printf("  Transaction: %s\n", color.CyanString(rec.ID))
	fmt.Printf("  From:        %s %s\n", rec.Amount, color.YellowString(rec.From))
	fmt.Printf("  To:          %s\n", color.YellowString(rec.To))
	fmt.Printf("  Status:      %s\n\n", rec.Status)
	return nil
}
