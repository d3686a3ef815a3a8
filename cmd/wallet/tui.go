package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kemerald25/wallet-app/internal/app"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive wallet menu",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	w := rt.newWallet()
	w.Mount(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		v := w.View()
		printHeader(v)

		fmt.Println("1) Connect / disconnect wallet")
		if v.Session.Connected {
			fmt.Println("2) Edit swap form")
			fmt.Println("3) Swap tokens")
			fmt.Println("4) Stake assets")
			fmt.Println("5) Yield farm")
			fmt.Println("6) Refresh balance")
		}
		fmt.Println("7) Show / hide transaction history")
		if len(v.Wallets) > 0 {
			fmt.Println("8) Switch wallet")
		}
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		switch strings.TrimSpace(input) {
		case "1":
			if v.Session.Connected {
				w.DisconnectWallet(ctx)
			} else {
				w.ConnectWallet(ctx)
			}
		case "2":
			editForm(reader, w, v)
		case "3":
			w.PerformSwap(ctx)
		case "4":
			w.HandleStaking(ctx)
		case "5":
			w.HandleYieldFarming(ctx)
		case "6":
			w.RefreshBalance(ctx)
		case "7":
			w.ToggleHistory()
		case "8":
			switchWallet(reader, w, v)
		case "0":
			return nil
		default:
			fmt.Println("unknown option")
		}
	}
}

func printHeader(v app.View) {
	fmt.Println("\n=== Solana Wallet ===")
	if v.Session.Connected {
		fmt.Printf("Connected: %s\n", color.CyanString(v.Session.Address))
	} else {
		fmt.Println("Connected: No")
	}
	fmt.Printf("Balance: %v SOL\n", v.Session.Balance)
	if !v.NetworkReady {
		color.Red("Network: unavailable")
	}
	if v.Selected != "" {
		fmt.Printf("Selected wallet: %s\n", v.Selected)
	}
	if v.Session.Connected {
		fmt.Printf("Swap: %s %s -> %s\n", v.Form.Amount, color.YellowString(v.Form.From), color.YellowString(v.Form.To))
	}
	if v.ShowHistory {
		fmt.Println("\n--- Transaction History ---")
		if len(v.History) == 0 {
			fmt.Println("(none)")
		}
		for _, rec := range v.History {
			fmt.Printf("%s  %s %s -> %s  %s  %s\n",
				rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Amount, rec.From, rec.To, rec.Status, rec.ID)
		}
	}
	fmt.Println()
}

func editForm(reader *bufio.Reader, w *app.Wallet, v app.View) {
	if !v.Session.Connected {
		fmt.Println("connect a wallet first")
		return
	}
	fmt.Println("\n--- Edit Swap ---")
	fmt.Printf("Assets: %s\n", strings.Join(v.Assets, ", "))
	from := promptString(reader, "From", v.Form.From)
	to := promptString(reader, "To", v.Form.To)
	amount := promptString(reader, "Amount", v.Form.Amount)
	w.SetForm(strings.ToUpper(from), strings.ToUpper(to), amount)
}

func switchWallet(reader *bufio.Reader, w *app.Wallet, v app.View) {
	for i, addr := range v.Wallets {
		marker := " "
		if addr == v.Selected {
			marker = "*"
		}
		fmt.Printf("%s %d) %s\n", marker, i+1, addr)
	}
	choice := promptString(reader, "Wallet number", "")
	var idx int
	if _, err := fmt.Sscanf(choice, "%d", &idx); err != nil || idx < 1 || idx > len(v.Wallets) {
		fmt.Println("invalid choice")
		return
	}
	w.SwitchWallet(v.Wallets[idx-1])
}

func promptString(reader *bufio.Reader, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	return line
}
