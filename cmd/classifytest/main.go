package main

import (
	"fmt"
	"os"
	"time"

	"smsledger/internal/banks"
	"smsledger/internal/classify"
)

// classifytest runs a single message through the classifier and prints what
// the pipeline would do with it, without touching any database.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: classifytest <message> [sender]")
		os.Exit(1)
	}

	message := os.Args[1]
	sender := ""
	if len(os.Args) > 2 {
		sender = os.Args[2]
	}

	classifier := classify.New(banks.NewRegistry())

	ok, reason := classifier.IsTransactionMessage(message, sender)
	if !ok {
		fmt.Printf("REJECTED (%s)\n", reason)
		os.Exit(0)
	}

	tx, reason := classifier.Parse(message, sender, time.Now().UnixMilli())
	if tx == nil {
		fmt.Printf("REJECTED (%s)\n", reason)
		os.Exit(0)
	}

	fmt.Println("ACCEPTED")
	fmt.Printf("  Bank:        %s\n", tx.BankCode)
	fmt.Printf("  Direction:   %s\n", tx.Direction)
	fmt.Printf("  Amount:      %.2f\n", tx.Amount)
	fmt.Printf("  Merchant:    %s\n", orDash(tx.Merchant))
	fmt.Printf("  Description: %s\n", tx.Description)
	fmt.Printf("  Fingerprint: %s\n", tx.Fingerprint)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
