// Command claimsprep cleans a claims reliability table for modeling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if e := rootCmd.ExecuteContext(ctx); e != nil {
		fmt.Fprintln(os.Stderr, e)
		stop()
		os.Exit(1)
	}
}
