package main

import (
	"context"
	"os"

	"github.com/grachmannico95/payment-engine/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
