package main

import (
	"context"
	"fmt"
	"os"

	"github.com/threelok/news-relay/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
