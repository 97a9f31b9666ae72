package main

import (
	"fmt"
	"os"

	"pomodoro/internal/app"
	"pomodoro/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(app.Name, app.Run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
