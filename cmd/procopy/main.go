package main

import (
	"fmt"
	"os"

	apperrors "procopy/internal/errors"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}
