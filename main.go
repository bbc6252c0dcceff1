package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/minhnguyen-ai/askimo-sub004/cmd/askimo"
)

func main() {
	logger := zap.Must(zap.NewProduction())

	executionErr := askimo.Execute()
	if executionErr != nil {
		logger.Error("command execution failed", zap.Error(executionErr))
		_ = logger.Sync()
		os.Exit(1)
	}

	syncErr := logger.Sync()
	if syncErr != nil {
		os.Exit(1)
	}
}
