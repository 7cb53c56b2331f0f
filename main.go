package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := newRootCommand(log).Execute(); err != nil {
		if !errors.Is(err, errProblemsFound) {
			log.Errorf("Analysis failed: %v", err)
		}
		os.Exit(1)
	}
}
