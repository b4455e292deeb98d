// ABOUTME: Entry point for the quizz CLI
// ABOUTME: Terminal client for turning PDFs into multiple-choice quizzes

package main

import (
	"fmt"
	"os"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
