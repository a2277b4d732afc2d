package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/intake/pkg/sdk"
	"github.com/ethanbaker/intake/pkg/utils"
)

// prompt is one form field asked for on the command line
type prompt struct {
	label string
	dst   *string
}

func main() {
	// Load global config
	cfg := utils.NewConfigFromEnv(utils.EnvFile())
	client := sdk.NewClient(cfg.GetWithDefault("INTAKE_API_URL", "http://localhost:8080"))

	var req sdk.SubmitRequest
	prompts := []prompt{
		{"Name", &req.Name},
		{"Email", &req.Email},
		{"GitHub URL", &req.GithubURL},
		{"LinkedIn URL", &req.LinkedinURL},
		{"Twitter URL", &req.TwitterURL},
	}

	fmt.Println("Project submission. Press Ctrl+D to cancel.")

	// Create scanner for reading user input
	scanner := bufio.NewScanner(os.Stdin)
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				log.Fatalf("[COMMANDLINE]: Error reading input: %v", err)
			}
			fmt.Println()
			return
		}
		*p.dst = strings.TrimSpace(scanner.Text())
	}

	resp, err := client.Submit(context.Background(), &req)
	if err != nil {
		var apiErr *sdk.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			fmt.Println("Submission rejected:")
			for _, f := range apiErr.Fields {
				fmt.Printf("  %s: %s\n", f.Field, f.Message)
			}
			os.Exit(1)
		}
		log.Fatalf("[COMMANDLINE]: Submission failed: %v", err)
	}

	fmt.Println(resp.Message)
}
