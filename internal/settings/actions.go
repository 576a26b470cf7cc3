package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/scholarship-tracker/internal/dashboard"
)

// EnvAPIKey is read when set-key is called without an argument.
const EnvAPIKey = "GEMINI_API_KEY"

func SetKeyAction(c *cli.Context) error {
	key := strings.TrimSpace(c.Args().First())
	if key == "" {
		key = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if key == "" {
		return fmt.Errorf("api key required: pass it as an argument or set %s", EnvAPIKey)
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.SaveAPIKey(c.Context, key)
}

func ClearKeyAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.ClearAPIKey(c.Context)
}

func ShowAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	keyStatus, err := s.APIKeyStatus(c.Context)
	if err != nil {
		return err
	}
	resume, err := s.Resume(c.Context)
	if err != nil {
		return err
	}

	fmt.Println(keyStatus)
	if resume == "" {
		fmt.Println("No resume saved.")
	} else {
		fmt.Printf("Resume loaded. (%d characters)\n", len([]rune(resume)))
	}
	fmt.Printf("Database:      %s\n", s.DB.Path())
	fmt.Printf("Model:         %s\n", s.Config.Gemini.Model)
	fmt.Printf("Review delay:  %s\n", s.Config.Review.Delay)
	fmt.Printf("Load timeout:  %s\n", s.Config.Review.LoadTimeout)
	return nil
}

// SetResumeAction stores resume text from --file or the joined arguments.
// Empty text clears the saved resume.
func SetResumeAction(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read resume file: %w", err)
		}
		text = string(data)
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.SaveResume(c.Context, text)
}

func ResumeAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	resume, err := s.Resume(c.Context)
	if err != nil {
		return err
	}
	if resume == "" {
		fmt.Println("No resume saved.")
		return nil
	}
	fmt.Println(resume)
	return nil
}
