package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// withSession runs fn against a throwaway session for the default
// learner; stats and weak-area queries are session-scoped on the API.
func withSession(fn func(sessionID string) error) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'kaina start' first)")
	}

	sessionID, err := createSession()
	if err != nil {
		return err
	}
	defer func() { _ = apiDelete("/v1/sessions/" + sessionID) }()

	return fn(sessionID)
}

// cmdStats shows drill statistics
func cmdStats() error {
	return withSession(func(sessionID string) error {
		var report struct {
			Learner struct {
				Total         int     `json:"total"`
				Correct       int     `json:"correct"`
				Incorrect     int     `json:"incorrect"`
				Accuracy      float64 `json:"accuracy"`
				CurrentStreak int     `json:"current_streak"`
			} `json:"learner"`
		}
		if err := apiGet("/v1/sessions/"+sessionID+"/stats", &report); err != nil {
			return fmt.Errorf("get stats: %w", err)
		}

		fmt.Println("Drill Statistics")
		fmt.Println("================")

		l := report.Learner
		if l.Total == 0 {
			fmt.Println("No answers recorded yet. Run 'kaina drill' to practice!")
			return nil
		}

		bar := renderProgressBar(l.Accuracy/100, 20)
		fmt.Printf("Answered:   %d\n", l.Total)
		fmt.Printf("Correct:    %d\n", l.Correct)
		fmt.Printf("Incorrect:  %d\n", l.Incorrect)
		fmt.Printf("Accuracy:   %s %.1f%%\n", bar, l.Accuracy)
		fmt.Printf("Streak:     %d\n", l.CurrentStreak)

		return nil
	})
}

// cmdWeak shows the weakest skill areas
func cmdWeak() error {
	return withSession(func(sessionID string) error {
		var report struct {
			ExerciseTypes    []weakArea `json:"exercise_types"`
			NumberPatterns   []weakArea `json:"number_patterns"`
			GrammaticalCases []weakArea `json:"grammatical_cases"`
		}
		if err := apiGet("/v1/sessions/"+sessionID+"/weak-areas", &report); err != nil {
			return fmt.Errorf("get weak areas: %w", err)
		}

		fmt.Println("Weak Areas")
		fmt.Println("==========")

		empty := true
		empty = !printWeakSection("Question types", report.ExerciseTypes) && empty
		empty = !printWeakSection("Number patterns", report.NumberPatterns) && empty
		empty = !printWeakSection("Grammatical cases", report.GrammaticalCases) && empty

		if empty {
			fmt.Println("Not enough answers yet. Keep drilling!")
		}
		return nil
	})
}

type weakArea struct {
	Name        string  `json:"name"`
	SuccessRate float64 `json:"success_rate"`
}

// printWeakSection renders one category of the report; it reports whether
// anything was printed.
func printWeakSection(title string, areas []weakArea) bool {
	if len(areas) == 0 {
		return false
	}
	fmt.Printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	for _, area := range areas {
		bar := renderProgressBar(area.SuccessRate, 20)
		fmt.Printf("%-15s %s %.0f%%\n", area.Name, bar, area.SuccessRate*100)
	}
	return true
}

// cmdReset wipes all recorded progress after confirmation
func cmdReset() error {
	fmt.Print("This wipes all recorded progress. Continue? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	if answer := strings.TrimSpace(strings.ToLower(line)); answer != "y" && answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	return withSession(func(sessionID string) error {
		if err := apiPost("/v1/sessions/"+sessionID+"/reset", nil, nil); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Println("Progress wiped. The engine starts from a cold state.")
		return nil
	})
}
