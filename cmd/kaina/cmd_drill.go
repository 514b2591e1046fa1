package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// apiPost sends a JSON request to the daemon and decodes the response into out.
func apiPost(path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := http.Post(daemonAddr+path, "application/json", &buf)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(path, resp, out)
}

// apiGet fetches from the daemon and decodes the response into out.
func apiGet(path string, out interface{}) error {
	resp, err := http.Get(daemonAddr + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(path, resp, out)
}

// apiDelete issues a DELETE to the daemon.
func apiDelete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, daemonAddr+path, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(path, resp, nil)
}

func decodeResponse(path string, resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			if apiErr.Details != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Details)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// createSession opens a drill session for the default learner.
func createSession() (string, error) {
	var sess struct {
		ID string `json:"id"`
	}
	if err := apiPost("/v1/sessions", nil, &sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sess.ID, nil
}

// diffSegment mirrors the daemon's graded-answer diff payload.
type diffSegment struct {
	Op       string `json:"op"`
	Expected string `json:"expected,omitempty"`
	Given    string `json:"given,omitempty"`
}

type answerResult struct {
	Correct  bool          `json:"correct"`
	Expected string        `json:"expected"`
	Given    string        `json:"given"`
	Diff     []diffSegment `json:"diff,omitempty"`
	Streak   int           `json:"streak"`
}

// cmdDrill runs the interactive practice loop.
func cmdDrill() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'kaina start' first)")
	}

	sessionID, err := createSession()
	if err != nil {
		return err
	}
	defer func() { _ = apiDelete("/v1/sessions/" + sessionID) }()

	fmt.Println("Kaina drill — answer with the full price phrase, e.g. \"penki eurai\".")
	fmt.Println("Type 'quit' to stop.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	answered, correct := 0, 0

	for {
		var next struct {
			Prompt string `json:"prompt"`
		}
		if err := apiPost("/v1/sessions/"+sessionID+"/next", nil, &next); err != nil {
			return fmt.Errorf("next exercise: %w", err)
		}

		fmt.Printf("  %s\n", next.Prompt)
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		given := strings.TrimSpace(line)
		if given == "quit" || given == "exit" || given == "q" {
			break
		}
		if given == "" {
			fmt.Println("  (skipped)")
			fmt.Println()
			continue
		}

		var result answerResult
		if err := apiPost("/v1/sessions/"+sessionID+"/answer",
			map[string]string{"answer": given}, &result); err != nil {
			return fmt.Errorf("submit answer: %w", err)
		}

		answered++
		if result.Correct {
			correct++
			fmt.Print("  ✓ Teisingai!")
			if result.Streak >= 3 {
				fmt.Printf(" (streak: %d)", result.Streak)
			}
			fmt.Println()
		} else {
			fmt.Println("  ✗ Neteisingai.")
			fmt.Printf("  Expected: %s\n", result.Expected)
			if hint := renderDiff(result.Diff); hint != "" {
				fmt.Printf("  Diff:     %s\n", hint)
			}
		}
		fmt.Println()
	}

	if answered > 0 {
		fmt.Printf("Session: %d answered, %d correct (%.0f%%)\n",
			answered, correct, float64(correct)/float64(answered)*100)
	}
	return nil
}

// renderDiff marks the wrong words of a graded answer: deletions are the
// expected words that were missed, insertions the extra ones given.
func renderDiff(segs []diffSegment) string {
	var parts []string
	for _, seg := range segs {
		switch seg.Op {
		case "equal":
			parts = append(parts, seg.Expected)
		case "replace":
			parts = append(parts, fmt.Sprintf("[%s → %s]", seg.Given, seg.Expected))
		case "delete":
			parts = append(parts, fmt.Sprintf("[missing: %s]", seg.Expected))
		case "insert":
			parts = append(parts, fmt.Sprintf("[extra: %s]", seg.Given))
		}
	}
	return strings.Join(parts, " ")
}
