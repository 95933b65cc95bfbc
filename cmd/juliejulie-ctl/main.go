package main

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
)

// wakePattern mirrors the spoken trigger: command text is wrapped between the
// wake phrase and the terminator, "Julie Julie what time is it stop".
var wakePattern = regexp.MustCompile(`(?i)julie\s+julie\s+(.+?)\s+stop`)

func main() {
	serverURL := flag.String("server", "http://127.0.0.1:58586", "Julie Julie server URL")
	flag.Parse()

	client := &http.Client{Timeout: 60 * time.Second}

	if !serverOnline(client, *serverURL) {
		fmt.Fprintf(os.Stderr, "ERROR: Julie Julie server is not running at %s\n", *serverURL)
		fmt.Fprintln(os.Stderr, "Start it first with: juliejulie")
		os.Exit(1)
	}

	fmt.Println("Julie Julie Terminal Input Mode")
	fmt.Println("==============================")
	fmt.Println()
	fmt.Println("Format: 'Julie Julie [your command] stop'")
	fmt.Println("Example: 'Julie Julie what time is it stop'")
	fmt.Println("Type 'exit' to quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(line, "exit") {
			fmt.Println("Goodbye!")
			return
		}
		if line == "" {
			continue
		}

		if m := wakePattern.FindStringSubmatch(line); m != nil {
			cmd := strings.TrimSpace(m[1])
			fmt.Printf("Sending command: %q\n", cmd)
			sendCommand(client, *serverURL, cmd)
			continue
		}

		if strings.HasPrefix(strings.ToLower(line), "julie julie") {
			fmt.Println("Missing 'stop' keyword. Format: 'Julie Julie [command] stop'")
			continue
		}

		// Direct commands work too, handy for testing.
		fmt.Printf("Direct command: %q\n", line)
		sendCommand(client, *serverURL, line)
	}
}

func serverOnline(client *http.Client, serverURL string) bool {
	probe := &http.Client{Timeout: 2 * time.Second}
	res, err := probe.Get(serverURL + "/")
	if err != nil {
		return false
	}
	res.Body.Close()
	return res.StatusCode == http.StatusOK
}

func sendCommand(client *http.Client, serverURL, text string) {
	form := url.Values{"text_command": {text}}
	res, err := client.PostForm(serverURL+"/activate_listening", form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error communicating with server: %v\n", err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "error: server returned status %d\n", res.StatusCode)
		return
	}
	fmt.Printf("Julie Julie processed: %q\n", text)
}
