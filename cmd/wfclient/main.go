// Command wfclient sends one request to a freshly spawned wordfix server
// and prints the decoded response. It is a debugging aid for the IPC
// protocol.
//
//	wfclient helo
//	wfclient -action add -w wordfix -lang en
//	wfclient -action export -path words.zip
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/bastiangx/wordfix/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

func main() {
	bin := flag.String("bin", "./wordfix", "Path to the wordfix binary")
	action := flag.String("action", server.ActionSuggest, "Request action")
	limit := flag.Int("l", 0, "Number of suggestions")
	word := flag.String("w", "", "Word for add/remove")
	lang := flag.String("lang", "", "Language code")
	path := flag.String("path", "", "Archive path for export/import")
	mode := flag.String("mode", "", "Import mode: merge or replace")
	debug := flag.Bool("d", false, "Start the server in debug mode")
	flag.Parse()

	req := server.Request{
		ID:     "wfclient",
		Action: *action,
		Limit:  *limit,
		Word:   *word,
		Lang:   *lang,
		Path:   *path,
		Mode:   *mode,
	}
	// trailing args are text: the last one is the token, the rest context
	if args := flag.Args(); len(args) > 0 {
		req.Token = args[len(args)-1]
		req.Context = args[:len(args)-1]
	}

	if err := run(*bin, *debug, req); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(bin string, debug bool, req server.Request) error {
	requestData, err := msgpack.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	log.Debugf("Encoded request (%d bytes): %x", len(requestData), requestData)

	var args []string
	if debug {
		args = append(args, "-d")
	}
	cmd := exec.Command(bin, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", bin, err)
	}

	if _, err := stdin.Write(requestData); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	stdin.Close()

	dec := msgpack.NewDecoder(stdout)
	for {
		var resp server.Response
		if err := dec.Decode(&resp); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode response: %w", err)
		}
		if resp.Status == server.StatusReady {
			continue
		}
		printResponse(req, resp)
	}
	return cmd.Wait()
}

func printResponse(req server.Request, resp server.Response) {
	if resp.Status == server.StatusError {
		fmt.Printf("Error: %s (code: %d)\n", resp.Error, resp.Code)
		return
	}
	fmt.Printf("Time: %d microseconds\n", resp.TimeTaken)
	switch req.Action {
	case server.ActionSuggest:
		fmt.Printf("Suggestions for '%s' (%d):\n", req.Token, resp.Count)
		for _, s := range resp.Suggestions {
			fmt.Printf("  %d. %s (%.2f, %s)\n", s.Rank, s.Word, s.Confidence, s.Source)
		}
		if resp.AutoApply {
			fmt.Println("  auto-apply")
		}
	case server.ActionIgnore:
		fmt.Printf("Ignore '%s': %t\n", req.Token, resp.Ignore)
	case server.ActionList:
		if req.Lang != "" {
			fmt.Printf("%s: %s\n", req.Lang, strings.Join(resp.Words, ", "))
			return
		}
		for lang, words := range resp.ByLanguage {
			fmt.Printf("%s: %s\n", lang, strings.Join(words, ", "))
		}
	case server.ActionRemove:
		fmt.Printf("Removed: %t\n", resp.Removed)
	case server.ActionImport:
		fmt.Printf("Imported %d words: %d added, %d skipped, %d invalid\n",
			resp.Count, resp.Added, resp.Skipped, resp.Errors)
	case server.ActionHealth:
		for k, v := range resp.Stats {
			fmt.Printf("  %s: %d\n", k, v)
		}
	default:
		fmt.Printf("OK (%d)\n", resp.Count)
	}
}
