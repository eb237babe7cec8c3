// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/backup"
	"github.com/bastiangx/wordfix/pkg/personal"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// InputHandler reads lines of text and corrects the last token of each
// line against the tokens before it. Lines starting with ':' are commands
// for the personal dictionary:
//
//	:add <word> [lang]
//	:rm <word> [lang]
//	:list [lang]
//	:clear [lang]
//	:export <path>
//	:import <path> [merge|replace]
//	:quit
type InputHandler struct {
	corrector    suggest.ICorrector
	manager      *personal.Manager
	codec        *backup.Codec
	out          *log.Logger
	suggestLimit int
	maxToken     int
	defaultLang  string
}

// NewInputHandler creates a handler printing through out.
func NewInputHandler(corrector suggest.ICorrector, manager *personal.Manager, codec *backup.Codec, out *log.Logger, limit, maxToken int, defaultLang string) *InputHandler {
	return &InputHandler{
		corrector:    corrector,
		manager:      manager,
		codec:        codec,
		out:          out,
		suggestLimit: limit,
		maxToken:     maxToken,
		defaultLang:  defaultLang,
	}
}

// Start begins the interface loop. It returns nil on EOF or :quit.
func (h *InputHandler) Start(ctx context.Context, in io.Reader) error {
	h.out.Print("wordfix CLI [BETA]")
	h.out.Print("type some text and press Enter to correct its last word, :help for commands (Ctrl+C to exit):")

	reader := bufio.NewReader(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if !h.HandleLine(ctx, line) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// HandleLine processes one line. It returns false when the user asked to quit.
func (h *InputHandler) HandleLine(ctx context.Context, line string) bool {
	if strings.HasPrefix(line, ":") {
		return h.handleCommand(ctx, strings.Fields(line[1:]))
	}
	h.handleText(line)
	return true
}

func (h *InputHandler) handleText(line string) {
	tokens := utils.Tokenize(line)
	if len(tokens) == 0 {
		return
	}
	token := tokens[len(tokens)-1]
	preceding := tokens[:len(tokens)-1]

	if len([]rune(token)) > h.maxToken {
		h.out.Errorf("Token too long: %s", token)
		return
	}
	if h.corrector.ShouldIgnore(token) {
		h.out.Infof("'%s' is ignored (acronym, number or address)", token)
		return
	}

	start := time.Now()
	suggestions := h.corrector.Suggest(token, h.suggestLimit, preceding)
	log.Debugf("Took [ %v ] for token '%s'", time.Since(start), token)

	if len(suggestions) == 0 {
		h.out.Printf("'%s' looks fine", token)
		return
	}
	h.out.Printf("Found %d suggestions for '%s':", len(suggestions), token)
	for i, s := range suggestions {
		h.out.Printf("%2d. %-24s %.2f %s", i+1, wordStyle.Render(s.Replacement), s.Confidence, sourceStyle.Render(string(s.Source)))
	}
	if h.corrector.ShouldAutoApply(suggestions) {
		h.out.Printf("would auto-apply '%s'", suggestions[0].Replacement)
	}
}

func (h *InputHandler) lang(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return h.defaultLang
}

func (h *InputHandler) handleCommand(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		h.printHelp()
		return true
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "quit", "q":
		return false
	case "add":
		if len(args) == 0 {
			h.out.Error("usage: :add <word> [lang]")
			return true
		}
		if err := h.manager.AddWord(ctx, args[0], h.lang(args, 1)); err != nil {
			h.out.Errorf("add '%s': %v", args[0], err)
			return true
		}
		h.out.Infof("added '%s' to %s", args[0], h.lang(args, 1))
	case "rm":
		if len(args) == 0 {
			h.out.Error("usage: :rm <word> [lang]")
			return true
		}
		removed, err := h.manager.RemoveWord(ctx, args[0], h.lang(args, 1))
		switch {
		case err != nil:
			h.out.Errorf("remove '%s': %v", args[0], err)
		case removed:
			h.out.Infof("removed '%s'", args[0])
		default:
			h.out.Warnf("'%s' is not a custom word in %s", args[0], h.lang(args, 1))
		}
	case "list":
		if len(args) > 0 {
			words := h.manager.ListCustomWords(args[0])
			h.out.Printf("%s (%d): %s", args[0], len(words), strings.Join(words, ", "))
			return true
		}
		for lang, words := range h.manager.ListAllCustomWordsByLanguage() {
			h.out.Printf("%s (%d): %s", lang, len(words), strings.Join(words, ", "))
		}
	case "clear":
		var (
			n   int
			err error
		)
		if len(args) > 0 {
			n, err = h.manager.ClearCustomWords(ctx, args[0])
		} else {
			n, err = h.manager.ClearAll(ctx)
		}
		if err != nil {
			h.out.Errorf("clear: %v", err)
			return true
		}
		h.out.Infof("cleared %d custom words", n)
	case "export":
		if len(args) == 0 {
			h.out.Error("usage: :export <path>")
			return true
		}
		m, err := h.codec.ExportFile(ctx, args[0])
		if err != nil {
			h.out.Errorf("export: %v", err)
			return true
		}
		h.out.Infof("exported %d words in %d languages to %s", m.TotalWords(), len(m.Languages), args[0])
	case "import":
		if len(args) == 0 {
			h.out.Error("usage: :import <path> [merge|replace]")
			return true
		}
		modeArg := ""
		if len(args) > 1 {
			modeArg = args[1]
		}
		mode, err := backup.ParseImportMode(modeArg)
		if err != nil {
			h.out.Errorf("import: %v", err)
			return true
		}
		summary, err := h.codec.ImportFile(ctx, args[0], mode)
		if err != nil {
			h.out.Errorf("import: %v", err)
			return true
		}
		h.out.Infof("imported %d words: %d added, %d skipped, %d invalid",
			summary.TotalWords, summary.AddedWords, summary.SkippedWords, summary.ErrorWords)
	default:
		h.printHelp()
	}
	return true
}

func (h *InputHandler) printHelp() {
	h.out.Print("commands: :add <word> [lang], :rm <word> [lang], :list [lang], :clear [lang], :export <path>, :import <path> [merge|replace], :quit")
}
