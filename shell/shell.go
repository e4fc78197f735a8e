package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dominoes/board"
	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/tiles"
	"github.com/domino14/dominoes/turnplayer"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("please start a game first with the `new` command")
)

const prompt = "\033[31mdomino>\033[0m "

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string

	options *turnplayer.GameOptions
	player  *turnplayer.TurnPlayer

	ctx       context.Context
	cancel    context.CancelFunc
	searchLog *os.File
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController sets up an interactive shell on the terminal.
func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := newController(cfg, execPath)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// newController builds a controller with no terminal attached. Output goes
// to stderr until a terminal or another writer is set.
func newController(cfg *config.Config, execPath string) *ShellController {
	opts := &turnplayer.GameOptions{}
	opts.SetDefaults(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		out:      os.Stderr,
		config:   cfg,
		execPath: execPath,
		options:  opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// chooseDirection asks on the terminal which end a tile should go on.
func (sc *ShellController) chooseDirection(b board.Board, t tiles.Tile) (board.End, error) {
	if sc.l == nil {
		return board.Left, fmt.Errorf("%v fits both ends; say which with `play <n> left|right`", t)
	}
	defer sc.l.SetPrompt(prompt)
	for {
		sc.l.SetPrompt(fmt.Sprintf("%v fits both ends of %s. left or right? ", t, b.ToDisplayText()))
		line, err := sc.l.Readline()
		if err != nil {
			return board.Left, err
		}
		e, err := board.ParseEnd(line)
		if err == nil {
			return e, nil
		}
		sc.showError(err)
	}
}

func (sc *ShellController) newPlayer() error {
	p, err := turnplayer.NewTurnPlayer(sc.options,
		turnplayer.DirectionChooserFunc(sc.chooseDirection))
	if err != nil {
		return err
	}
	if path := sc.config.GetString(config.ConfigSearchLogFile); path != "" {
		if sc.searchLog == nil {
			sc.searchLog, err = os.Create(path)
			if err != nil {
				return err
			}
		}
		p.Solver().SetLogStream(sc.searchLog)
	}
	sc.player = p
	return nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	// Options are -key value pairs; everything else is an argument.
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	log.Debug().Msgf("cmd: %v, args: %v, options: %v", cmd, args, options)
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help", "h":
		return sc.help(cmd)
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves", "m":
		return sc.moves(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "draw", "d":
		return sc.draw(cmd)
	case "pass":
		return sc.pass(cmd)
	case "hint":
		return sc.hint(cmd)
	case "history":
		return sc.history(cmd)
	case "set":
		return sc.set(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line and prints its result.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if line == "exit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops anything still running and closes open files.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if sc.searchLog != nil {
		sc.searchLog.Close()
	}
}
