package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/dominoes/automatic"
	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/game"
	"github.com/domino14/dominoes/minimax"
	"github.com/domino14/dominoes/move"
	"github.com/domino14/dominoes/turnplayer"
)

func (sc *ShellController) requireGame() error {
	if sc.player == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	seed := sc.options.Seed
	if len(cmd.args) > 0 {
		var err error
		seed, err = strconv.ParseInt(cmd.args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed: %w", err)
		}
	}
	if sc.player == nil {
		if err := sc.newPlayer(); err != nil {
			return nil, err
		}
	}
	sc.player.NewGame(seed)
	return msg(fmt.Sprintf("New game (seed %d). You go first.\n%s",
		sc.player.State().Seed, sc.player.ToDisplayText())), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	return msg(sc.player.ToDisplayText()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	s := sc.player.State()
	ims := game.PlayerLegalMoves(s)
	if len(ims) == 0 {
		if len(s.Stock) > 0 {
			return msg("No legal plays; you must draw."), nil
		}
		return msg("No legal plays and the stock is empty; you must pass."), nil
	}
	var sb strings.Builder
	for _, im := range ims {
		fmt.Fprintf(&sb, "%3d: %v %v\n", im.TileIndex+1, s.Hands[game.PlayerHuman][im.TileIndex], im.End)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) afterHumanAction(what string, report *game.AITurnReport) *Response {
	var sb strings.Builder
	sb.WriteString(what)
	sb.WriteString("\n")
	if report != nil {
		sb.WriteString("The AI " + report.String() + ".\n")
	}
	sb.WriteString(sc.player.ToDisplayText())
	return msg(sb.String())
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	pa, err := turnplayer.ParsePlay(cmd.args)
	if err != nil {
		return nil, err
	}
	report, err := sc.player.Play(sc.ctx, pa)
	if err != nil {
		return nil, err
	}
	var what string
	h := sc.player.State().History
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Player == game.PlayerHuman && h[i].Type == move.MoveTypePlay {
			what = fmt.Sprintf("You play %v on the %v.", h[i].Tile, h[i].End)
			break
		}
	}
	return sc.afterHumanAction(what, report), nil
}

func (sc *ShellController) draw(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	t, err := sc.player.Draw()
	if err != nil {
		return nil, err
	}
	return sc.afterHumanAction(fmt.Sprintf("You drew %v.", t), nil), nil
}

func (sc *ShellController) pass(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	report, err := sc.player.Pass(sc.ctx)
	if err != nil {
		return nil, err
	}
	return sc.afterHumanAction("You pass.", report), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	if game.GameStatus(sc.player.State()).Over() {
		return nil, errors.New("the game is over")
	}
	cands, err := sc.player.Evaluate(sc.ctx)
	if errors.Is(err, minimax.ErrNoMoveAvailable) {
		return msg("You have no legal play."), nil
	} else if err != nil {
		return nil, err
	}
	best := minimax.Best(cands)
	var sb strings.Builder
	sb.WriteString("     Play            Score\n")
	for i, c := range cands {
		marker := " "
		if i == best {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s%3d: %-16s%s\n", marker, i+1, c.Move.ShortDescription(),
			minimax.ScoreString(c.Score))
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if err := sc.requireGame(); err != nil {
		return nil, err
	}
	h := sc.player.State().HistoryText()
	if h == "" {
		return msg("No moves yet."), nil
	}
	return msg(strings.TrimRight(h, "\n")), nil
}

func (sc *ShellController) optionsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, key := range []string{"depth", "policy", "threads", "memo", "seed"} {
		sb.WriteString("  " + key + ": " + sc.showOption(key) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) showOption(key string) string {
	switch key {
	case "depth":
		return strconv.Itoa(sc.options.Depth)
	case "policy":
		return sc.options.StuckPolicy
	case "threads":
		return strconv.Itoa(sc.options.Threads)
	case "memo":
		if sc.options.MemoFraction < 0 {
			return "off"
		}
		return "on"
	case "seed":
		return strconv.FormatInt(sc.options.Seed, 10)
	}
	return "No such option: " + key
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.optionsText()), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		return msg(sc.showOption(key)), nil
	}
	val := cmd.args[1]
	var err error
	switch key {
	case "depth":
		err = sc.options.SetDepth(val)
	case "policy":
		err = sc.options.SetStuckPolicy(val)
	case "threads":
		err = sc.options.SetThreads(val)
	case "memo":
		switch val {
		case "on", "true":
			sc.options.MemoFraction = sc.config.GetFloat64(config.ConfigSearchMemoMemoryFraction)
		case "off", "false":
			sc.options.MemoFraction = -1
		default:
			err = errors.New("memo is on or off")
		}
	case "seed":
		sc.options.Seed, err = strconv.ParseInt(val, 10, 64)
	default:
		err = errors.New("No such option: " + key)
	}
	if err != nil {
		return nil, err
	}
	if sc.player != nil {
		if err := sc.player.ApplyOptions(); err != nil {
			return nil, err
		}
	}
	return msg("set " + key + " to " + sc.showOption(key)), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "analyze" {
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: autoplay analyze <file>")
		}
		out, err := automatic.AnalyzeLogFile(cmd.args[1])
		if err != nil {
			return nil, err
		}
		return msg(out), nil
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: autoplay <games> [-threads n] [-p1 policy] [-p2 policy] [-file out.csv] [-seed n]")
	}
	numGames, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("bad number of games: %w", err)
	}
	opts := automatic.CompVCompOptions{
		NumGames:       numGames,
		Threads:        sc.config.GetInt(config.ConfigAutoplayThreads),
		Player1:        fmt.Sprintf("%s:%d", sc.options.StuckPolicy, sc.options.Depth),
		Player2:        fmt.Sprintf("%s:%d", sc.options.StuckPolicy, sc.options.Depth),
		OutputFilename: cmd.options["file"],
	}
	if v, ok := cmd.options["threads"]; ok {
		if opts.Threads, err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	if v, ok := cmd.options["p1"]; ok {
		opts.Player1 = v
	}
	if v, ok := cmd.options["p2"]; ok {
		opts.Player2 = v
	}
	if v, ok := cmd.options["seed"]; ok {
		if opts.BatchSeed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return nil, err
		}
	}
	sc.showMessage(fmt.Sprintf("Playing %d games on %d threads...", numGames, opts.Threads))
	summary, err := automatic.PlayCompVComp(sc.ctx, sc.config, opts)
	if err != nil {
		return nil, err
	}
	return msg(summary.String()), nil
}
