package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/dominoes/config"
	"github.com/domino14/dominoes/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay 10 -file /path/to/log.csv",
			&shellcmd{"autoplay", []string{"10"}, map[string]string{"file": "/path/to/log.csv"}},
			nil},
		{"play 3 left",
			&shellcmd{"play", []string{"3", "left"}, map[string]string{}},
			nil},
		{"autoplay analyze 'my games.csv' ",
			&shellcmd{"autoplay",
				[]string{"analyze", "my games.csv"},
				map[string]string{}},
			nil,
		},
		{"autoplay 100 -p1 extreme:4 -p2 random -threads 4",
			&shellcmd{"autoplay", []string{"100"},
				map[string]string{"p1": "extreme:4", "p2": "random", "threads": "4"}},
			nil},
		{"autoplay 100 -file",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	sc := newController(config.DefaultConfig(), "")
	var buf bytes.Buffer
	sc.out = &buf
	t.Cleanup(sc.Cleanup)
	return sc, &buf
}

func TestNeedsGame(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	for _, line := range []string{"show", "moves", "play 1", "draw", "pass", "hint", "history"} {
		_, err := sc.handle(line)
		is.Equal(err, errNoGame)
	}
	_, err := sc.handle("shuffle")
	is.True(err != nil)
}

func TestNewGameAndShow(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	resp, err := sc.handle("new 42")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "seed 42"))
	is.True(strings.Contains(resp.message, "Your hand: 1:"))
	is.Equal(sc.player.State().Seed, int64(42))

	resp, err = sc.handle("show")
	is.NoErr(err)
	is.Equal(resp.message, game.NewGame(42).ToDisplayText())

	// every tile fits both ends of an empty board
	resp, err = sc.handle("moves")
	is.NoErr(err)
	is.Equal(len(strings.Split(resp.message, "\n")), 14)

	resp, err = sc.handle("history")
	is.NoErr(err)
	is.Equal(resp.message, "No moves yet.")
}

func TestPlayThroughShell(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := sc.handle("new 7")
	is.NoErr(err)

	resp, err := sc.handle("p 1")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "You play "))
	is.True(strings.Contains(resp.message, "The AI "))
	s := sc.player.State()
	is.NoErr(s.CheckPartition())
	is.True(len(s.History) >= 2)
	is.Equal(s.History[0].Player, game.PlayerHuman)

	_, err = sc.handle("play 99")
	is.True(errors.Is(err, game.ErrIllegalMove))

	resp, err = sc.handle("history")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "human plays"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	resp, err := sc.handle("set")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "depth: 3"))
	is.True(strings.Contains(resp.message, "policy: pass"))

	_, err = sc.handle("new 3")
	is.NoErr(err)

	resp, err = sc.handle("set depth 5")
	is.NoErr(err)
	is.Equal(resp.message, "set depth to 5")
	is.Equal(sc.player.Solver().Depth(), 5)

	_, err = sc.handle("set depth 0")
	is.True(err != nil)
	is.Equal(sc.player.Solver().Depth(), 5)

	_, err = sc.handle("set policy extreme")
	is.NoErr(err)
	is.Equal(sc.player.Solver().StuckPolicy().String(), "extreme")

	_, err = sc.handle("set policy sometimes")
	is.True(err != nil)

	resp, err = sc.handle("set memo off")
	is.NoErr(err)
	is.Equal(resp.message, "set memo to off")

	_, err = sc.handle("set colour blue")
	is.True(err != nil)
}

func TestHint(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := sc.handle("new 11")
	is.NoErr(err)
	resp, err := sc.handle("hint")
	is.NoErr(err)
	lines := strings.Split(resp.message, "\n")
	// header plus one line per legal play
	is.Equal(len(lines), 1+len(game.PlayerLegalMoves(sc.player.State())))
	is.Equal(strings.Count(resp.message, "*"), 1)
	is.Equal(len(sc.player.State().History), 0)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, buf := testController(t)
	resp, err := sc.handle("help")
	is.NoErr(err)
	is.Equal(resp, nil)
	is.True(strings.Contains(buf.String(), "play (p) <n> [end]"))

	buf.Reset()
	_, err = sc.handle("help autoplay")
	is.NoErr(err)
	is.True(strings.HasPrefix(buf.String(), "autoplay <games>"))

	buf.Reset()
	_, err = sc.handle("help juggling")
	is.NoErr(err)
	is.Equal(buf.String(), "There is no help text for the topic juggling\n")
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	logfile := filepath.Join(t.TempDir(), "games.csv")
	resp, err := sc.handle("autoplay 4 -threads 2 -p1 pass:1 -p2 random -seed 99 -file " + logfile)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Games played: 4"))

	resp, err = sc.handle("autoplay analyze " + logfile)
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "Games played: 4"))

	_, err = sc.handle("autoplay many")
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	script := filepath.Join(dir, "game.lua")
	body := `
local f = io.open("` + out + `", "w")
domino_new(5)
f:write(domino_status(), "\n")
local r = domino_play("99")
f:write(string.sub(r, 1, 6), "\n")
domino_set("depth 2")
local st = domino_state()
f:write(st.seed, " ", #st.hands[1], " ", st.onturn, "\n")
f:write(domino_show())
f:close()
`
	is.NoErr(os.WriteFile(script, []byte(body), 0644))

	_, err := sc.handle("script " + script)
	is.NoErr(err)
	is.Equal(sc.player.Solver().Depth(), 2)

	dat, err := os.ReadFile(out)
	is.NoErr(err)
	lines := strings.SplitN(string(dat), "\n", 4)
	is.Equal(lines[0], "in-progress")
	is.Equal(lines[1], "ERROR:")
	is.Equal(lines[2], "5 7 human")
	is.Equal(lines[3], game.NewGame(5).ToDisplayText())
}
