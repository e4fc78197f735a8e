package shell

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"

	"github.com/domino14/dominoes/game"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("domino_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand runs a shell command for a script and pushes its output, or
// an ERROR string, as the single result.
func luaCommand(L *lua.LState, name string,
	fn func(*ShellController, *shellcmd) (*Response, error)) int {

	line := strings.TrimSpace(name + " " + L.ToString(1))
	sc := getShell(L)
	cmd, err := extractFields(line)
	if err != nil {
		log.Err(err).Msg("error-parsing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	r, err := fn(sc, cmd)
	if err != nil {
		log.Err(err).Msg("error-executing-" + name)
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
	} else {
		L.Push(lua.LString(r.message))
	}
	// return number of results pushed to stack.
	return 1
}

func New(L *lua.LState) int {
	return luaCommand(L, "new", (*ShellController).newGame)
}

func Play(L *lua.LState) int {
	return luaCommand(L, "play", (*ShellController).play)
}

func Draw(L *lua.LState) int {
	return luaCommand(L, "draw", (*ShellController).draw)
}

func Pass(L *lua.LState) int {
	return luaCommand(L, "pass", (*ShellController).pass)
}

func Show(L *lua.LState) int {
	return luaCommand(L, "show", (*ShellController).show)
}

func Hint(L *lua.LState) int {
	return luaCommand(L, "hint", (*ShellController).hint)
}

func Set(L *lua.LState) int {
	return luaCommand(L, "set", (*ShellController).set)
}

func Autoplay(L *lua.LState) int {
	return luaCommand(L, "autoplay", (*ShellController).autoplay)
}

func Status(L *lua.LState) int {
	sc := getShell(L)
	if sc.player == nil {
		L.Push(lua.LString("ERROR: " + errNoGame.Error()))
		return 1
	}
	L.Push(lua.LString(game.GameStatus(sc.player.State()).String()))
	return 1
}

// State returns the whole game state as a Lua table, hands and stock
// included.
func State(L *lua.LState) int {
	sc := getShell(L)
	if sc.player == nil {
		L.Push(lua.LNil)
		return 1
	}
	dat, err := json.Marshal(sc.player.State())
	if err != nil {
		log.Err(err).Msg("error-marshalling-state")
		L.Push(lua.LNil)
		return 1
	}
	v, err := luajson.Decode(L, dat)
	if err != nil {
		log.Err(err).Msg("error-decoding-state")
		L.Push(lua.LNil)
		return 1
	}
	L.Push(v)
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("domino_shell", lsc)
	L.SetGlobal("domino_new", L.NewFunction(New))
	L.SetGlobal("domino_play", L.NewFunction(Play))
	L.SetGlobal("domino_draw", L.NewFunction(Draw))
	L.SetGlobal("domino_pass", L.NewFunction(Pass))
	L.SetGlobal("domino_show", L.NewFunction(Show))
	L.SetGlobal("domino_hint", L.NewFunction(Hint))
	L.SetGlobal("domino_set", L.NewFunction(Set))
	L.SetGlobal("domino_autoplay", L.NewFunction(Autoplay))
	L.SetGlobal("domino_status", L.NewFunction(Status))
	L.SetGlobal("domino_state", L.NewFunction(State))
	luajson.Preload(L)

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
