package scripting

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/arena/internal/combat"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

//go:embed lua/combat/*.lua
var builtin embed.FS

// Engine wraps a single gopher-lua VM holding the fight formulas.
// Single-goroutine access only: the combat resolver owns it.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback combat.Dice
}

// NewEngine loads the built-in scripts, then every .lua file under
// scriptsDir/combat, which may redefine them. An empty scriptsDir keeps the
// built-ins only.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, fallback: combat.RandDice{}}

	if err := e.loadBuiltin(); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load builtin scripts: %w", err)
	}
	if scriptsDir != "" {
		if err := e.loadDir(filepath.Join(scriptsDir, "combat")); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load combat scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) loadBuiltin() error {
	entries, err := builtin.ReadDir("lua/combat")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := "lua/combat/" + entry.Name()
		src, err := builtin.ReadFile(name)
		if err != nil {
			return err
		}
		if err := e.vm.DoString(string(src)); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Roll calls roll_fight() and implements combat.Dice. Values outside [1,6]
// are clamped; a missing or failing function falls back to Go dice.
func (e *Engine) Roll() (attack, defense int) {
	fn := e.vm.GetGlobal("roll_fight")
	if fn == lua.LNil {
		e.log.Error("lua function roll_fight not found")
		return e.fallback.Roll()
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}); err != nil {
		e.log.Error("lua roll_fight error", zap.Error(err))
		return e.fallback.Roll()
	}
	a := e.vm.Get(-2)
	d := e.vm.Get(-1)
	e.vm.Pop(2)
	return combat.ClampRoll(lInt(a)), combat.ClampRoll(lInt(d))
}

func lInt(v lua.LValue) int {
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

func (e *Engine) Close() {
	e.vm.Close()
}
