package scripting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/config"
)

// Engine wraps a single gopher-lua VM running behavior scripts against a
// bridge context. Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	ctx    *bridge.Context
	log    *zap.Logger
	dirs   []string
	hashes map[string]uint64

	// regErr collects reload failures raised by register_behavior while a
	// file runs.
	regErr error
}

// NewEngine creates a Lua engine bound to ctx and loads every script in
// cfg.Dir.
func NewEngine(cfg config.ScriptingConfig, ctx *bridge.Context, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	e := &Engine{
		vm:     vm,
		ctx:    ctx,
		log:    log,
		hashes: make(map[string]uint64),
	}
	registerTypes(vm, e)
	vm.SetGlobal("acro", e.api())

	if cfg.Dir != "" {
		if err := e.LoadDir(cfg.Dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) Close() { e.vm.Close() }

// LoadDir loads all .lua files in a directory in name order and remembers
// the directory for Reload. A missing directory is not an error.
func (e *Engine) LoadDir(dir string) error {
	if !slices.Contains(e.dirs, dir) {
		e.dirs = append(e.dirs, dir)
	}
	_, err := e.sync(dir)
	return err
}

// LoadString runs a chunk of Lua source under the given chunk name.
func (e *Engine) LoadString(name, src string) error {
	return e.run(name, []byte(src))
}

// Reload re-runs every script whose content changed since it was last run,
// including files added since. Re-running a file that registers behaviors
// hot reloads their live instances. Returns how many files ran.
func (e *Engine) Reload() (int, error) {
	var (
		total int
		errs  error
	)
	for _, dir := range e.dirs {
		n, err := e.sync(dir)
		total += n
		errs = multierr.Append(errs, err)
	}
	return total, errs
}

func (e *Engine) sync(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil // skip missing dirs
		}
		return 0, err
	}
	var (
		ran  int
		errs error
	)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		sum := xxhash.Sum64(raw)
		if prev, ok := e.hashes[path]; ok && prev == sum {
			continue
		}
		// Remember the hash even on failure so a broken file is not retried
		// every poll until it changes again.
		e.hashes[path] = sum
		ran++
		if err := e.run(path, raw); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("load %s: %w", path, err))
			continue
		}
		e.log.Debug("loaded lua script", zap.String("file", path), zap.Uint64("hash", sum))
	}
	return ran, errs
}

func (e *Engine) run(name string, src []byte) error {
	fn, err := e.vm.Load(bytes.NewReader(src), name)
	if err != nil {
		return err
	}
	e.regErr = nil
	err = e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	})
	regErr := e.regErr
	e.regErr = nil
	return multierr.Append(unwrapLua(err), regErr)
}

// Global returns a Lua global. Used by tests and tooling.
func (e *Engine) Global(name string) lua.LValue { return e.vm.GetGlobal(name) }
