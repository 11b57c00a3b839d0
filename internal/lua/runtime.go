package lua

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huegroups/internal/lua/modules"
)

// ErrRuntimeClosed is returned when the Lua runtime is closed
var ErrRuntimeClosed = fmt.Errorf("lua runtime closed")

// Runtime owns a Lua VM with the log and groups modules preloaded.
// A Runtime is not safe for concurrent use; calls are serialized.
type Runtime struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewRuntime creates a new Lua runtime reading groups through reader
func NewRuntime(reader modules.GroupReader) *Runtime {
	L := lua.NewState()

	L.PreloadModule("log", modules.NewLogModule().Loader)
	L.PreloadModule("groups", modules.NewGroupsModule(reader).Loader)

	return &Runtime{L: L}
}

// Close closes the Lua state
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// RunFile executes a Lua script. Module calls made by the script use ctx.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	log.Info().Str("path", path).Msg("Running Lua script")

	return r.run(ctx, func(L *lua.LState) error {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("failed to execute Lua script: %w", err)
		}
		return nil
	})
}

// RunString executes Lua source.
func (r *Runtime) RunString(ctx context.Context, src string) error {
	return r.run(ctx, func(L *lua.LState) error {
		return L.DoString(src)
	})
}

// Global returns a global value converted to Go
func (r *Runtime) Global(name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	return modules.LuaToGo(r.L.GetGlobal(name))
}

func (r *Runtime) run(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Lua execution panicked")
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()

	// Set context on LState so modules can access it via L.Context()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	return fn(r.L)
}
