//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/mickcarey/canva/internal/asset"
	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/session"
	"github.com/mickcarey/canva/internal/typeid"
	"github.com/mickcarey/canva/internal/viewport"
)

const localDesignID = "design_local"

var sess *session.Session

func main() {
	opts := editor.Options{
		WorkspaceWidth:  900,
		WorkspaceHeight: 1200,
		Container:       viewport.Size{Width: 1280, Height: 800},
		// Browser fetch only; there is no asset directory in the page.
		Images: asset.NewLoader("", 15*time.Second, asset.DefaultMaxBytes),
	}

	var err error
	sess, err = session.New(context.Background(), localDesignID,
		document.NewEmptySnapshot(typeid.NewObjectID(), opts.WorkspaceWidth, opts.WorkspaceHeight),
		opts, forwardNotice)
	if err != nil {
		js.Global().Get("console").Call("error", "canva: "+err.Error())
		return
	}

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("dispatch", js.FuncOf(dispatch))
	api.Set("loadDocument", js.FuncOf(loadDocument))

	// --- Queries (frontend ← editor) ---
	api.Set("getState", js.FuncOf(getState))
	api.Set("getDocument", js.FuncOf(getDocument))
	api.Set("render", js.FuncOf(render))
	api.Set("commands", js.FuncOf(commands))

	js.Global().Set("canvaEditor", api)
	js.Global().Set("canvaWasmReady", js.ValueOf(true))

	select {}
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func marshal(v any) js.Value {
	data, err := json.Marshal(v)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

// forwardNotice hands editor notices to window.canvaOnNotice when defined.
func forwardNotice(_ string, n editor.Notice) {
	cb := js.Global().Get("canvaOnNotice")
	if cb.Type() != js.TypeFunction {
		return
	}
	cb.Invoke(n.Level, n.Message)
}

// promise runs fn off the event loop. Image commands block on fetch, which
// would deadlock if run inside the callback.
func promise(fn func() (js.Value, error)) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}

// --- Command Handlers ---

// dispatch(name, argsJSON) resolves with the command result as JSON.
func dispatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorValue(session.ErrUnknownCommand)
	}
	cmd := session.Command{Name: args[0].String()}
	if len(args) > 1 && args[1].Type() == js.TypeString {
		cmd.Args = json.RawMessage(args[1].String())
	}

	return promise(func() (js.Value, error) {
		res, err := sess.Dispatch(context.Background(), cmd)
		if err != nil {
			return js.Undefined(), err
		}
		return marshal(res), nil
	})
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	raw, err := json.Marshal(json.RawMessage(args[0].String()))
	if err != nil {
		return errorValue(err)
	}
	argsJSON, _ := json.Marshal(map[string]json.RawMessage{"snapshot": raw})

	return promise(func() (js.Value, error) {
		res, err := sess.Dispatch(context.Background(), session.Command{Name: session.CmdDocumentLoad, Args: argsJSON})
		if err != nil {
			return js.Undefined(), err
		}
		return marshal(res), nil
	})
}

// --- Query Handlers ---

func getState(this js.Value, args []js.Value) interface{} {
	return marshal(sess.State())
}

func getDocument(this js.Value, args []js.Value) interface{} {
	snap, _ := sess.Snapshot()
	data, err := document.Marshal(snap)
	if err != nil {
		return errorValue(err)
	}
	return js.ValueOf(string(data))
}

func render(this js.Value, args []js.Value) interface{} {
	var out js.Value
	err := sess.Do(func(e *editor.Editor) error {
		s, err := e.Canvas().DrawCommandsJSON()
		if err != nil {
			return err
		}
		out = js.ValueOf(s)
		return nil
	})
	if err != nil {
		return errorValue(err)
	}
	return out
}

func commands(this js.Value, args []js.Value) interface{} {
	names := session.Commands()
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = n
	}
	return js.ValueOf(out)
}
