package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/scene"
	"github.com/mickcarey/canva/internal/viewport"
)

// Command names.
const (
	CmdShapeAdd = "shape.add"
	CmdTextAdd  = "text.add"
	CmdImageAdd = "image.add"

	CmdStyleFill            = "style.fill"
	CmdStyleStroke          = "style.stroke"
	CmdStyleStrokeWidth     = "style.strokeWidth"
	CmdStyleStrokeDashArray = "style.strokeDashArray"
	CmdStyleOpacity         = "style.opacity"
	CmdStyleFontFamily      = "style.fontFamily"
	CmdStyleFontSize        = "style.fontSize"
	CmdStyleFontWeight      = "style.fontWeight"
	CmdStyleFontStyle       = "style.fontStyle"
	CmdStyleUnderline       = "style.underline"
	CmdStyleLinethrough     = "style.linethrough"
	CmdStyleTextAlign       = "style.textAlign"
	CmdStyleFilter          = "style.filter"

	CmdBringForward  = "arrange.bringForward"
	CmdSendBackwards = "arrange.sendBackwards"
	CmdDelete        = "object.delete"
	CmdMove          = "object.move"

	CmdSelect      = "selection.set"
	CmdSelectAt    = "selection.at"
	CmdSelectAll   = "selection.all"
	CmdSelectClear = "selection.clear"

	CmdCopy  = "clipboard.copy"
	CmdPaste = "clipboard.paste"
	CmdCut   = "clipboard.cut"

	CmdUndo = "history.undo"
	CmdRedo = "history.redo"

	CmdResize   = "viewport.resize"
	CmdZoomIn   = "viewport.zoomIn"
	CmdZoomOut  = "viewport.zoomOut"
	CmdAutoZoom = "viewport.autoZoom"

	CmdWorkspaceSize       = "workspace.size"
	CmdWorkspaceBackground = "workspace.background"

	CmdDrawingEnable  = "drawing.enable"
	CmdDrawingDisable = "drawing.disable"
	CmdDrawingStroke  = "drawing.stroke"

	CmdDocumentLoad = "document.load"
	CmdDrawCommands = "render.commands"
)

type handler func(ctx context.Context, e *editor.Editor, args json.RawMessage) (any, error)

type value[T any] struct {
	Value T `json:"value"`
}

type urlArgs struct {
	URL string `json:"url"`
}

type shapeArgs struct {
	Shape string `json:"shape"`
}

type textArgs struct {
	Text   string `json:"text"`
	Preset string `json:"preset"`
}

type sizeArgs struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type deltaArgs struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type pointArgs struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type idsArgs struct {
	IDs []string `json:"ids"`
}

type strokeArgs struct {
	Points []scene.Point `json:"points"`
}

type documentArgs struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

type objectRef struct {
	ID string `json:"id"`
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("invalid arguments: %w", err)
	}
	return v, nil
}

// style adapts a setter taking a single value argument.
func style[T any](set func(*editor.Editor, T)) handler {
	return func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[value[T]](raw)
		if err != nil {
			return nil, err
		}
		set(e, args.Value)
		return nil, nil
	}
}

// simple adapts an operation without arguments or result.
func simple(fn func(*editor.Editor)) handler {
	return func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		fn(e)
		return nil, nil
	}
}

var handlers = map[string]handler{
	CmdShapeAdd: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[shapeArgs](raw)
		if err != nil {
			return nil, err
		}
		obj, err := e.AddShape(args.Shape)
		if err != nil {
			return nil, err
		}
		return objectRef{ID: obj.ID}, nil
	},
	CmdTextAdd: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[textArgs](raw)
		if err != nil {
			return nil, err
		}
		preset := editor.PresetPlain
		if args.Preset != "" {
			p, ok := editor.LookupPreset(args.Preset)
			if !ok {
				return nil, fmt.Errorf("unknown text preset %q", args.Preset)
			}
			preset = p
		}
		return objectRef{ID: e.AddText(args.Text, preset).ID}, nil
	},

	CmdStyleFill:            style((*editor.Editor).ChangeFillColor),
	CmdStyleStroke:          style((*editor.Editor).ChangeStrokeColor),
	CmdStyleStrokeWidth:     style((*editor.Editor).ChangeStrokeWidth),
	CmdStyleStrokeDashArray: style((*editor.Editor).ChangeStrokeDashArray),
	CmdStyleOpacity:         style((*editor.Editor).ChangeOpacity),
	CmdStyleFontFamily:      style((*editor.Editor).ChangeFontFamily),
	CmdStyleFontSize:        style((*editor.Editor).ChangeFontSize),
	CmdStyleFontWeight:      style((*editor.Editor).ChangeFontWeight),
	CmdStyleFontStyle:       style((*editor.Editor).ChangeFontStyle),
	CmdStyleUnderline:       style((*editor.Editor).ChangeFontUnderline),
	CmdStyleLinethrough:     style((*editor.Editor).ChangeFontLinethrough),
	CmdStyleTextAlign:       style((*editor.Editor).ChangeTextAlign),
	CmdStyleFilter: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[value[string]](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.ChangeImageFilter(args.Value)
	},

	CmdBringForward:  simple((*editor.Editor).BringForward),
	CmdSendBackwards: simple((*editor.Editor).SendBackwards),
	CmdDelete:        simple((*editor.Editor).Delete),
	CmdMove: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[deltaArgs](raw)
		if err != nil {
			return nil, err
		}
		e.Move(args.DX, args.DY)
		return nil, nil
	},

	CmdSelect: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[idsArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.Select(args.IDs)
	},
	CmdSelectAt: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[pointArgs](raw)
		if err != nil {
			return nil, err
		}
		if hit := e.SelectAt(args.X, args.Y); hit != nil {
			return objectRef{ID: hit.ID}, nil
		}
		return nil, nil
	},
	CmdSelectAll:   simple((*editor.Editor).SelectAll),
	CmdSelectClear: simple((*editor.Editor).Deselect),

	CmdCopy: func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.Copy()
	},
	CmdPaste: func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.Paste()
	},
	CmdCut: func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.Cut()
	},

	CmdUndo: func(ctx context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.Undo(ctx)
	},
	CmdRedo: func(ctx context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.Redo(ctx)
	},

	CmdResize: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[sizeArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.Resize(viewport.Size{Width: args.Width, Height: args.Height})
	},
	CmdZoomIn:  simple((*editor.Editor).ZoomIn),
	CmdZoomOut: simple((*editor.Editor).ZoomOut),
	CmdAutoZoom: func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return nil, e.AutoZoom()
	},

	CmdWorkspaceSize: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[sizeArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.ChangeSize(args.Width, args.Height)
	},
	CmdWorkspaceBackground: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[value[string]](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.ChangeBackground(args.Value)
	},

	CmdDrawingEnable:  simple((*editor.Editor).EnableDrawingMode),
	CmdDrawingDisable: simple((*editor.Editor).DisableDrawingMode),
	CmdDrawingStroke: func(_ context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[strokeArgs](raw)
		if err != nil {
			return nil, err
		}
		if obj := e.Draw(args.Points); obj != nil {
			return objectRef{ID: obj.ID}, nil
		}
		return nil, nil
	},

	CmdDocumentLoad: func(ctx context.Context, e *editor.Editor, raw json.RawMessage) (any, error) {
		args, err := decode[documentArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, e.LoadJSON(ctx, args.Snapshot)
	},
	CmdDrawCommands: func(_ context.Context, e *editor.Editor, _ json.RawMessage) (any, error) {
		return e.Canvas().DrawCommands(), nil
	},
}

// Commands lists every command name in sorted order.
func Commands() []string {
	names := make([]string, 0, len(handlers)+1)
	for name := range handlers {
		names = append(names, name)
	}
	names = append(names, CmdImageAdd)
	sort.Strings(names)
	return names
}
