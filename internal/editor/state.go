package editor

import (
	"github.com/mickcarey/canva/internal/filter"
)

// State is everything a toolbar needs to render its controls.
type State struct {
	Selection       []string    `json:"selection"`
	SelectionTypes  []string    `json:"selectionTypes"`
	FillColor       string      `json:"fillColor"`
	StrokeColor     string      `json:"strokeColor"`
	StrokeWidth     float64     `json:"strokeWidth"`
	StrokeDashArray []float64   `json:"strokeDashArray"`
	Opacity         float64     `json:"opacity"`
	FontFamily      string      `json:"fontFamily"`
	FontSize        float64     `json:"fontSize"`
	FontWeight      int         `json:"fontWeight"`
	FontStyle       string      `json:"fontStyle"`
	Underline       bool        `json:"underline"`
	Linethrough     bool        `json:"linethrough"`
	TextAlign       string      `json:"textAlign"`
	Filter          filter.Kind `json:"filter"`
	CanUndo         bool        `json:"canUndo"`
	CanRedo         bool        `json:"canRedo"`
	CanPaste        bool        `json:"canPaste"`
	Zoom            float64     `json:"zoom"`
	DrawingMode     bool        `json:"drawingMode"`
	WorkspaceWidth  float64     `json:"workspaceWidth"`
	WorkspaceHeight float64     `json:"workspaceHeight"`
	Background      string      `json:"background"`
}

// State snapshots the editor for UI consumers.
func (e *Editor) State() State {
	selected := e.selection.Selected()
	s := State{
		Selection:       make([]string, 0, len(selected)),
		SelectionTypes:  make([]string, 0, len(selected)),
		FillColor:       e.GetActiveFillColor(),
		StrokeColor:     e.GetActiveStrokeColor(),
		StrokeWidth:     e.GetActiveStrokeWidth(),
		StrokeDashArray: e.GetActiveStrokeDashArray(),
		Opacity:         e.GetActiveOpacity(),
		FontFamily:      e.GetActiveFontFamily(),
		FontSize:        e.GetActiveFontSize(),
		FontWeight:      e.GetActiveFontWeight(),
		FontStyle:       e.GetActiveFontStyle(),
		Underline:       e.GetActiveFontUnderline(),
		Linethrough:     e.GetActiveFontLinethrough(),
		TextAlign:       e.GetActiveTextAlign(),
		Filter:          e.GetActiveFilter(),
		CanUndo:         e.CanUndo(),
		CanRedo:         e.CanRedo(),
		CanPaste:        e.clipboard.HasContent(),
		Zoom:            e.Zoom(),
		DrawingMode:     e.canvas.DrawingMode(),
	}
	for _, obj := range selected {
		s.Selection = append(s.Selection, obj.ID)
		s.SelectionTypes = append(s.SelectionTypes, string(obj.Type))
	}
	if ws := e.Workspace(); ws != nil {
		s.WorkspaceWidth, s.WorkspaceHeight = ws.ScaledSize()
		s.Background = ws.Fill
	}
	return s
}
