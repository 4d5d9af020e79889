package document

import (
	"github.com/mickcarey/canva/internal/typeid"
)

// NewSampleSnapshot returns a small poster template: a coloured banner, a
// badge and two lines of text laid out on a default-sized workspace.
func NewSampleSnapshot() Snapshot {
	workspaceID := typeid.NewObjectID()

	s := NewEmptySnapshot(workspaceID, DefaultWorkspaceWidth, DefaultWorkspaceHeight)
	s.Objects = append(s.Objects,
		ObjectNode{
			ID:              typeid.NewObjectID(),
			Type:            ObjectTypeRect,
			Left:            0,
			Top:             0,
			Width:           DefaultWorkspaceWidth,
			Height:          360,
			ScaleX:          1,
			ScaleY:          1,
			Fill:            "#1a1a2e",
			Stroke:          "rgba(0,0,0,1)",
			StrokeDashArray: []float64{},
			Opacity:         1,
			Visible:         true,
		},
		ObjectNode{
			ID:              typeid.NewObjectID(),
			Type:            ObjectTypeCircle,
			Left:            600,
			Top:             220,
			Width:           300,
			Height:          300,
			Radius:          150,
			ScaleX:          1,
			ScaleY:          1,
			Fill:            "#e94560",
			Stroke:          "rgba(0,0,0,1)",
			StrokeWidth:     2,
			StrokeDashArray: []float64{},
			Opacity:         1,
			Visible:         true,
		},
		ObjectNode{
			ID:              typeid.NewObjectID(),
			Type:            ObjectTypeTextbox,
			Left:            60,
			Top:             120,
			Width:           520,
			Height:          90,
			ScaleX:          1,
			ScaleY:          1,
			Fill:            "#ffffff",
			StrokeDashArray: []float64{},
			Opacity:         1,
			Visible:         true,
			Text:            "Heading",
			FontFamily:      "Arial",
			FontSize:        80,
			FontWeight:      700,
			FontStyle:       "normal",
			TextAlign:       "left",
		},
		ObjectNode{
			ID:              typeid.NewObjectID(),
			Type:            ObjectTypeTextbox,
			Left:            60,
			Top:             420,
			Width:           520,
			Height:          36,
			ScaleX:          1,
			ScaleY:          1,
			Fill:            "rgba(0,0,0,1)",
			StrokeDashArray: []float64{},
			Opacity:         1,
			Visible:         true,
			Text:            "Paragraph",
			FontFamily:      "Arial",
			FontSize:        32,
			FontWeight:      400,
			FontStyle:       "normal",
			TextAlign:       "left",
		},
	)
	return s
}
