package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mickcarey/canva/internal/filter"
)

// Version is written into every snapshot and checked on load.
const Version = "1"

// WorkspaceName is the reserved marker carried by the workspace object.
const WorkspaceName = "clip"

const (
	DefaultWorkspaceWidth  = 900
	DefaultWorkspaceHeight = 1200
	DefaultWorkspaceFill   = "white"
)

// Allow-list keys: attributes only written to a snapshot when requested.
const (
	KeyName          = "name"
	KeyGradientAngle = "gradientAngle"
	KeySelectable    = "selectable"
	KeyHasControls   = "hasControls"
	KeyLinkData      = "linkData"
	KeyEditable      = "editable"
	KeyExtensionType = "extensionType"
	KeyExtension     = "extension"
)

// AllowList is the set of extra attributes needed for a faithful round trip.
// History entries and saved documents both use it.
var AllowList = []string{
	KeyName,
	KeyGradientAngle,
	KeySelectable,
	KeyHasControls,
	KeyLinkData,
	KeyEditable,
	KeyExtensionType,
	KeyExtension,
}

var ErrInvalidSnapshot = errors.New("invalid snapshot")

type ObjectType string

const (
	ObjectTypeRect            ObjectType = "rect"
	ObjectTypeCircle          ObjectType = "circle"
	ObjectTypeTriangle        ObjectType = "triangle"
	ObjectTypePolygon         ObjectType = "polygon"
	ObjectTypeTextbox         ObjectType = "textbox"
	ObjectTypeImage           ObjectType = "image"
	ObjectTypePath            ObjectType = "path"
	ObjectTypeActiveSelection ObjectType = "activeselection"
)

// Valid reports whether t may appear in a snapshot. Active selections are
// transient and never serialized.
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypeRect, ObjectTypeCircle, ObjectTypeTriangle, ObjectTypePolygon,
		ObjectTypeTextbox, ObjectTypeImage, ObjectTypePath:
		return true
	}
	return false
}

// IsText reports whether t carries text properties.
func (t ObjectType) IsText() bool {
	return t == ObjectTypeTextbox
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathCommand is one freehand path segment: ["M", x, y], ["Q", x1, y1, x, y], ["L", x, y].
type PathCommand []interface{}

type Shadow struct {
	Color   string  `json:"color"`
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

type ObjectNode struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`

	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`
	Angle  float64 `json:"angle"`

	Rx     float64       `json:"rx,omitempty"`
	Ry     float64       `json:"ry,omitempty"`
	Radius float64       `json:"radius,omitempty"`
	Points []Point       `json:"points,omitempty"`
	Path   []PathCommand `json:"path,omitempty"`

	Fill            string    `json:"fill"`
	Stroke          string    `json:"stroke"`
	StrokeWidth     float64   `json:"strokeWidth"`
	StrokeDashArray []float64 `json:"strokeDashArray"`
	Opacity         float64   `json:"opacity"`
	Visible         bool      `json:"visible"`
	Shadow          *Shadow   `json:"shadow,omitempty"`

	Text        string  `json:"text,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontWeight  int     `json:"fontWeight,omitempty"`
	FontStyle   string  `json:"fontStyle,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Linethrough bool    `json:"linethrough,omitempty"`
	TextAlign   string  `json:"textAlign,omitempty"`

	Src     string          `json:"src,omitempty"`
	Filters []filter.Effect `json:"filters,omitempty"`

	// Allow-listed attributes. Nil means "not serialized".
	Name          *string         `json:"name,omitempty"`
	GradientAngle *float64        `json:"gradientAngle,omitempty"`
	Selectable    *bool           `json:"selectable,omitempty"`
	HasControls   *bool           `json:"hasControls,omitempty"`
	LinkData      json.RawMessage `json:"linkData,omitempty"`
	Editable      *bool           `json:"editable,omitempty"`
	ExtensionType *string         `json:"extensionType,omitempty"`
	Extension     json.RawMessage `json:"extension,omitempty"`
}

// Snapshot is the serialized form of a whole canvas. It is both the history
// entry format and the persisted document layout.
type Snapshot struct {
	Version    string       `json:"version"`
	Background string       `json:"background,omitempty"`
	Objects    []ObjectNode `json:"objects"`
}

// Marshal encodes a snapshot as JSON.
func Marshal(s Snapshot) ([]byte, error) {
	if s.Objects == nil {
		s.Objects = []ObjectNode{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes and validates a snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Validate checks the version, object types and id uniqueness.
func (s Snapshot) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, s.Version)
	}
	seen := make(map[string]bool, len(s.Objects))
	for i, obj := range s.Objects {
		if obj.ID == "" {
			return fmt.Errorf("%w: object %d has no id", ErrInvalidSnapshot, i)
		}
		if seen[obj.ID] {
			return fmt.Errorf("%w: duplicate object id %s", ErrInvalidSnapshot, obj.ID)
		}
		seen[obj.ID] = true
		if !obj.Type.Valid() {
			return fmt.Errorf("%w: object %s has unknown type %q", ErrInvalidSnapshot, obj.ID, obj.Type)
		}
	}
	return nil
}

// Workspace returns the workspace node located by its marker name.
func (s Snapshot) Workspace() (ObjectNode, bool) {
	for _, obj := range s.Objects {
		if obj.Name != nil && *obj.Name == WorkspaceName {
			return obj, true
		}
	}
	return ObjectNode{}, false
}
