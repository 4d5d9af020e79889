package document

func ptr[T any](v T) *T { return &v }

// NewWorkspaceNode builds the workspace object: a white, locked rectangle
// carrying the reserved marker name.
func NewWorkspaceNode(id string, width, height float64) ObjectNode {
	return ObjectNode{
		ID:              id,
		Type:            ObjectTypeRect,
		Width:           width,
		Height:          height,
		ScaleX:          1,
		ScaleY:          1,
		Fill:            DefaultWorkspaceFill,
		StrokeDashArray: nil,
		Opacity:         1,
		Visible:         true,
		Shadow: &Shadow{
			Color: "rgba(0,0,0,0.8)",
			Blur:  5,
		},
		Name:        ptr(WorkspaceName),
		Selectable:  ptr(false),
		HasControls: ptr(false),
	}
}

// NewEmptySnapshot creates the workspace-only snapshot used for new designs.
func NewEmptySnapshot(workspaceID string, width, height float64) Snapshot {
	if width <= 0 {
		width = DefaultWorkspaceWidth
	}
	if height <= 0 {
		height = DefaultWorkspaceHeight
	}
	return Snapshot{
		Version: Version,
		Objects: []ObjectNode{NewWorkspaceNode(workspaceID, width, height)},
	}
}
