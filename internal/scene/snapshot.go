package scene

import (
	"context"
	"fmt"
	"image"

	"github.com/mickcarey/canva/internal/document"
)

// ImageSource resolves an image object's src into pixels.
type ImageSource interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// SetImageSource installs the resolver used when loading snapshots with images.
func (c *Canvas) SetImageSource(src ImageSource) {
	c.images = src
}

// ToSnapshot serializes the object stack. allow lists the extra attributes to
// include on top of the base serialization.
func (c *Canvas) ToSnapshot(allow []string) document.Snapshot {
	include := make(map[string]bool, len(allow))
	for _, key := range allow {
		include[key] = true
	}
	snap := document.Snapshot{
		Version:    document.Version,
		Background: c.background,
		Objects:    make([]document.ObjectNode, 0, len(c.objects)),
	}
	for _, obj := range c.objects {
		snap.Objects = append(snap.Objects, obj.toNode(include))
	}
	return snap
}

// LoadSnapshot replaces the canvas content with snap. The snapshot is
// validated and every image is resolved before anything is cleared, so a
// failed load leaves the canvas untouched.
func (c *Canvas) LoadSnapshot(ctx context.Context, snap document.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	objs := make([]*Object, 0, len(snap.Objects))
	for _, node := range snap.Objects {
		obj := FromNode(node)
		if obj.IsImage() && obj.Src != "" {
			img, err := c.resolveImage(ctx, obj.Src)
			if err != nil {
				return fmt.Errorf("load image %s: %w", obj.ID, err)
			}
			obj.Element = img
		}
		objs = append(objs, obj)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.Clear()
	c.background = snap.Background
	c.Add(objs...)
	return nil
}

func (c *Canvas) resolveImage(ctx context.Context, src string) (image.Image, error) {
	if img, ok := c.imageCache[src]; ok {
		return img, nil
	}
	if c.images == nil {
		return nil, fmt.Errorf("no image source for %q", src)
	}
	img, err := c.images.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	c.imageCache[src] = img
	return img, nil
}
