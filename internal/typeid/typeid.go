package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixDesign = "design"
	PrefixObject = "obj"
	PrefixAsset  = "asset"
	PrefixClient = "client"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewDesignID() string { return New(PrefixDesign) }
func NewObjectID() string { return New(PrefixObject) }
func NewAssetID() string  { return New(PrefixAsset) }
func NewClientID() string { return New(PrefixClient) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
