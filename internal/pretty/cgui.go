package pretty

import "fmt"

// Crystal GUI type tags
const (
	TagNode            = "CguiNode"
	TagAnimatedTexture = "CguiAnimatedTexture"
	TagGridLayoutData  = "CguiGridLayoutData"
	TagTheme           = "CguiTheme"
)

// ComponentMaxConstant bounds the theme's template table
const ComponentMaxConstant = "CGUI_COMPONENT_MAX"

// NodeVariant prints the scene-graph node. parent and templateSource are
// back-references and only ever show the target's name.
func NodeVariant() *Variant {
	return &Variant{
		Tag: TagNode,
		Config: Config{
			Early: []FieldSpec{
				Direct("name"),
				Direct("transformation"),
				Direct("childrenCount"),
				Direct("childrenCapacity"),
				Direct("instancesCount"),
				Direct("instancesCapacity"),
			},
			Arrays: []FieldSpec{
				DynamicArray("children", "childrenCount"),
				DynamicArray("instances", "instancesCount"),
			},
			References: []FieldSpec{
				Reference("parent", "name"),
				Reference("templateSource", "name"),
			},
		},
		Summary: nameSummary("name"),
	}
}

func AnimatedTextureVariant() *Variant {
	return &Variant{
		Tag: TagAnimatedTexture,
		Config: Config{
			Early: []FieldSpec{
				Direct("framesCount"),
				Direct("framesCapacity"),
			},
			Arrays: []FieldSpec{
				DynamicArray("frames", "framesCount"),
			},
		},
		Summary: func(live Value) (string, error) {
			n, err := intField(live, "framesCount")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d frame(s)", n), nil
		},
	}
}

func GridLayoutDataVariant() *Variant {
	return &Variant{
		Tag: TagGridLayoutData,
		Config: Config{
			Early: []FieldSpec{
				Direct("xSlotsCount"),
				Direct("xSlotsCapacity"),
				Direct("ySlotsCount"),
				Direct("ySlotsCapacity"),
			},
			Arrays: []FieldSpec{
				DynamicArray("xSlots", "xSlotsCount"),
				DynamicArray("ySlots", "ySlotsCount"),
			},
		},
		Summary: func(live Value) (string, error) {
			x, err := intField(live, "xSlotsCount")
			if err != nil {
				return "", err
			}
			y, err := intField(live, "ySlotsCount")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d x-slots, %d y-slots", x, y), nil
		},
	}
}

// ThemeVariant prints a theme. templates has no count field; its length is
// the component count of the library the snapshot was taken from.
func ThemeVariant() *Variant {
	return &Variant{
		Tag: TagTheme,
		Config: Config{
			Early: []FieldSpec{
				Direct("themeName"),
			},
			Arrays: []FieldSpec{
				FixedArray("templates", ComponentMaxConstant),
			},
		},
		Summary: nameSummary("themeName"),
	}
}

// CguiVariants returns the variants in match priority order
func CguiVariants() []*Variant {
	return []*Variant{
		NodeVariant(),
		AnimatedTextureVariant(),
		GridLayoutDataVariant(),
		ThemeVariant(),
	}
}
