package render

// Surface is where a block is shown.
type Surface string

const (
	// SurfaceEditor shows every block with owner controls.
	SurfaceEditor Surface = "editor"
	// SurfaceLive is the themed preview next to the editor.
	SurfaceLive Surface = "live"
	// SurfacePublic is the published page seen by visitors.
	SurfacePublic Surface = "public"
)

func ParseSurface(s string) (Surface, bool) {
	switch Surface(s) {
	case SurfaceEditor, SurfaceLive, SurfacePublic:
		return Surface(s), true
	}
	return "", false
}

type Context struct {
	Surface Surface
}

func (c Context) editor() bool {
	return c.Surface == SurfaceEditor
}

// tracked reports whether click-bearing elements carry the click marker.
func (c Context) tracked() bool {
	return c.Surface == SurfaceLive || c.Surface == SurfacePublic
}
