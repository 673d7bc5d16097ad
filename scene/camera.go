package scene

// Camera is a perspective View attached to a graph node.
type Camera struct {
	View
	Node NodeID
}

// NewCamera creates a node for the camera and hooks the view to it.
// fov is the vertical field of view in radians.
func NewCamera(g *Graph, name string, fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	c := &Camera{View: newPerspectiveView(fov, aspectRatio, nearPlane, farPlane)}
	c.Node = g.Create(name)
	g.SetHook(c.Node, &c.View)
	return c
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.SetAspectRatio(width / height)
	}
}
