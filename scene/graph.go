package scene

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sgengine/core"
)

// NodeID addresses a node in a Graph. The zero value is Nil and never refers
// to a live node. IDs of destroyed nodes are rejected even when their slot is reused.
type NodeID struct {
	index uint32
	gen   uint32
}

var Nil NodeID

func (id NodeID) IsNil() bool { return id.gen == 0 }

func (id NodeID) String() string {
	if id.IsNil() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d.%d)", id.index, id.gen)
}

// Recomputable receives a node's global transform every time it is finalized.
// Implementations must not mutate the graph.
type Recomputable interface {
	Recompute(global core.Transform)
}

type node struct {
	name   string
	id     uuid.UUID
	gen    uint32
	alive  bool
	local  core.Transform
	global core.Transform

	parent   NodeID
	children []NodeID

	bounds    BoundingBox
	hasBounds bool

	hook Recomputable
}

// Graph owns every node of a scene. Nodes are kept in a slot arena and
// linked by NodeID. A Graph is not safe for concurrent use.
type Graph struct {
	nodes  []node
	free   []uint32
	byUUID map[uuid.UUID]NodeID
	live   int

	queue       []NodeID
	propagating bool

	orientation core.Orientation
}

// NewGraph returns an empty graph whose nodes store orientations as a Basis.
func NewGraph() *Graph {
	return NewGraphWithOrientation(core.NewBasis())
}

// NewGraphWithOrientation returns an empty graph whose new nodes use o's
// orientation representation, e.g. core.NewQuatOrientation().
func NewGraphWithOrientation(o core.Orientation) *Graph {
	return &Graph{byUUID: make(map[uuid.UUID]NodeID), orientation: o.Identity()}
}

// Create adds a root node at the origin with a fresh UUID.
func (g *Graph) Create(name string) NodeID {
	return g.CreateWithUUID(name, uuid.New())
}

// CreateWithUUID adds a root node with a caller-supplied persistent id.
// If the UUID is already taken, a fresh one is generated.
func (g *Graph) CreateWithUUID(name string, id uuid.UUID) NodeID {
	if _, taken := g.byUUID[id]; taken || id == uuid.Nil {
		id = uuid.New()
	}

	var index uint32
	if n := len(g.free); n > 0 {
		index = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		index = uint32(len(g.nodes))
		g.nodes = append(g.nodes, node{})
	}

	n := &g.nodes[index]
	gen := n.gen + 1
	children := n.children[:0]
	*n = node{
		name:     name,
		id:       id,
		gen:      gen,
		alive:    true,
		local:    core.NewTransformWith(g.orientation),
		global:   core.NewTransformWith(g.orientation),
		children: children,
	}

	nid := NodeID{index: index, gen: gen}
	g.byUUID[id] = nid
	g.live++
	return nid
}

// Destroy removes a node. It is detached from its parent and its children
// become roots that keep their global placement.
func (g *Graph) Destroy(id NodeID) bool {
	n := g.get(id)
	if n == nil {
		g.reject(id, "destroy")
		return false
	}
	if !n.parent.IsNil() {
		g.RemoveChild(n.parent, id, false)
	}
	for len(g.nodes[id.index].children) > 0 {
		g.RemoveChild(id, g.nodes[id.index].children[0], false)
	}

	n = &g.nodes[id.index]
	delete(g.byUUID, n.id)
	n.alive = false
	n.hook = nil
	n.hasBounds = false
	g.free = append(g.free, id.index)
	g.live--
	return true
}

func (g *Graph) get(id NodeID) *node {
	if id.IsNil() || int(id.index) >= len(g.nodes) {
		return nil
	}
	n := &g.nodes[id.index]
	if !n.alive || n.gen != id.gen {
		return nil
	}
	return n
}

func (g *Graph) reject(id NodeID, op string) {
	Logger().WithFields(logrus.Fields{"node": id, "op": op}).Debug("ignored call on stale or nil node")
}

// Alive reports whether id refers to a live node.
func (g *Graph) Alive(id NodeID) bool {
	return g.get(id) != nil
}

// Len is the number of live nodes.
func (g *Graph) Len() int {
	return g.live
}

func (g *Graph) Name(id NodeID) string {
	if n := g.get(id); n != nil {
		return n.name
	}
	return ""
}

func (g *Graph) SetName(id NodeID, name string) {
	if n := g.get(id); n != nil {
		n.name = name
	}
}

// UUID returns the node's persistent id, or uuid.Nil for a stale id.
func (g *Graph) UUID(id NodeID) uuid.UUID {
	if n := g.get(id); n != nil {
		return n.id
	}
	return uuid.Nil
}

// Lookup resolves a persistent id.
func (g *Graph) Lookup(id uuid.UUID) (NodeID, bool) {
	nid, ok := g.byUUID[id]
	return nid, ok
}

// Find returns the first live node with the given name.
func (g *Graph) Find(name string) (NodeID, bool) {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.alive && n.name == name {
			return NodeID{index: uint32(i), gen: n.gen}, true
		}
	}
	return Nil, false
}

// Parent returns Nil for roots and stale ids.
func (g *Graph) Parent(id NodeID) NodeID {
	if n := g.get(id); n != nil {
		return n.parent
	}
	return Nil
}

// Children returns a copy of the ordered child list.
func (g *Graph) Children(id NodeID) []NodeID {
	n := g.get(id)
	if n == nil || len(n.children) == 0 {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

func (g *Graph) ChildCount(id NodeID) int {
	if n := g.get(id); n != nil {
		return len(n.children)
	}
	return 0
}

// Roots returns every live node without a parent, in slot order.
func (g *Graph) Roots() []NodeID {
	var roots []NodeID
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.alive && n.parent.IsNil() {
			roots = append(roots, NodeID{index: uint32(i), gen: n.gen})
		}
	}
	return roots
}

// Each calls fn for every live node in slot order.
func (g *Graph) Each(fn func(id NodeID)) {
	for i := range g.nodes {
		if n := &g.nodes[i]; n.alive {
			fn(NodeID{index: uint32(i), gen: n.gen})
		}
	}
}

// Traverse visits id and its descendants depth-first, parents before children.
func (g *Graph) Traverse(id NodeID, fn func(id NodeID)) {
	n := g.get(id)
	if n == nil {
		return
	}
	fn(id)
	for _, c := range g.Children(id) {
		g.Traverse(c, fn)
	}
}

// SetHook attaches a Recomputable and feeds it the current global transform.
// Passing nil removes the hook.
func (g *Graph) SetHook(id NodeID, h Recomputable) {
	n := g.get(id)
	if n == nil {
		g.reject(id, "set hook")
		return
	}
	n.hook = h
	if h != nil {
		h.Recompute(n.global)
	}
}

// ── Bounds ───────────────────────────────────────────────────────────────

// SetBounds sets the model-space bounding box used for visibility tests.
func (g *Graph) SetBounds(id NodeID, b BoundingBox) {
	if n := g.get(id); n != nil {
		n.bounds = b
		n.hasBounds = true
	}
}

func (g *Graph) ClearBounds(id NodeID) {
	if n := g.get(id); n != nil {
		n.hasBounds = false
	}
}

// Bounds returns the model-space box, if one is set.
func (g *Graph) Bounds(id NodeID) (BoundingBox, bool) {
	if n := g.get(id); n != nil && n.hasBounds {
		return n.bounds, true
	}
	return BoundingBox{}, false
}

// WorldBounds projects the node's box through its global transform.
func (g *Graph) WorldBounds(id NodeID) (BoundingBox, bool) {
	n := g.get(id)
	if n == nil || !n.hasBounds {
		return BoundingBox{}, false
	}
	return n.bounds.Transformed(n.global), true
}

// Visible reports whether the node may be seen through f. Nodes without a
// bounding box are always visible; stale ids never are.
func (g *Graph) Visible(id NodeID, f *Frustum) bool {
	n := g.get(id)
	if n == nil {
		return false
	}
	if !n.hasBounds {
		return true
	}
	return BoxVisible(n.bounds.Transformed(n.global), f)
}
