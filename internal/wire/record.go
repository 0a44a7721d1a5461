package wire

// Rect is a bounding box in character-cell coordinates.
type Rect struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int32) bool {
	return x >= r.X && y >= r.Y &&
		int64(x) < int64(r.X)+int64(r.Width) &&
		int64(y) < int64(r.Y)+int64(r.Height)
}

// NodeRecord is the snapshot of one UI element sent on every upsert.
// Nil text pointers and a nil ParentID are encoded as null.
type NodeRecord struct {
	ID          string
	Role        Role
	Name        *string
	Value       *string
	Description *string
	Hint        *string
	Rect        Rect
	State       State
	ParentID    *string
	// ChildCount is informational; linkage comes from each child's ParentID.
	ChildCount  uint32
	Live        Live
	Orientation Orientation
	Level       uint8
	Min         float64
	Max         float64
	Current     float64
}

// ActionRequest is sent by a backend when assistive technology asks for an
// action on a node.
type ActionRequest struct {
	NodeID string
	Kind   ActionKind
	Value  *string
}

// Text returns a pointer to s, or nil when s is empty.
func Text(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns *p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
