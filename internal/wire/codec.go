package wire

import (
	"encoding/binary"
	"math"

	"github.com/mj1618/a11y-bridge/internal/errors"
)

// nullLength marks a null optional byte field.
const nullLength = math.MaxUint32

// MaxLevel is the deepest heading level.
const MaxLevel = 6

// AppendNodeRecord appends the binary encoding of rec to buf.
func AppendNodeRecord(buf []byte, rec NodeRecord) []byte {
	buf = appendBytes(buf, &rec.ID)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(rec.Role))
	buf = appendBytes(buf, rec.Name)
	buf = appendBytes(buf, rec.Value)
	buf = appendBytes(buf, rec.Description)
	buf = appendBytes(buf, rec.Hint)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(rec.Rect.X))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(rec.Rect.Y))
	buf = binary.LittleEndian.AppendUint32(buf, rec.Rect.Width)
	buf = binary.LittleEndian.AppendUint32(buf, rec.Rect.Height)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(rec.State))
	buf = appendBytes(buf, rec.ParentID)
	buf = binary.LittleEndian.AppendUint32(buf, rec.ChildCount)
	buf = append(buf, byte(rec.Live), byte(rec.Orientation), rec.Level)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(rec.Min))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(rec.Max))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(rec.Current))
	return buf
}

// EncodeNodeRecord returns the binary encoding of rec.
func EncodeNodeRecord(rec NodeRecord) []byte {
	return AppendNodeRecord(nil, rec)
}

// DecodeNodeRecord parses a node record. Every byte field is copied, so the
// caller may reuse or free buf as soon as DecodeNodeRecord returns.
func DecodeNodeRecord(buf []byte) (NodeRecord, error) {
	d := decoder{buf: buf}
	var rec NodeRecord

	id := d.bytes("id")
	if id == nil {
		if d.err == nil {
			d.err = errors.InvalidInput(errors.OpDecode, "", "node id is null")
		}
		return NodeRecord{}, d.err
	}
	rec.ID = *id
	rec.Role = Role(d.u32("role"))
	rec.Name = d.bytes("name")
	rec.Value = d.bytes("value")
	rec.Description = d.bytes("description")
	rec.Hint = d.bytes("hint")
	rec.Rect.X = int32(d.u32("x"))
	rec.Rect.Y = int32(d.u32("y"))
	rec.Rect.Width = d.u32("width")
	rec.Rect.Height = d.u32("height")
	rec.State = State(d.u32("state"))
	rec.ParentID = d.bytes("parent_id")
	rec.ChildCount = d.u32("child_count")
	rec.Live = Live(d.u8("live"))
	rec.Orientation = Orientation(d.u8("orientation"))
	rec.Level = d.u8("level")
	rec.Min = d.f64("min")
	rec.Max = d.f64("max")
	rec.Current = d.f64("current")
	d.end()
	if d.err != nil {
		return NodeRecord{}, d.err
	}
	if err := Validate(rec); err != nil {
		return NodeRecord{}, err
	}
	return rec, nil
}

// Validate checks the enumerations and ranges of a record.
func Validate(rec NodeRecord) error {
	switch {
	case rec.ID == "":
		return errors.InvalidInput(errors.OpDecode, "", "node id is empty")
	case !rec.Role.Valid():
		return errors.InvalidEnum(errors.OpDecode, uint32(rec.Role), "role")
	case !rec.State.Valid():
		return errors.InvalidEnum(errors.OpDecode, uint32(rec.State), "state")
	case !rec.Live.Valid():
		return errors.InvalidEnum(errors.OpDecode, uint8(rec.Live), "live")
	case !rec.Orientation.Valid():
		return errors.InvalidEnum(errors.OpDecode, uint8(rec.Orientation), "orientation")
	case rec.Level > MaxLevel:
		return errors.InvalidEnum(errors.OpDecode, rec.Level, "level")
	}
	return nil
}

// AppendActionRequest appends the binary encoding of req to buf.
func AppendActionRequest(buf []byte, req ActionRequest) []byte {
	buf = appendBytes(buf, &req.NodeID)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(req.Kind))
	return appendBytes(buf, req.Value)
}

// DecodeActionRequest parses an action request.
func DecodeActionRequest(buf []byte) (ActionRequest, error) {
	d := decoder{buf: buf}
	var req ActionRequest
	id := d.bytes("node_id")
	req.Kind = ActionKind(d.u32("action_kind"))
	req.Value = d.bytes("value")
	d.end()
	if d.err != nil {
		return ActionRequest{}, d.err
	}
	if id == nil || *id == "" {
		return ActionRequest{}, errors.InvalidInput(errors.OpDecode, "", "action node id is empty")
	}
	req.NodeID = *id
	if !req.Kind.Valid() {
		return ActionRequest{}, errors.InvalidEnum(errors.OpDecode, uint32(req.Kind), "action")
	}
	return req, nil
}

func appendBytes(buf []byte, s *string) []byte {
	if s == nil {
		return binary.LittleEndian.AppendUint32(buf, nullLength)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(*s)))
	return append(buf, *s...)
}

// decoder reads fields sequentially and keeps the first error.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(field string, n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf)-d.off < n {
		d.err = errors.Truncated(field, n, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

// end rejects bytes left over after the last field.
func (d *decoder) end() {
	if d.err == nil && d.off != len(d.buf) {
		d.err = errors.InvalidInput(errors.OpDecode, "", "%d trailing bytes", len(d.buf)-d.off)
	}
}

func (d *decoder) u8(field string) uint8 {
	b := d.take(field, 1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u32(field string) uint32 {
	b := d.take(field, 4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) f64(field string) float64 {
	b := d.take(field, 8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (d *decoder) bytes(field string) *string {
	n := d.u32(field)
	if d.err != nil || n == nullLength {
		return nil
	}
	if uint64(n) > uint64(len(d.buf)-d.off) {
		d.err = errors.Truncated(field, int(min(uint64(n), math.MaxInt32)), len(d.buf)-d.off)
		return nil
	}
	b := d.take(field, int(n))
	if b == nil {
		return nil
	}
	s := string(b)
	return &s
}
