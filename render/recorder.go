package render

import (
	"fmt"
	"strings"

	"honnef.co/go/vgc"
)

type OpKind uint8

const (
	OpCreate OpKind = iota + 1
	OpFillBackground
	OpSetFill
	OpStartShape
	OpCurveTo
	OpCloseShape
	OpEnd
)

func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "Create"
	case OpFillBackground:
		return "FillBackground"
	case OpSetFill:
		return "SetFill"
	case OpStartShape:
		return "StartShape"
	case OpCurveTo:
		return "CurveTo"
	case OpCloseShape:
		return "CloseShape"
	case OpEnd:
		return "End"
	default:
		return fmt.Sprintf("OpKind(%d)", k)
	}
}

// Op is one recorded drawing call. Points holds the call's points in argument
// order; for Create it holds a single point (width, height).
type Op struct {
	Kind   OpKind
	Points []vgc.Point
	Color  vgc.Rgba
}

func (op Op) String() string {
	var sb strings.Builder
	sb.WriteString(op.Kind.String())
	switch op.Kind {
	case OpFillBackground, OpSetFill:
		fmt.Fprintf(&sb, " %s", op.Color.CSS())
	}
	for _, p := range op.Points {
		fmt.Fprintf(&sb, " %s", p)
	}
	return sb.String()
}

// Recorder is a [Context] that records every call.
type Recorder struct {
	Ops []Op

	fill vgc.Rgba
}

var _ Context = (*Recorder)(nil)

func (r *Recorder) Create(width, height float64) error {
	r.Ops = append(r.Ops, Op{Kind: OpCreate, Points: []vgc.Point{vgc.Pt(width, height)}})
	return nil
}

func (r *Recorder) FillBackground(c vgc.Rgba) error {
	r.Ops = append(r.Ops, Op{Kind: OpFillBackground, Color: c})
	return nil
}

func (r *Recorder) SetFill(c vgc.Rgba) error {
	r.fill = c
	r.Ops = append(r.Ops, Op{Kind: OpSetFill, Color: c})
	return nil
}

func (r *Recorder) StartShape(p vgc.Point) error {
	r.Ops = append(r.Ops, Op{Kind: OpStartShape, Points: []vgc.Point{p}, Color: r.fill})
	return nil
}

func (r *Recorder) CurveTo(cp0, cp1, p1 vgc.Point) error {
	r.Ops = append(r.Ops, Op{Kind: OpCurveTo, Points: []vgc.Point{cp0, cp1, p1}, Color: r.fill})
	return nil
}

func (r *Recorder) CloseShape() error {
	r.Ops = append(r.Ops, Op{Kind: OpCloseShape, Color: r.fill})
	return nil
}

func (r *Recorder) End() error {
	r.Ops = append(r.Ops, Op{Kind: OpEnd})
	return nil
}

// Shapes returns the number of StartShape calls recorded.
func (r *Recorder) Shapes() int {
	var n int
	for _, op := range r.Ops {
		if op.Kind == OpStartShape {
			n++
		}
	}
	return n
}

// Kinds returns the kinds of all recorded calls.
func (r *Recorder) Kinds() []OpKind {
	out := make([]OpKind, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Kind
	}
	return out
}

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.fill = vgc.Rgba{}
}
