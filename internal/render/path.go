package render

import "golang.org/x/image/vector"

// kappa places cubic control points for a quarter-circle arc.
const kappa = 0.5522847498307936

type opKind uint8

const (
	opMove opKind = iota
	opLine
	opQuad
	opCube
	opClose
)

type pathOp struct {
	kind opKind
	pts  [3]Point
}

// Path records an outline in surface coordinates so it can be filled,
// stroked, or used as a clip without being rebuilt.
type Path struct {
	ops []pathOp
}

func (p *Path) MoveTo(pt Point) { p.ops = append(p.ops, pathOp{kind: opMove, pts: [3]Point{pt}}) }
func (p *Path) LineTo(pt Point) { p.ops = append(p.ops, pathOp{kind: opLine, pts: [3]Point{pt}}) }

// QuadTo adds a quadratic curve through control point ctrl ending at end.
func (p *Path) QuadTo(ctrl, end Point) {
	p.ops = append(p.ops, pathOp{kind: opQuad, pts: [3]Point{ctrl, end}})
}

func (p *Path) CubeTo(c1, c2, end Point) {
	p.ops = append(p.ops, pathOp{kind: opCube, pts: [3]Point{c1, c2, end}})
}

func (p *Path) Close() { p.ops = append(p.ops, pathOp{kind: opClose}) }

// Circle appends a closed circle as four cubic arcs. Winding is clockwise
// on screen unless reverse is set; an inner circle wound the other way cuts
// a hole.
func (p *Path) Circle(cx, cy, r float64, reverse bool) {
	k := r * kappa
	if !reverse {
		p.MoveTo(Point{cx + r, cy})
		p.CubeTo(Point{cx + r, cy + k}, Point{cx + k, cy + r}, Point{cx, cy + r})
		p.CubeTo(Point{cx - k, cy + r}, Point{cx - r, cy + k}, Point{cx - r, cy})
		p.CubeTo(Point{cx - r, cy - k}, Point{cx - k, cy - r}, Point{cx, cy - r})
		p.CubeTo(Point{cx + k, cy - r}, Point{cx + r, cy - k}, Point{cx + r, cy})
	} else {
		p.MoveTo(Point{cx + r, cy})
		p.CubeTo(Point{cx + r, cy - k}, Point{cx + k, cy - r}, Point{cx, cy - r})
		p.CubeTo(Point{cx - k, cy - r}, Point{cx - r, cy - k}, Point{cx - r, cy})
		p.CubeTo(Point{cx - r, cy + k}, Point{cx - k, cy + r}, Point{cx, cy + r})
		p.CubeTo(Point{cx + k, cy + r}, Point{cx + r, cy + k}, Point{cx + r, cy})
	}
	p.Close()
}

func (p *Path) replay(z *vector.Rasterizer) {
	open := false
	for _, op := range p.ops {
		switch op.kind {
		case opMove:
			if open {
				z.ClosePath()
			}
			z.MoveTo(f32(op.pts[0]))
			open = true
		case opLine:
			z.LineTo(f32(op.pts[0]))
		case opQuad:
			bx, by := f32(op.pts[0])
			cx, cy := f32(op.pts[1])
			z.QuadTo(bx, by, cx, cy)
		case opCube:
			bx, by := f32(op.pts[0])
			cx, cy := f32(op.pts[1])
			dx, dy := f32(op.pts[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		case opClose:
			if open {
				z.ClosePath()
				open = false
			}
		}
	}
	if open {
		z.ClosePath()
	}
}

func f32(pt Point) (float32, float32) {
	return float32(pt.X), float32(pt.Y)
}
