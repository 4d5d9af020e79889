package export

import (
	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

// pen receives path segments already mapped into output coordinates.
type pen interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// tracePath walks path commands, transforming every point by m. Malformed
// commands are skipped.
func tracePath(path []document.PathCommand, m scene.Matrix, p pen) {
	for _, cmd := range path {
		args := make([]float64, 0, len(cmd))
		for _, v := range cmd[min(1, len(cmd)):] {
			f, ok := scene.Number(v)
			if !ok {
				break
			}
			args = append(args, f)
		}
		pt := func(i int) scene.Point {
			return m.Apply(scene.Point{X: args[i], Y: args[i+1]})
		}
		switch scene.Op(cmd) {
		case "M":
			if len(args) >= 2 {
				a := pt(0)
				p.MoveTo(a.X, a.Y)
			}
		case "L":
			if len(args) >= 2 {
				a := pt(0)
				p.LineTo(a.X, a.Y)
			}
		case "Q":
			if len(args) >= 4 {
				c, a := pt(0), pt(2)
				p.QuadTo(c.X, c.Y, a.X, a.Y)
			}
		case "C":
			if len(args) >= 6 {
				c1, c2, a := pt(0), pt(2), pt(4)
				p.CubicTo(c1.X, c1.Y, c2.X, c2.Y, a.X, a.Y)
			}
		case "Z", "z":
			p.Close()
		}
	}
}

// pathWriter renders segments as SVG path data.
type pathWriter struct {
	d []byte
}

func (w *pathWriter) add(op byte, pts ...float64) {
	if len(w.d) > 0 {
		w.d = append(w.d, ' ')
	}
	w.d = append(w.d, op)
	for _, v := range pts {
		w.d = append(w.d, ' ')
		w.d = appendFloat(w.d, v)
	}
}

func (w *pathWriter) MoveTo(x, y float64)         { w.add('M', x, y) }
func (w *pathWriter) LineTo(x, y float64)         { w.add('L', x, y) }
func (w *pathWriter) QuadTo(cx, cy, x, y float64) { w.add('Q', cx, cy, x, y) }
func (w *pathWriter) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	w.add('C', c1x, c1y, c2x, c2y, x, y)
}
func (w *pathWriter) Close() { w.add('Z') }

func (w *pathWriter) String() string { return string(w.d) }
