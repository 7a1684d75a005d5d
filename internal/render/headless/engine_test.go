package headless

import (
	"bytes"
	"context"
	"errors"
	gomath "math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/formats"
	"github.com/Faultbox/urdf-preview/pkg/math"
)

type mapLoader map[string]string

func (l mapLoader) Load(_ context.Context, uri string) ([]byte, error) {
	data, ok := l[uri]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(data), nil
}

const triangleOBJ = "o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

// queue collects posted completions so tests can run them on demand.
type queue []func()

func (q *queue) post(fn func()) { *q = append(*q, fn) }

func (q *queue) drain() {
	for len(*q) > 0 {
		fn := (*q)[0]
		*q = (*q)[1:]
		fn()
	}
}

func TestPrimitives(t *testing.T) {
	e := NewEngine(context.Background(), mapLoader{}, func(fn func()) { fn() })

	box := e.CreateBox("base", 1, 2, 3)
	cyl := e.CreateCylinder("arm", 0.5, 0.2)
	sph := e.CreateSphere("head", 0.4, 32)
	tf := e.CreateTransform("joint")

	assert.Equal(t, []float32{1, 2, 3}, box.(*Node).Dimensions)
	assert.Equal(t, []float32{0.5, 0.2}, cyl.(*Node).Dimensions)
	assert.Equal(t, []float32{0.4, 32}, sph.(*Node).Dimensions)
	assert.Equal(t, KindTransform, tf.(*Node).Kind())
	assert.Len(t, e.Roots(), 4)
	assert.Nil(t, box.Parent())
	assert.Nil(t, box.Material())
}

func TestLoadMesh(t *testing.T) {
	var q queue
	e := NewEngine(context.Background(), mapLoader{"file:///ws/tri.obj": triangleOBJ}, q.post)

	var got *Node
	var gotErr error
	e.LoadMesh("link", "file:///ws/tri.obj", func(m render.Mesh, err error) {
		if m != nil {
			got = m.(*Node)
		}
		gotErr = err
	})
	e.Wait()
	require.Len(t, q, 1)
	q.drain()

	require.NoError(t, gotErr)
	require.NotNil(t, got)
	assert.Equal(t, "link", got.Name())
	assert.Equal(t, KindMesh, got.Kind())
	assert.Equal(t, 1, got.Geometry.TriangleCount())
	assert.Same(t, got, e.Find("link", KindMesh))
}

func TestLoadMeshErrors(t *testing.T) {
	var q queue
	e := NewEngine(context.Background(), mapLoader{"a.dae": "<COLLADA/>"}, q.post)

	var errs []error
	collect := func(_ render.Mesh, err error) { errs = append(errs, err) }
	e.LoadMesh("missing", "b.stl", collect)
	e.LoadMesh("format", "a.dae", collect)
	e.Wait()
	q.drain()

	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.Error(t, err)
	}
	assert.True(t, errors.Is(errs[0], formats.ErrUnsupportedMeshFormat) || errors.Is(errs[1], formats.ErrUnsupportedMeshFormat))
	assert.Empty(t, e.Nodes())
}

func TestWorldMatrix(t *testing.T) {
	e := NewEngine(context.Background(), mapLoader{}, func(fn func()) { fn() })

	parent := e.CreateTransform("parent")
	parent.SetPosition(math.Vec3{X: 1})
	parent.SetRotation(math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2))

	child := e.CreateBox("child", 1, 1, 1)
	child.SetParent(parent)
	child.SetPosition(math.Vec3{X: 1})

	p := child.(*Node).WorldPosition()
	assert.True(t, p.ApproxEqual(math.Vec3{X: 1, Z: -1}, 1e-5), "got %+v", p)
	assert.Same(t, parent.(*Node), child.(*Node).Root())

	child.SetParent(nil)
	assert.Nil(t, child.Parent())
}

func TestDisposeReleasesMaterial(t *testing.T) {
	e := NewEngine(context.Background(), mapLoader{}, func(fn func()) { fn() })

	base := e.CreateMaterial("red")
	base.SetDiffuse(1, 0, 0)
	mesh := e.CreateBox("base", 1, 1, 1)
	clone := base.Clone("red.base")
	mesh.SetMaterial(clone)

	clone.SetAlpha(0.4)
	assert.Equal(t, float32(1), base.Alpha(), "clones must not share state")

	mesh.Dispose()
	mesh.Dispose()
	assert.True(t, mesh.Disposed())
	assert.True(t, clone.Disposed())
	assert.False(t, base.Disposed())
	assert.Empty(t, e.Nodes())

	e.Prune()
	assert.Empty(t, e.nodes)
	assert.Len(t, e.materials, 1)
}

func TestDump(t *testing.T) {
	e := NewEngine(context.Background(), mapLoader{}, func(fn func()) { fn() })
	root := e.CreateBox("base", 1, 1, 1)
	m := e.CreateMaterial("red")
	m.SetDiffuse(1, 0, 0)
	m.SetZOffset(2)
	root.SetMaterial(m.Clone("red"))
	tf := e.CreateTransform("hinge")
	tf.SetParent(root)
	tf.SetRotation(math.QuatFromAxisAngle(math.Vec3{Y: 1}, gomath.Pi/2))
	root.SetScaling(math.Vec3{X: 2, Y: 1, Z: 1})

	var buf bytes.Buffer
	require.NoError(t, e.Dump(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "base [box]")
	assert.Contains(t, lines[0], "rgb=(1.00, 0.00, 0.00)")
	assert.Contains(t, lines[0], "scale=(2.000, 1.000, 1.000)")
	assert.Contains(t, lines[0], "zoffset=2")
	assert.NotContains(t, lines[0], "rot=")
	assert.True(t, strings.HasPrefix(lines[1], "  hinge [transform]"))
	assert.Contains(t, lines[1], "rot=(0.000, 0.707, 0.000, 0.707)")
}

func TestPanel(t *testing.T) {
	p := NewPanel()
	l := p.AddLabel("elbow: 0.00")
	s := p.AddSlider(-1, 1, 0)

	var seen []float32
	s.OnChange(func(v float32) { seen = append(seen, v) })
	s.SetValue(0.5)
	s.SetValue(3)

	assert.Equal(t, []float32{0.5, 1}, seen)
	assert.Equal(t, float32(1), s.Value())
	l.SetText("elbow: 1.00")
	assert.Equal(t, "elbow: 1.00", p.Labels[0].Text())

	p.Clear()
	assert.Empty(t, p.Labels)
	assert.Empty(t, p.Sliders)
}

func TestOrbitCameraReset(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(100, 50)
	c.HandleZoom(1000)
	c.Target = math.Vec3{X: 2}

	assert.Equal(t, float32(2), c.Radius)
	c.Reset()
	assert.Equal(t, float32(0), c.Alpha)
	assert.InDelta(t, gomath.Pi/4, c.Beta, 1e-6)
	assert.Equal(t, math.Vec3{}, c.Target)

	p := c.Position()
	assert.InDelta(t, p.X, p.Y, 1e-5)
}
