package headless

import (
	"context"
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/math"
)

func TestBoundsEmpty(t *testing.T) {
	e := NewEngine(context.Background(), mapLoader{}, func(fn func()) { fn() })
	e.CreateTransform("joint")
	e.CreateBox("broken", float32(gomath.NaN()), 1, 1)

	_, _, ok := e.Bounds()
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	var q queue
	e := NewEngine(context.Background(), mapLoader{"file:///ws/tri.obj": triangleOBJ}, q.post)

	box := e.CreateBox("base", 2, 2, 2)
	box.SetPosition(math.Vec3{X: 1})

	// A cylinder laid on its side by its parent frame.
	tf := e.CreateTransform("hinge")
	tf.SetRotation(math.QuatFromAxisAngle(math.Vec3{Z: 1}, gomath.Pi/2))
	cyl := e.CreateCylinder("arm", 4, 2)
	cyl.SetParent(tf)

	var tri render.Mesh
	e.LoadMesh("tip", "file:///ws/tri.obj", func(m render.Mesh, err error) {
		require.NoError(t, err)
		tri = m
	})
	e.Wait()
	q.drain()
	require.NotNil(t, tri)
	tri.SetPosition(math.Vec3{Z: 5})
	tri.SetScaling(math.Vec3{X: 3, Y: 3, Z: 3})

	gone := e.CreateSphere("gone", 100, 8)
	gone.Dispose()

	min, max, ok := e.Bounds()
	require.True(t, ok)
	assert.True(t, min.ApproxEqual(math.Vec3{X: -2, Y: -1, Z: -1}, 1e-5), "min %+v", min)
	assert.True(t, max.ApproxEqual(math.Vec3{X: 3, Y: 3, Z: 5}, 1e-5), "max %+v", max)
}
