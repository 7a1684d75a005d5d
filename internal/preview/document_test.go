package preview

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

const sampleURDF = `<?xml version="1.0"?>
<!-- two link arm -->
<robot name="arm">
  <material name="red">
    <color rgba="1 0 0 1"/>
  </material>
  <link name="base">
    <visual>
      <geometry>
        <box size="1 1 0.2"/>
      </geometry>
      <material name="red"/>
    </visual>
  </link>
  <link name="upper">
    <visual>
      <origin xyz="0 0 0.5" rpy="0 0 0"/>
      <geometry>
        <mesh filename="package://arm_description/meshes/upper.stl" scale="0.001 0.001 0.001"/>
      </geometry>
    </visual>
  </link>
  <joint name="shoulder" type="revolute">
    <parent link="base"/>
    <child link="upper"/>
    <axis xyz="0 0 1"/>
    <limit lower="-1.57" upper="1.57" effort="10" velocity="1"/>
  </joint>
</robot>
`

func TestCanHandleDocument(t *testing.T) {
	exts := []string{"urdf", "xml"}
	tests := []struct {
		name, file, text string
		want             bool
	}{
		{"urdf", "arm.urdf", "<robot name=\"a\">", true},
		{"upper case extension", "ARM.URDF", "<robot>", true},
		{"xml", "arm.xml", "<?xml?>\n<  robot name='x'>", true},
		{"no robot", "arm.urdf", "<launch/>", false},
		{"wrong extension", "arm.xacro", "<robot>", false},
		{"no extension", "robot", "<robot>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanHandleDocument(tt.file, tt.text, exts))
		})
	}
}

func TestParseDocumentShapes(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleURDF))
	require.NoError(t, err)

	raw, err := RobotElement(doc)
	require.NoError(t, err)
	assert.Equal(t, "arm", raw["name"])
	assert.IsType(t, []any{}, raw["link"], "repeated elements are lists")
	assert.IsType(t, map[string]any{}, raw["joint"], "single elements are maps")
	assert.IsType(t, map[string]any{}, raw["material"])
}

func TestParseAndNormalize(t *testing.T) {
	doc, err := ParseDocument([]byte(sampleURDF))
	require.NoError(t, err)
	raw, err := RobotElement(doc)
	require.NoError(t, err)

	robot, err := urdf.Normalize(raw, NewAssetMapper("/ws", urdf.PackagePrefix))
	require.NoError(t, err)

	require.Len(t, robot.Materials, 1)
	assert.Equal(t, "1 0 0 1", robot.Materials[0].Color.RGBA)
	require.Len(t, robot.Links, 2)
	assert.Equal(t, "1 1 0.2", robot.Links[0].Visual.Geometry.Box.Size)
	assert.Equal(t, "red", robot.Links[0].MaterialName())
	assert.Equal(t, "file:///ws/arm_description/meshes/upper.stl", robot.Links[1].MeshFilename())
	assert.Equal(t, "0.001 0.001 0.001", robot.Links[1].Visual.Geometry.Mesh.Scale)
	assert.Equal(t, "0 0 0.5", robot.Links[1].Visual.Origin.XYZ)

	require.Len(t, robot.Joints, 1)
	j := robot.Joints[0]
	assert.Equal(t, urdf.JointRevolute, j.Type)
	assert.Equal(t, "base", j.ParentLink())
	assert.Equal(t, "upper", j.ChildLink())
	lower, upper := j.Limits()
	assert.Equal(t, -1.57, lower)
	assert.Equal(t, 1.57, upper)
}

func TestRobotElement(t *testing.T) {
	doc, err := ParseDocument([]byte("<robot/>"))
	require.NoError(t, err)
	raw, err := RobotElement(doc)
	require.NoError(t, err)
	robot, err := urdf.Normalize(raw, func(s string) string { return s })
	require.NoError(t, err)
	assert.Empty(t, robot.Links)

	doc, err = ParseDocument([]byte("<launch><node/></launch>"))
	require.NoError(t, err)
	_, err = RobotElement(doc)
	assert.ErrorIs(t, err, ErrNoRobot)

	_, err = ParseDocument([]byte("<robot><link>"))
	assert.Error(t, err)
}

func TestAssetMapper(t *testing.T) {
	root := filepath.FromSlash("/ws/src")
	m := NewAssetMapper(root, urdf.PackagePrefix)

	tests := []struct {
		in, want string
	}{
		{"package://pkg/meshes/a.stl", "file:///ws/src/pkg/meshes/a.stl"},
		{"meshes/b.obj", "file:///ws/src/meshes/b.obj"},
		{"/abs/c.stl", "file:///abs/c.stl"},
		{"https://example.com/d.stl", "https://example.com/d.stl"},
		{"package://pkg/with space.stl", "file:///ws/src/pkg/with%20space.stl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m(tt.in), tt.in)
	}

	custom := NewAssetMapper("/ws", "model://")
	assert.Equal(t, "file:///ws/pkg/e.stl", custom("model://pkg/e.stl"))
}

func TestResolveSelectedMeshID(t *testing.T) {
	text := "<robot>\n  <link name=\"base_link\" type=\"x\">\r\n  <joint/>\n</robot>"
	tests := []struct {
		name         string
		line, column int
		want         string
	}{
		{"inside quotes", 1, 18, "base_link"},
		{"on opening quote", 1, 13, "base_link"},
		{"just after closing quote", 1, 24, "base_link"},
		{"second word", 1, 31, "x"},
		{"outside quotes", 1, 4, ""},
		{"line without quotes", 2, 4, ""},
		{"line out of range", 9, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSelectedMeshID(text, tt.line, tt.column))
		})
	}
}
