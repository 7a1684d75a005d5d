package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-preview/internal/render"
	"github.com/Faultbox/urdf-preview/pkg/math"
	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// defaultAxis is used for joints that declare no axis.
const defaultAxis = "1 0 0"

// connectJoints creates a transform per joint, in document order, and
// hangs each child mesh under it.
func (r *Renderer) connectJoints(robot *urdf.Robot) {
	for i := range robot.Joints {
		j := &robot.Joints[i]

		tf := r.engine.CreateTransform(j.Name)
		r.transforms = append(r.transforms, tf)
		if j.Origin != nil {
			applyOrigin(tf, j.Origin)
		}

		if j.Type == urdf.JointContinuous {
			j.OverrideContinuousLimit()
		}
		if j.Type.Articulated() {
			r.addJointControl(j, tf)
		}

		parent, okParent := r.meshes[j.ParentLink()]
		child, okChild := r.meshes[j.ChildLink()]
		if !okParent || !okChild {
			r.log.Debug("joint left unconnected",
				zap.String("joint", j.Name),
				zap.String("parent", j.ParentLink()),
				zap.String("child", j.ChildLink()))
			continue
		}
		if p := parent.Parent(); p != nil {
			tf.SetParent(p)
		} else {
			tf.SetParent(parent)
		}
		child.SetParent(tf)
	}
}

// addJointControl exposes the joint angle as a slider. Joints whose range
// resolves to [0, 0] get no control.
func (r *Renderer) addJointControl(j *urdf.Joint, tf render.Node) {
	lower, upper := j.Limits()
	if lower == 0 && upper == 0 {
		return
	}

	mid := float32((lower + upper) / 2)
	label := r.panel.AddLabel(jointLabel(j.Name, mid))
	slider := r.panel.AddSlider(float32(lower), float32(upper), mid)

	if _, ok := jointAxis(j); !ok {
		r.log.Debug("joint axis unusable, control only updates the label", zap.String("joint", j.Name))
	}

	slider.OnChange(func(v float32) {
		tf.SetRotation(Rotation(j, v))
		label.SetText(jointLabel(j.Name, v))
	})
	r.controls[j.Name] = slider
}

// SetJoint moves the control of the named joint. It returns false when the
// joint has no control.
func (r *Renderer) SetJoint(name string, v float32) bool {
	s, ok := r.Control(name)
	if !ok {
		return false
	}
	s.SetValue(v)
	return true
}

// Control returns the slider of the named joint.
func (r *Renderer) Control(name string) (render.Slider, bool) {
	s, ok := r.controls[name]
	return s, ok
}

func jointLabel(name string, v float32) string {
	return fmt.Sprintf("%s: %.2f", name, v)
}

// Rotation returns the rotation a joint control applies for value v: the
// origin rotation followed by a local turn of v radians about the axis.
func Rotation(j *urdf.Joint, v float32) math.Quat {
	q, _ := originRotation(j.Origin)
	if axis, ok := jointAxis(j); ok {
		q = q.RotateLocal(axis, v)
	}
	return q
}

// jointAxis returns the render-space rotation axis of j.
func jointAxis(j *urdf.Joint) (math.Vec3, bool) {
	text := defaultAxis
	if j.Axis != nil && j.Axis.XYZ != "" {
		text = j.Axis.XYZ
	}
	axis := urdf.StringToVector3(text)
	if axis.HasNaN() || axis.Length() == 0 {
		return axis, false
	}
	return axis, true
}
