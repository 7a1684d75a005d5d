package urdf

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// PackagePrefix marks package-relative asset paths.
const PackagePrefix = "package://"

// ContinuousLimit is the half range given to continuous joints: two full
// turns in each direction.
const ContinuousLimit = 2 * math.Pi

// repeatedElements are the robot children that may occur any number of times.
var repeatedElements = []string{"joint", "link", "material"}

// AssetMapper turns a description-relative asset path into a loadable URI.
type AssetMapper func(path string) string

// Listify returns v as a list: lists are kept, a single value becomes a
// one-element list, and nil or an empty element becomes an empty list.
func Listify(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	case string:
		if t == "" {
			return []any{}
		}
	}
	return []any{v}
}

// NormalizeRaw returns a shallow copy of the raw robot element where every
// repeated element is a list. It is idempotent.
func NormalizeRaw(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+len(repeatedElements))
	for k, v := range raw {
		out[k] = v
	}
	for _, key := range repeatedElements {
		out[key] = Listify(raw[key])
	}
	return out
}

// elementHook adapts loosely typed elements to struct fields. Empty
// elements like <box/>, which the document parser yields as "", decode as
// zero values, and a repeated element where one is expected keeps its
// first occurrence.
func elementHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	target := to
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
	}
	if target.Kind() != reflect.Struct {
		return data, nil
	}
	switch from.Kind() {
	case reflect.String:
		if strings.TrimSpace(data.(string)) == "" {
			return map[string]any{}, nil
		}
	case reflect.Slice:
		v := reflect.ValueOf(data)
		if v.Len() == 0 {
			return map[string]any{}, nil
		}
		return v.Index(0).Interface(), nil
	}
	return data, nil
}

// Decode converts a normalized raw robot element into a Robot.
func Decode(raw map[string]any) (*Robot, error) {
	var robot Robot
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       elementHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &robot,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding robot %q: %w", raw["name"], err)
	}
	robot.ensureLists()
	return &robot, nil
}

func (r *Robot) ensureLists() {
	if r.Materials == nil {
		r.Materials = []Material{}
	}
	if r.Links == nil {
		r.Links = []Link{}
	}
	if r.Joints == nil {
		r.Joints = []Joint{}
	}
}

// ResolveAssetPaths rewrites every non-empty mesh and texture filename
// through mapper, calling it exactly once per filename.
func ResolveAssetPaths(r *Robot, mapper AssetMapper) {
	for i := range r.Links {
		g := r.Links[i].Geometry()
		if g != nil && g.Mesh != nil && g.Mesh.Filename != "" {
			g.Mesh.Filename = mapper(g.Mesh.Filename)
		}
	}
	for i := range r.Materials {
		tex := r.Materials[i].Texture
		if tex != nil && tex.Filename != "" {
			tex.Filename = mapper(tex.Filename)
		}
	}
}

// StripPackagePrefix removes the package:// marker from an asset path.
func StripPackagePrefix(path string) string {
	return strings.Replace(path, PackagePrefix, "", 1)
}

// Normalize builds the canonical robot model from a raw robot element.
func Normalize(raw map[string]any, mapper AssetMapper) (*Robot, error) {
	robot, err := Decode(NormalizeRaw(raw))
	if err != nil {
		return nil, err
	}
	ResolveAssetPaths(robot, mapper)
	return robot, nil
}

// OverrideContinuousLimit gives a continuous joint its fixed ±2π range,
// replacing any declared limit.
func (j *Joint) OverrideContinuousLimit() {
	j.Limit = &Limit{
		Lower: strconv.FormatFloat(-ContinuousLimit, 'g', -1, 64),
		Upper: strconv.FormatFloat(ContinuousLimit, 'g', -1, 64),
	}
}

// Limits returns the resolved joint range. Absent or unparsable values
// resolve to 0.
func (j *Joint) Limits() (lower, upper float64) {
	if j.Limit == nil {
		return 0, 0
	}
	return limitValue(j.Limit.Lower), limitValue(j.Limit.Upper)
}

func limitValue(s string) float64 {
	v := ParseFloat(s)
	if math.IsNaN(v) {
		return 0
	}
	return v
}
