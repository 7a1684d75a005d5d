// Package preview connects description files on disk to the viewer: it
// recognizes robot descriptions, parses them into viewer messages, maps
// asset paths to loadable URIs and tracks the editor selection.
package preview

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/clbanning/mxj/v2"

	"github.com/Faultbox/urdf-preview/pkg/urdf"
)

// ErrNoRobot is returned for well-formed documents without a robot element.
var ErrNoRobot = errors.New("document has no robot element")

var robotTag = regexp.MustCompile(`.*<\s*robot.*>`)

func init() {
	// Attributes merge into their element under their plain names.
	mxj.PrependAttrWithHyphen(false)
}

// CanHandleDocument reports whether fileName has one of the given
// extensions (case-insensitive, without the dot) and text contains a
// robot element.
func CanHandleDocument(fileName, text string, extensions []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.EqualFold(strings.TrimPrefix(e, "."), ext) {
			return robotTag.MatchString(text)
		}
	}
	return false
}

// ParseDocument parses XML into a loose document tree: attributes and
// child elements share one map, a repeated element becomes a list and a
// single one stays a map.
func ParseDocument(data []byte) (map[string]any, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return m.Old(), nil
}

// RobotElement returns the robot element of a parsed document.
func RobotElement(doc map[string]any) (map[string]any, error) {
	switch r := doc["robot"].(type) {
	case map[string]any:
		return r, nil
	case string:
		// <robot/> without attributes or children
		return map[string]any{}, nil
	default:
		return nil, ErrNoRobot
	}
}

// FileURI renders an absolute path as a file:// URI.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	if !strings.HasPrefix(u.Path, "/") {
		// Windows drive paths
		u.Path = "/" + u.Path
	}
	return u.String()
}

// NewAssetMapper returns a mapper that strips prefix from asset paths and
// resolves them against root. Paths that already carry a URI scheme are
// kept, and absolute paths are only turned into URIs.
func NewAssetMapper(root, prefix string) urdf.AssetMapper {
	return func(path string) string {
		rel := stripPrefix(path, prefix)
		if u, err := url.Parse(rel); err == nil && len(u.Scheme) > 1 {
			return rel
		}
		if !filepath.IsAbs(rel) {
			rel = filepath.Join(root, filepath.FromSlash(rel))
		}
		return FileURI(rel)
	}
}

func stripPrefix(path, prefix string) string {
	if prefix == "" || prefix == urdf.PackagePrefix {
		return urdf.StripPackagePrefix(path)
	}
	return strings.Replace(path, prefix, "", 1)
}

var quotedWord = regexp.MustCompile(`"[^"]+"`)

// ResolveSelectedMeshID returns the text between the quotes of the quoted
// word at the given zero-based line and column, or "" when the position is
// not inside one.
func ResolveSelectedMeshID(text string, line, column int) string {
	lines := strings.Split(text, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	l := strings.TrimSuffix(lines[line], "\r")
	for _, loc := range quotedWord.FindAllStringIndex(l, -1) {
		if column >= loc[0] && column <= loc[1] {
			return l[loc[0]+1 : loc[1]-1]
		}
	}
	return ""
}
