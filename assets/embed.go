package assets

import (
	"embed"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

// TintShaderName is the masked tint blend shader.
const TintShaderName = "tint.kage"

// ShaderSource returns the source of an embedded shader by file name.
func ShaderSource(name string) ([]byte, error) {
	return shaderFS.ReadFile("shaders/" + cleanAssetPath(name))
}

// LoadShader compiles an embedded shader.
func LoadShader(name string) (*ebiten.Shader, error) {
	src, err := ShaderSource(name)
	if err != nil {
		return nil, err
	}
	return ebiten.NewShader(src)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "shaders/"); ok {
		s = after
	}
	return s
}
