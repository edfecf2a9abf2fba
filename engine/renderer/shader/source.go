package shader

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Carmen-Shannon/oxy-raw/engine/surface"
)

// Kind selects which program family a Config builds.
type Kind int

const (
	// KindMesh is the lit mesh program composed from Capability bits.
	KindMesh Kind = iota

	// KindParticles is the unlit point-cloud program. Capabilities are ignored.
	KindParticles
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindParticles:
		return "particles"
	default:
		return "unknown"
	}
}

// Sources for every program family and language, embedded as text/template files.
//
//go:embed assets/*.glsl assets/*.wgsl
var assets embed.FS

var sourceTemplates = template.Must(template.New("shader").ParseFS(assets, "assets/*.glsl", "assets/*.wgsl"))

// sourceData feeds the templates. Every flag is resolved before rendering so the templates
// stay free of bit arithmetic.
type sourceData struct {
	Ambient     bool
	Diffuse     bool
	Specular    bool
	NormalMap   bool
	VertexColor bool
	Roughness   bool
	Lit         bool
	Loc         map[string]int
}

func newSourceData(caps Capability) sourceData {
	loc := make(map[string]int, roleCount)
	for _, r := range Roles() {
		loc[r.AttributeName()] = r.Location()
	}
	return sourceData{
		Ambient:     caps.Has(CapAmbient),
		Diffuse:     caps.Has(CapDiffuse),
		Specular:    caps.Has(CapSpecular),
		NormalMap:   caps.Has(CapNormalMap),
		VertexColor: caps.Has(CapVertexColor),
		Roughness:   caps.Has(CapRoughness),
		Lit:         caps.Lit(),
		Loc:         loc,
	}
}

// Source renders the vertex and fragment source of a program permutation for a language.
//
// Parameters:
//   - lang: the target shading language
//   - kind: the program family
//   - caps: the capability bits, ignored for KindParticles
//
// Returns:
//   - vertex: the vertex stage source
//   - fragment: the fragment stage source
//   - err: an error if the language or kind is unknown
func Source(lang surface.Language, kind Kind, caps Capability) (vertex, fragment string, err error) {
	var ext string
	switch lang {
	case surface.LanguageGLSL:
		ext = "glsl"
	case surface.LanguageWGSL:
		ext = "wgsl"
	default:
		return "", "", fmt.Errorf("shader: no sources for language %s", lang)
	}
	if kind != KindMesh && kind != KindParticles {
		return "", "", fmt.Errorf("shader: unknown program kind %d", kind)
	}
	if kind == KindParticles {
		caps = 0
	}

	data := newSourceData(caps)
	render := func(stage string) (string, error) {
		var buf bytes.Buffer
		name := fmt.Sprintf("%s.%s.%s", kind, stage, ext)
		if err := sourceTemplates.ExecuteTemplate(&buf, name, data); err != nil {
			return "", fmt.Errorf("shader: render %s: %w", name, err)
		}
		return buf.String(), nil
	}

	if vertex, err = render("vert"); err != nil {
		return "", "", err
	}
	if fragment, err = render("frag"); err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}
