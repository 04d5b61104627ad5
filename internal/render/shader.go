package render

import (
	"housedev/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxLights is the number of hemispheric lights the shader evaluates. Extra lights are ignored.
const maxLights = 2

// Hemispheric lighting: each light blends from its ground color (surface facing away)
// to its diffuse color (surface facing the light direction).
const (
	hemiVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragNormal;
void main() {
  fragNormal = mat3(transpose(inverse(matModel))) * vertexNormal;
  gl_Position = matProjection * matView * matModel * vec4(vertexPosition, 1.0);
}
`
	hemiFS = `#version 330
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 lightDirs[2];
uniform vec3 lightDiffuse[2];
uniform vec3 lightGround[2];
uniform float lightIntensity[2];
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 light = vec3(0.0);
  for (int i = 0; i < 2; i++) {
    float w = 0.5 * dot(N, normalize(lightDirs[i])) + 0.5;
    light += mix(lightGround[i], lightDiffuse[i], w) * lightIntensity[i];
  }
  finalColor = vec4(colDiffuse.rgb * light, colDiffuse.a);
}
`
)

type lightShader struct {
	shader       rl.Shader
	dirsLoc      int32
	diffuseLoc   int32
	groundLoc    int32
	intensityLoc int32
}

func loadLightShader() (lightShader, bool) {
	sh := rl.LoadShaderFromMemory(hemiVS, hemiFS)
	if !rl.IsShaderValid(sh) {
		return lightShader{}, false
	}
	return lightShader{
		shader:       sh,
		dirsLoc:      rl.GetShaderLocation(sh, "lightDirs"),
		diffuseLoc:   rl.GetShaderLocation(sh, "lightDiffuse"),
		groundLoc:    rl.GetShaderLocation(sh, "lightGround"),
		intensityLoc: rl.GetShaderLocation(sh, "lightIntensity"),
	}, true
}

// setLights uploads the scene lights once per frame. Missing slots get zero intensity.
func (ls lightShader) setLights(lights []scene.HemisphericLight) {
	var dirs, diffuse, ground [maxLights * 3]float32
	var intensity [maxLights]float32
	for i := 0; i < maxLights && i < len(lights); i++ {
		l := lights[i]
		copy(dirs[i*3:], []float32{l.Direction[0], l.Direction[1], l.Direction[2]})
		copy(diffuse[i*3:], []float32{l.Diffuse.R, l.Diffuse.G, l.Diffuse.B})
		copy(ground[i*3:], []float32{l.Ground.R, l.Ground.G, l.Ground.B})
		intensity[i] = l.Intensity
	}
	if ls.dirsLoc >= 0 {
		rl.SetShaderValueV(ls.shader, ls.dirsLoc, dirs[:], rl.ShaderUniformVec3, maxLights)
	}
	if ls.diffuseLoc >= 0 {
		rl.SetShaderValueV(ls.shader, ls.diffuseLoc, diffuse[:], rl.ShaderUniformVec3, maxLights)
	}
	if ls.groundLoc >= 0 {
		rl.SetShaderValueV(ls.shader, ls.groundLoc, ground[:], rl.ShaderUniformVec3, maxLights)
	}
	if ls.intensityLoc >= 0 {
		rl.SetShaderValueV(ls.shader, ls.intensityLoc, intensity[:], rl.ShaderUniformFloat, maxLights)
	}
}
