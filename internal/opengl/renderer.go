package opengl

import (
	"fmt"
	gomath "math"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"sgengine/core"
	"sgengine/math"
	"sgengine/render"
	"sgengine/scene"
)

// Light slots in the lit shader. Lights past these limits still cull and
// cast into the plan but are not shaded.
const (
	maxAngledLights = 4
	maxPointLights  = 2
)

// Texture units: angled shadow maps take 0..3, point cube maps follow.
const (
	angledUnitBase = 0
	pointUnitBase  = maxAngledLights
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	VertCount  int32
	HasIndices bool
}

// angledSlot is a spot or directional light bound for the lit pass.
type angledSlot struct {
	directional bool
	position    math.Vec3
	direction   math.Vec3
	color       math.Vec3
	rangeLimit  float32
	cutoff      float32
	shadow      math.Mat4
}

// pointSlot is a point light bound for the lit pass.
type pointSlot struct {
	light *scene.PointLight
	color math.Vec3
}

// Renderer is the OpenGL backend executing a render.Plan.
type Renderer struct {
	program       uint32
	depthProg     uint32
	cubeDepthProg uint32

	// Vertex transform uniforms
	mvpLoc   int32
	modelLoc int32

	// Object uniforms
	objectColorLoc     int32
	litLoc             int32
	receivesShadowsLoc int32
	ambientLoc         int32

	// Spot and directional lights
	angledCountLoc       int32
	angledDirectionalLoc [maxAngledLights]int32
	angledPosLoc         [maxAngledLights]int32
	angledDirLoc         [maxAngledLights]int32
	angledColorLoc       [maxAngledLights]int32
	angledRangeLoc       [maxAngledLights]int32
	angledCutoffLoc      [maxAngledLights]int32
	angledShadowMatLoc   [maxAngledLights]int32

	// Point lights
	pointCountLoc int32
	pointPosLoc   [maxPointLights]int32
	pointColorLoc [maxPointLights]int32
	pointRangeLoc [maxPointLights]int32
	pointFarLoc   [maxPointLights]int32

	// Depth shaders
	depthMVPLoc     int32
	cubeMVPLoc      int32
	cubeModelLoc    int32
	cubeLightPosLoc int32
	cubeFarPlaneLoc int32

	// Shadow targets, reused frame to frame
	shadowMaps []*ShadowMap
	cubeMaps   []*CubeShadowMap

	angled  [maxAngledLights]angledSlot
	points  [maxPointLights]pointSlot

	slotsWarned bool
	nAngled int
	nPoints int

	viewportW  int32
	viewportH  int32
	clearColor core.Color
	wireframe  bool

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// ── Shaders ───────────────────────────────────────────────────────────────────

// vertex shader: MVP + model transform, world-space position and normal to fragment.
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;

out vec3 fragPos;
out vec3 fragNormal;
out vec4 fragColor;

void main() {
    fragPos    = (model * vec4(inPosition, 1.0)).xyz;
    fragNormal = mat3(transpose(inverse(model))) * inNormal;
    fragColor  = inColor;
    gl_Position = mvp * vec4(inPosition, 1.0);
}
` + "\x00"

const fragSrc = `
#version 410 core
#define MAX_ANGLED 4
#define MAX_POINT 2

in vec3 fragPos;
in vec3 fragNormal;
in vec4 fragColor;

uniform vec4 objectColor;
uniform int  lit;
uniform int  receivesShadows;
uniform vec3 ambient;

uniform int   angledCount;
uniform int   angledDirectional[MAX_ANGLED];
uniform vec3  angledPos[MAX_ANGLED];
uniform vec3  angledDir[MAX_ANGLED];
uniform vec3  angledColor[MAX_ANGLED];
uniform float angledRange[MAX_ANGLED];
uniform float angledCutoff[MAX_ANGLED];
uniform mat4  angledShadowMatrix[MAX_ANGLED];
uniform sampler2DShadow angledShadowMap[MAX_ANGLED];

uniform int   pointCount;
uniform vec3  pointPos[MAX_POINT];
uniform vec3  pointColor[MAX_POINT];
uniform float pointRange[MAX_POINT];
uniform float pointFar[MAX_POINT];
uniform samplerCube pointShadowMap[MAX_POINT];

out vec4 outColor;

float angledShadow(int i) {
    vec4 sc = angledShadowMatrix[i] * vec4(fragPos, 1.0);
    vec3 p = sc.xyz / sc.w;
    if (p.z > 1.0) {
        return 1.0;
    }
    return texture(angledShadowMap[i], vec3(p.xy, p.z - 0.002));
}

float pointShadow(int i) {
    vec3 d = fragPos - pointPos[i];
    float closest = texture(pointShadowMap[i], d).r * pointFar[i];
    return length(d) - 0.05 > closest ? 0.0 : 1.0;
}

void main() {
    vec4 base = fragColor * objectColor;
    if (lit == 0) {
        outColor = base;
        return;
    }
    vec3 n = normalize(fragNormal);
    vec3 light = ambient;

    for (int i = 0; i < angledCount; i++) {
        vec3 l;
        float att = 1.0;
        if (angledDirectional[i] == 1) {
            l = -angledDir[i];
        } else {
            vec3 d = angledPos[i] - fragPos;
            float dist = length(d);
            l = d / max(dist, 1e-4);
            att = clamp(1.0 - dist / angledRange[i], 0.0, 1.0);
            att *= smoothstep(angledCutoff[i], angledCutoff[i] + 0.05, dot(-l, angledDir[i]));
        }
        float s = receivesShadows == 1 ? angledShadow(i) : 1.0;
        light += angledColor[i] * max(dot(n, l), 0.0) * att * s;
    }

    for (int i = 0; i < pointCount; i++) {
        vec3 d = pointPos[i] - fragPos;
        float dist = length(d);
        vec3 l = d / max(dist, 1e-4);
        float att = clamp(1.0 - dist / pointRange[i], 0.0, 1.0);
        float s = receivesShadows == 1 ? pointShadow(i) : 1.0;
        light += pointColor[i] * max(dot(n, l), 0.0) * att * s;
    }

    outColor = vec4(base.rgb * light, base.a);
}
` + "\x00"

// depth-only vertex shader for spot and directional shadow maps
const depthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 lightMVP;
void main() {
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

// depth-only fragment shader (OpenGL writes depth implicitly)
const depthFragSrc = `
#version 410 core
void main() {}
` + "\x00"

// cube faces store distance to the light divided by the far plane
const cubeDepthVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
uniform mat4 lightMVP;
uniform mat4 model;
out vec3 worldPos;
void main() {
    worldPos = (model * vec4(inPosition, 1.0)).xyz;
    gl_Position = lightMVP * vec4(inPosition, 1.0);
}
` + "\x00"

const cubeDepthFragSrc = `
#version 410 core
in vec3 worldPos;
uniform vec3 lightPos;
uniform float farPlane;
void main() {
    gl_FragDepth = length(worldPos - lightPos) / farPlane;
}
` + "\x00"

// ── NewRenderer ───────────────────────────────────────────────────────────────

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	scene.Logger().WithField("version", gl.GoStr(gl.GetString(gl.VERSION))).Info("OpenGL initialised")

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, errors.Wrap(err, "main shader")
	}
	depthProg, err := newProgram(depthVertSrc, depthFragSrc)
	if err != nil {
		return nil, errors.Wrap(err, "depth shader")
	}
	cubeDepthProg, err := newProgram(cubeDepthVertSrc, cubeDepthFragSrc)
	if err != nil {
		return nil, errors.Wrap(err, "cube depth shader")
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	r := &Renderer{
		program:       prog,
		depthProg:     depthProg,
		cubeDepthProg: cubeDepthProg,

		mvpLoc:   uniform(prog, "mvp"),
		modelLoc: uniform(prog, "model"),

		objectColorLoc:     uniform(prog, "objectColor"),
		litLoc:             uniform(prog, "lit"),
		receivesShadowsLoc: uniform(prog, "receivesShadows"),
		ambientLoc:         uniform(prog, "ambient"),
		angledCountLoc:     uniform(prog, "angledCount"),
		pointCountLoc:      uniform(prog, "pointCount"),

		depthMVPLoc:     uniform(depthProg, "lightMVP"),
		cubeMVPLoc:      uniform(cubeDepthProg, "lightMVP"),
		cubeModelLoc:    uniform(cubeDepthProg, "model"),
		cubeLightPosLoc: uniform(cubeDepthProg, "lightPos"),
		cubeFarPlaneLoc: uniform(cubeDepthProg, "farPlane"),

		clearColor: core.Color{R: 0.1, G: 0.1, B: 0.12, A: 1},
		gpuMeshes:  make(map[*scene.Mesh]*GPUMesh),
	}

	gl.UseProgram(prog)
	for i := 0; i < maxAngledLights; i++ {
		r.angledDirectionalLoc[i] = uniform(prog, fmt.Sprintf("angledDirectional[%d]", i))
		r.angledPosLoc[i] = uniform(prog, fmt.Sprintf("angledPos[%d]", i))
		r.angledDirLoc[i] = uniform(prog, fmt.Sprintf("angledDir[%d]", i))
		r.angledColorLoc[i] = uniform(prog, fmt.Sprintf("angledColor[%d]", i))
		r.angledRangeLoc[i] = uniform(prog, fmt.Sprintf("angledRange[%d]", i))
		r.angledCutoffLoc[i] = uniform(prog, fmt.Sprintf("angledCutoff[%d]", i))
		r.angledShadowMatLoc[i] = uniform(prog, fmt.Sprintf("angledShadowMatrix[%d]", i))
		gl.Uniform1i(uniform(prog, fmt.Sprintf("angledShadowMap[%d]", i)), int32(angledUnitBase+i))
	}
	for i := 0; i < maxPointLights; i++ {
		r.pointPosLoc[i] = uniform(prog, fmt.Sprintf("pointPos[%d]", i))
		r.pointColorLoc[i] = uniform(prog, fmt.Sprintf("pointColor[%d]", i))
		r.pointRangeLoc[i] = uniform(prog, fmt.Sprintf("pointRange[%d]", i))
		r.pointFarLoc[i] = uniform(prog, fmt.Sprintf("pointFar[%d]", i))
		gl.Uniform1i(uniform(prog, fmt.Sprintf("pointShadowMap[%d]", i)), int32(pointUnitBase+i))
	}
	return r, nil
}

// ── Viewport ──────────────────────────────────────────────────────────────────

// SetViewport resizes the OpenGL viewport and stores the dimensions for
// restoring after the shadow passes.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// SetClearColor sets the background of the lit pass.
func (r *Renderer) SetClearColor(c core.Color) {
	r.clearColor = c
}

// SetWireframe toggles wireframe rendering of the lit pass.
func (r *Renderer) SetWireframe(enabled bool) {
	r.wireframe = enabled
}

func (r *Renderer) IsWireframe() bool {
	return r.wireframe
}

// ── Execute ───────────────────────────────────────────────────────────────────

// Execute renders one frame: every shadow pass of the plan into its light's
// depth target, then the camera's draw list with the ambient lights of w.
func (r *Renderer) Execute(plan *render.Plan, w *render.World) error {
	if err := r.shadowPasses(plan); err != nil {
		return err
	}
	r.mainPass(plan, w)
	return nil
}

// shadowPasses fills the light slots in plan order. Spot and directional
// passes take one 2D map each; a point light takes one cube map for its six
// face passes.
func (r *Renderer) shadowPasses(plan *render.Plan) error {
	r.nAngled, r.nPoints = 0, 0

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	// Front-face culling in the depth pass reduces acne on closed meshes
	gl.CullFace(gl.FRONT)
	defer func() {
		gl.CullFace(gl.BACK)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.viewportW, r.viewportH)
	}()

	for i := range plan.Shadows {
		pass := &plan.Shadows[i]
		switch pass.Kind {
		case scene.LightSpot, scene.LightDirectional:
			if r.nAngled == maxAngledLights {
				r.warnSlots(pass.Kind)
				continue
			}
			sm, err := r.shadowMap(r.nAngled, pass)
			if err != nil {
				return err
			}
			r.angled[r.nAngled] = angledFromPass(pass)
			r.nAngled++

			sm.Bind()
			gl.UseProgram(r.depthProg)
			for _, d := range pass.Draws {
				mvp := pass.ViewProjection.Mul(d.Model)
				gl.UniformMatrix4fv(r.depthMVPLoc, 1, false, mvp.Ptr())
				r.drawMesh(d.Object.Mesh)
			}

		case scene.LightPoint:
			if pass.Face == 0 {
				if r.nPoints == maxPointLights {
					r.warnSlots(pass.Kind)
					continue
				}
				if _, err := r.cubeMap(r.nPoints, pass.Point.ShadowSize); err != nil {
					return err
				}
				l := pass.Point
				r.points[r.nPoints] = pointSlot{light: l, color: l.Color.Vec3().Mul(l.Intensity)}
				r.nPoints++
			}
			slot := r.nPoints - 1
			if slot < 0 || r.points[slot].light != pass.Point {
				continue
			}
			r.cubeMaps[slot].BindFace(pass.Face)
			gl.UseProgram(r.cubeDepthProg)
			pos := pass.Point.Position()
			gl.Uniform3f(r.cubeLightPosLoc, pos.X, pos.Y, pos.Z)
			gl.Uniform1f(r.cubeFarPlaneLoc, pass.Point.FarPlane())
			for _, d := range pass.Draws {
				mvp := pass.ViewProjection.Mul(d.Model)
				model := d.Model
				gl.UniformMatrix4fv(r.cubeMVPLoc, 1, false, mvp.Ptr())
				gl.UniformMatrix4fv(r.cubeModelLoc, 1, false, model.Ptr())
				r.drawMesh(d.Object.Mesh)
			}
		}
	}
	return nil
}

// warnSlots reports the first light that finds no free slot.
func (r *Renderer) warnSlots(kind scene.LightKind) {
	if r.slotsWarned {
		return
	}
	r.slotsWarned = true
	scene.Logger().WithField("kind", kind).Warn("light slots exhausted, extra lights are not shaded")
}

func angledFromPass(pass *render.ShadowPass) angledSlot {
	if pass.Kind == scene.LightDirectional {
		l := pass.Directional
		return angledSlot{
			directional: true,
			direction:   l.Direction(),
			color:       l.Color.Vec3().Mul(l.Intensity),
			shadow:      l.ShadowMatrix(),
		}
	}
	l := pass.Spot
	placement := l.Placement()
	cutoff := float32(-1)
	if l.Projection() == scene.Perspective {
		cutoff = float32(gomath.Cos(float64(l.Fov()) / 2))
	}
	return angledSlot{
		position:   placement.Position,
		direction:  placement.Forward(),
		color:      l.Color.Vec3().Mul(l.Intensity),
		rangeLimit: l.Range,
		cutoff:     cutoff,
		shadow:     l.ShadowMatrix(),
	}
}

// shadowMap returns the 2D target for slot, recreating it when the light's
// resolution changed.
func (r *Renderer) shadowMap(slot int, pass *render.ShadowPass) (*ShadowMap, error) {
	w, h := 1024, 1024
	switch {
	case pass.Spot != nil:
		w, h = pass.Spot.ShadowWidth, pass.Spot.ShadowHeight
	case pass.Directional != nil:
		w, h = pass.Directional.ShadowWidth, pass.Directional.ShadowHeight
	}
	if slot < len(r.shadowMaps) && r.shadowMaps[slot].Fits(w, h) {
		return r.shadowMaps[slot], nil
	}
	sm, err := NewShadowMap(w, h)
	if err != nil {
		return nil, errors.Wrapf(err, "shadow map %d (%dx%d)", slot, w, h)
	}
	if slot < len(r.shadowMaps) {
		r.shadowMaps[slot].Destroy()
		r.shadowMaps[slot] = sm
	} else {
		r.shadowMaps = append(r.shadowMaps, sm)
	}
	return sm, nil
}

func (r *Renderer) cubeMap(slot, size int) (*CubeShadowMap, error) {
	if slot < len(r.cubeMaps) && r.cubeMaps[slot].Size == int32(size) {
		return r.cubeMaps[slot], nil
	}
	cm, err := NewCubeShadowMap(size)
	if err != nil {
		return nil, errors.Wrapf(err, "cube shadow map %d (%d)", slot, size)
	}
	if slot < len(r.cubeMaps) {
		r.cubeMaps[slot].Destroy()
		r.cubeMaps[slot] = cm
	} else {
		r.cubeMaps = append(r.cubeMaps, cm)
	}
	return cm, nil
}

// mainPass clears the default framebuffer, binds light slots and draws the
// camera's visible objects.
func (r *Renderer) mainPass(plan *render.Plan, w *render.World) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(r.clearColor.R, r.clearColor.G, r.clearColor.B, r.clearColor.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.UseProgram(r.program)

	var ambient math.Vec3
	for _, a := range w.Ambients {
		ambient = ambient.Add(a.Color.Vec3().Mul(a.Intensity))
	}
	gl.Uniform3f(r.ambientLoc, ambient.X, ambient.Y, ambient.Z)

	gl.Uniform1i(r.angledCountLoc, int32(r.nAngled))
	for i := 0; i < r.nAngled; i++ {
		s := &r.angled[i]
		gl.Uniform1i(r.angledDirectionalLoc[i], int32(boolToInt(s.directional)))
		gl.Uniform3f(r.angledPosLoc[i], s.position.X, s.position.Y, s.position.Z)
		gl.Uniform3f(r.angledDirLoc[i], s.direction.X, s.direction.Y, s.direction.Z)
		gl.Uniform3f(r.angledColorLoc[i], s.color.X, s.color.Y, s.color.Z)
		gl.Uniform1f(r.angledRangeLoc[i], s.rangeLimit)
		gl.Uniform1f(r.angledCutoffLoc[i], s.cutoff)
		gl.UniformMatrix4fv(r.angledShadowMatLoc[i], 1, false, s.shadow.Ptr())
		gl.ActiveTexture(gl.TEXTURE0 + uint32(angledUnitBase+i))
		gl.BindTexture(gl.TEXTURE_2D, r.shadowMaps[i].DepthTex)
	}

	gl.Uniform1i(r.pointCountLoc, int32(r.nPoints))
	for i := 0; i < r.nPoints; i++ {
		s := &r.points[i]
		pos := s.light.Position()
		gl.Uniform3f(r.pointPosLoc[i], pos.X, pos.Y, pos.Z)
		gl.Uniform3f(r.pointColorLoc[i], s.color.X, s.color.Y, s.color.Z)
		gl.Uniform1f(r.pointRangeLoc[i], s.light.Range)
		gl.Uniform1f(r.pointFarLoc[i], s.light.FarPlane())
		gl.ActiveTexture(gl.TEXTURE0 + uint32(pointUnitBase+i))
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.cubeMaps[i].DepthTex)
	}

	for _, d := range plan.Main {
		o := d.Object
		mvp := plan.ViewProjection.Mul(d.Model)
		model := d.Model
		gl.UniformMatrix4fv(r.mvpLoc, 1, false, mvp.Ptr())
		gl.UniformMatrix4fv(r.modelLoc, 1, false, model.Ptr())
		gl.Uniform4f(r.objectColorLoc, o.Color.R, o.Color.G, o.Color.B, o.Color.A)
		gl.Uniform1i(r.litLoc, int32(boolToInt(o.Lit)))
		gl.Uniform1i(r.receivesShadowsLoc, int32(boolToInt(o.ReceivesShadows)))
		r.drawMesh(o.Mesh)
	}

	if r.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func (r *Renderer) drawMesh(mesh *scene.Mesh) {
	if mesh == nil {
		return
	}
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, gpu.VertCount)
	}
	gl.BindVertexArray(0)
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees the GPU buffers of mesh, if uploaded.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	gpu, ok := r.gpuMeshes[mesh]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gpu.VAO)
	gl.DeleteBuffers(1, &gpu.VBO)
	if gpu.EBO != 0 {
		gl.DeleteBuffers(1, &gpu.EBO)
	}
	delete(r.gpuMeshes, mesh)
	mesh.GPUData = nil
}

// Destroy frees all GPU resources owned by the renderer.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for _, sm := range r.shadowMaps {
		sm.Destroy()
	}
	for _, cm := range r.cubeMaps {
		cm.Destroy()
	}
	r.shadowMaps, r.cubeMaps = nil, nil
	gl.DeleteProgram(r.program)
	gl.DeleteProgram(r.depthProg)
	gl.DeleteProgram(r.cubeDepthProg)
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: mesh.IndexCount(),
		VertCount:  int32(len(mesh.Vertices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "vertex")
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, errors.Wrap(err, "fragment")
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, errors.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, errors.Errorf("compile failed: %v", log)
	}
	return shader, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
