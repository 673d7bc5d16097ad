package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

// ShadowMap wraps a depth-only framebuffer used by spot and directional lights.
type ShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Width    int32
	Height   int32
}

// NewShadowMap creates a depth-only FBO of width×height resolution.
// Uses a 32-bit float depth texture with hardware PCF (COMPARE_REF_TO_TEXTURE).
func NewShadowMap(width, height int) (*ShadowMap, error) {
	sm := &ShadowMap{Width: int32(width), Height: int32(height)}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		sm.Width, sm.Height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Fragments outside the shadow map are lit (border depth = 1.0)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, errors.Errorf("shadow FBO incomplete: status=0x%X", status)
	}
	return sm, nil
}

// Fits reports whether the map already has the requested resolution.
func (sm *ShadowMap) Fits(width, height int) bool {
	return sm.Width == int32(width) && sm.Height == int32(height)
}

// Bind makes the map the depth target and clears it.
func (sm *ShadowMap) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Viewport(0, 0, sm.Width, sm.Height)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// Destroy frees GPU resources.
func (sm *ShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
		sm.DepthTex = 0
	}
}

// ── Cube shadow map ───────────────────────────────────────────────────────────

// CubeShadowMap stores linear light distance for the six faces of a point
// light. Face i of the plan maps to TEXTURE_CUBE_MAP_POSITIVE_X + i.
type CubeShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
}

// NewCubeShadowMap creates a depth cube map with one size×size image per face.
func NewCubeShadowMap(size int) (*CubeShadowMap, error) {
	cm := &CubeShadowMap{Size: int32(size)}

	gl.GenTextures(1, &cm.DepthTex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cm.DepthTex)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.DEPTH_COMPONENT32F,
			cm.Size, cm.Size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &cm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_CUBE_MAP_POSITIVE_X, cm.DepthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		cm.Destroy()
		return nil, errors.Errorf("cube shadow FBO incomplete: status=0x%X", status)
	}
	return cm, nil
}

// BindFace attaches one face as the depth target and clears it.
func (cm *CubeShadowMap) BindFace(face int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, cm.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), cm.DepthTex, 0)
	gl.Viewport(0, 0, cm.Size, cm.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// Destroy frees GPU resources.
func (cm *CubeShadowMap) Destroy() {
	if cm.FBO != 0 {
		gl.DeleteFramebuffers(1, &cm.FBO)
		cm.FBO = 0
	}
	if cm.DepthTex != 0 {
		gl.DeleteTextures(1, &cm.DepthTex)
		cm.DepthTex = 0
	}
}
