// Copyright © 2024 Galvanized Logic Inc.

package render

// backend.go types the consumed-interface boundary against a real GPU
// API instead of a bare uintptr, per the domain stack wiring: opaque
// handle types are github.com/cogentcore/webgpu/wgpu's Buffer/Texture/
// TextureView, the same package the sibling engine's renderer backend
// (wgpu_renderer_backend.go) binds its device/queue/texture references
// to. The backend itself is out of scope — only the handles it owns are
// referenced here, so a FramePacket's buffer offsets resolve against
// something concrete.

import "github.com/cogentcore/webgpu/wgpu"

// GPUBuffer identifies a streamed buffer range the backend has uploaded:
// vertex/index/weights data, instance matrices, or cluster index lists.
type GPUBuffer struct {
	Buffer *wgpu.Buffer
	Offset uint64
	Length uint64
}

// GPUTexture identifies a bound texture the frame packet references:
// shadow maps, cluster light LUTs, or tone-mapping curves.
type GPUTexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// Backend is implemented by the GPU layer that consumes a FramePacket.
// The frontend only ever calls Submit; everything else (pipeline setup,
// shader compilation, swapchain management) is the backend's concern and
// out of scope here.
type Backend interface {
	// Submit uploads packet's instance/surface/cluster data to the GPU
	// buffers it owns and issues the draw calls in packet's bucket order:
	// opaque, then shadow casters, then translucent, then outline.
	Submit(packet *FramePacket) error

	// StreamVertices appends vertices to the backend's per-frame scratch
	// vertex buffer, used to merge adjacent surfaces (spec §4.7 step 6),
	// and returns the GPUBuffer range the merged draw should reference.
	StreamVertices(data []byte) (GPUBuffer, error)
}
