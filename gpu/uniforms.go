package gpu

import (
	"encoding/binary"
	"math"

	remath "blackhole-lens/math"
)

// uniformSize is the byte size of the per-frame uniform buffer. WGSL's
// uniform address space packs the three leading vec3<f32> members at
// their natural 16-byte alignment (size 12, so each leaves a 4-byte tail)
// and then backfills every scalar after them tightly, with no further
// alignment padding — the struct's actual content is 108 bytes. The
// remaining 148 bytes are reserved padding so the buffer satisfies the
// common WebGPU minUniformBufferOffsetAlignment of 256 bytes without the
// driver needing to special-case a sub-256 binding size.
const uniformSize = 256

// FrameUniforms mirrors the WGSL kernel's uniform struct field for field.
// Real-valued fields are packed as float32; Width, Height, FrameCount,
// RaysPerFrame, RandomSeed and MaxIterations are packed as unsigned
// 32-bit integers, which is how the kernel reads them.
type FrameUniforms struct {
	CameraPosition  remath.Vector3
	LookAt          remath.Vector3
	Up              remath.Vector3
	FOVDeg          float64
	TanHalfFOV      float64
	PotentialCoeff  float64
	StepSize        float64
	Width           uint32
	Height          uint32
	FrameCount      uint32
	RaysPerFrame    uint32
	DiskInnerRadius float64
	DiskOuterRadius float64
	SkyRadius       float64
	HorizonRadius   float64
	RandomSeed      uint32
	MaxIterations   uint32
	JitterScale     float64
	SkyPhiOffset    float64
}

func putVec3(buf []byte, off int, v remath.Vector3) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(v.Z)))
}

func putF32(buf []byte, off int, f float64) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(f)))
}

func putU32(buf []byte, off int, u uint32) {
	binary.LittleEndian.PutUint32(buf[off:], u)
}

// Pack serializes the uniforms into the 256-byte wire layout the WGSL
// kernel binds at group 0, binding 0. The offsets below are WGSL's
// natural uniform-address-space layout for the kernel's Uniforms struct,
// not an arbitrary std140-style vec3+pad scheme: each leading vec3<f32>
// occupies 16 bytes (align 16, size 12), but the scalar immediately
// following one needs only 4-byte alignment, so it backfills the vec3's
// unused tail byte range instead of starting a fresh 16-byte slot.
func (u FrameUniforms) Pack() []byte {
	buf := make([]byte, uniformSize)

	putVec3(buf, 0, u.CameraPosition)
	putVec3(buf, 16, u.LookAt)
	putVec3(buf, 32, u.Up)

	putF32(buf, 44, u.FOVDeg)
	putF32(buf, 48, u.TanHalfFOV)
	putF32(buf, 52, u.SkyPhiOffset)

	putF32(buf, 56, u.PotentialCoeff)
	putF32(buf, 60, u.StepSize)

	putU32(buf, 64, u.Width)
	putU32(buf, 68, u.Height)
	putU32(buf, 72, u.FrameCount)
	putU32(buf, 76, u.RaysPerFrame)

	putF32(buf, 80, u.DiskInnerRadius)
	putF32(buf, 84, u.DiskOuterRadius)
	putF32(buf, 88, u.SkyRadius)
	putF32(buf, 92, u.HorizonRadius)

	putU32(buf, 96, u.RandomSeed)
	putU32(buf, 100, u.MaxIterations)
	putF32(buf, 104, u.JitterScale)

	return buf
}
