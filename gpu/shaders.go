package gpu

// kernelWGSL is the compute kernel: one invocation per output pixel, a
// 16x16 workgroup, the Schwarzschild-like effective integrator, the three
// intersection regimes tested in a fixed order, the quantized disk/sky UV
// mappings and the additive blend / running-mean accumulation. The struct
// layout matches FrameUniforms.Pack exactly.
const kernelWGSL = `
struct Uniforms {
  cameraPos   : vec3<f32>,
  lookAt      : vec3<f32>,
  up          : vec3<f32>,
  fov         : f32,
  tanHalfFov  : f32,
  skyPhiOffset: f32,
  k           : f32,
  h           : f32,
  width       : u32,
  height      : u32,
  frameCount  : u32,
  raysPerFrame: u32,
  rInner      : f32,
  rOuter      : f32,
  rSky        : f32,
  rHorizon    : f32,
  seed        : u32,
  maxIterations: u32,
  jitterScale : f32,
}

@group(0) @binding(0) var<uniform> U : Uniforms;
@group(0) @binding(1) var<storage, read_write> accum : array<vec4<f32>>;
@group(0) @binding(2) var outputImage : texture_storage_2d<rgba8unorm, write>;
@group(0) @binding(3) var diskTex : texture_2d<f32>;
@group(0) @binding(4) var skyTex : texture_2d<f32>;
@group(0) @binding(5) var samp : sampler;

fn hash(i: u32, j: u32, f: u32, seed: u32) -> f32 {
  var x = i * 374761393u + j * 668265263u + f * 2246822519u + seed * 3266489917u;
  x = (x ^ (x >> 13u)) * 1274126177u;
  x = x ^ (x >> 16u);
  return f32(x) / 4294967295.0;
}

fn jitterDisk(i: u32, j: u32, f: u32, seed: u32) -> vec2<f32> {
  let a = hash(i, j, f, seed) * 6.2831853;
  let r = sqrt(hash(i, j, f, seed + 1u));
  return vec2<f32>(cos(a), sin(a)) * r;
}

struct OdeState {
  p: vec3<f32>,
  v: vec3<f32>,
}

fn step(s: OdeState, k: f32, h2: f32, stepSize: f32) -> OdeState {
  var out: OdeState;
  out.p = s.p + s.v * stepSize;
  let r2 = dot(out.p, out.p);
  let a = out.p * (k * h2 / pow(r2, 2.5));
  out.v = s.v + a * stepSize;
  return out;
}

fn stepSizeFor(p: vec3<f32>, h: f32) -> f32 {
  return (length(p) / 30.0) * h;
}

fn diskUV(x: f32, z: f32, rInner: f32, rOuter: f32) -> vec2<f32> {
  let r = sqrt(x * x + z * z);
  if (r < rInner || r > rOuter) {
    return vec2<f32>(0.0, 1.0);
  }
  let phi = atan2(z, x);
  var frac = phi / (2.0 * 3.14159265);
  frac = frac - floor(frac);

  var u: f32;
  if (frac < 0.52 || frac > 0.99) {
    if (frac < 0.5) { u = 0.49; } else { u = 0.51; }
  } else {
    let band = (frac - 0.52) / (0.99 - 0.52);
    if (band < 1.0 / 3.0) {
      u = 0.52;
    } else if (band < 2.0 / 3.0) {
      u = (0.52 + 0.99) / 2.0;
    } else {
      u = 0.99;
    }
  }
  let v = clamp((r - rInner) / (rOuter - rInner), 0.0, 1.0);
  return vec2<f32>(u, v);
}

fn wrap01(x: f32) -> f32 {
  var w = x - floor(x);
  if (w < 0.0) { w = w + 1.0; }
  return w;
}

fn skyUV(theta: f32, phi: f32) -> vec2<f32> {
  return vec2<f32>(wrap01(phi / (2.0 * 3.14159265)), wrap01(theta / 3.14159265));
}

fn additiveBlend(sample: vec4<f32>, existing: vec4<f32>) -> vec4<f32> {
  if (sample.a <= 0.0) {
    return existing;
  }
  let maxC = max(sample.r, max(sample.g, sample.b));
  let minC = min(sample.r, min(sample.g, sample.b));
  let b = (maxC + minC) / 2.0;
  let out = (1.0 - b) * existing.rgb + max(sample.rgb, vec3<f32>(0.0)) * (255.0 / 205.0);
  return vec4<f32>(clamp(out, vec3<f32>(0.0), vec3<f32>(255.0)), 255.0);
}

@compute @workgroup_size(16, 16)
fn cs_main(@builtin(global_invocation_id) gid: vec3<u32>) {
  if (gid.x >= U.width || gid.y >= U.height) {
    return;
  }
  let i = gid.x;
  let j = gid.y;

  var x = (f32(i) / f32(U.width) - 0.5) * U.tanHalfFov;
  var y = (-f32(j) / f32(U.height) + 0.5) * (f32(U.width) / f32(U.height)) * U.tanHalfFov;

  let front = normalize(U.lookAt - U.cameraPos);
  let left = normalize(cross(U.up, front));
  let up2 = cross(front, left);

  let jitterAmp = U.jitterScale / (1.0 + 0.1 * f32(U.frameCount));
  let jit = jitterDisk(i, j, U.frameCount, U.seed) * jitterAmp;
  x = x + jit.x * U.tanHalfFov / f32(U.width);
  y = y + jit.y * U.tanHalfFov * (f32(U.width) / f32(U.height)) / f32(U.height);

  let dir = normalize(left * x + up2 * y + front);
  var p = U.cameraPos;
  var v = dir;
  let h2 = dot(cross(p, v), cross(p, v));

  var color = vec4<f32>(0.0, 0.0, 0.0, 0.0);
  var stopped = false;

  let rH2 = U.rHorizon * U.rHorizon;
  let rSky2 = U.rSky * U.rSky;

  for (var it: u32 = 0u; it < U.maxIterations && !stopped; it = it + 1u) {
    let pPrev = p;
    let vPrev = v;
    let r2Prev = dot(pPrev, pPrev);
    let sidePrev = -sign(pPrev.y);

    let s = stepSizeFor(p, U.h);
    let st = step(OdeState(p, v), U.k, h2, s);
    p = st.p;
    v = st.v;
    let r2 = dot(p, p);

    if (r2 < rH2 && r2Prev > rH2) {
      var lo = 0.0;
      var hi = s;
      var crossing = OdeState(pPrev, vPrev);
      for (var round: u32 = 0u; round < 10u; round = round + 1u) {
        let mid = (lo + hi) / 2.0;
        let trial = step(OdeState(pPrev, vPrev), U.k, h2, mid);
        if (dot(trial.p, trial.p) < rH2) {
          hi = mid;
        } else {
          lo = mid;
        }
        crossing = trial;
      }
      if (abs(crossing.p.y) < 0.1) {
        let rXZ2 = crossing.p.x * crossing.p.x + crossing.p.z * crossing.p.z;
        if (rXZ2 >= U.rInner * U.rInner && rXZ2 <= U.rOuter * U.rOuter) {
          let uv = diskUV(crossing.p.x, crossing.p.z, U.rInner, U.rOuter);
          let sample = textureSampleLevel(diskTex, samp, uv, 0.0) * 255.0;
          color = additiveBlend(sample, color);
        } else {
          color = additiveBlend(vec4<f32>(0.0, 0.0, 0.0, 255.0), color);
        }
      } else {
        color = additiveBlend(vec4<f32>(0.0, 0.0, 0.0, 255.0), color);
      }
      stopped = true;
      continue;
    }

    let side = -sign(pPrev.y);
    if (p.y * side >= 0.0) {
      let rXZ2 = p.x * p.x + p.z * p.z;
      if (rXZ2 >= U.rInner * U.rInner && rXZ2 <= U.rOuter * U.rOuter) {
        let uv = diskUV(p.x, p.z, U.rInner, U.rOuter);
        let sample = textureSampleLevel(diskTex, samp, uv, 0.0) * 255.0;
        color = additiveBlend(sample, color);
      }
    }

    if (r2 > rSky2) {
      let r = sqrt(r2);
      let theta = acos(clamp(p.y / r, -1.0, 1.0));
      let phi = atan2(p.z, p.x);
      let uv = skyUV(theta, phi + U.skyPhiOffset);
      let sample = textureSampleLevel(skyTex, samp, uv, 0.0) * 255.0;
      color = additiveBlend(sample, color);
      stopped = true;
    }
  }

  let idx = j * U.width + i;
  var outColor: vec4<f32>;
  if (U.frameCount == 0u) {
    outColor = color;
  } else {
    let w = f32(U.frameCount) / f32(U.frameCount + 1u);
    outColor = accum[idx] * w + color * (1.0 - w);
  }
  accum[idx] = outColor;
  textureStore(outputImage, vec2<i32>(i32(i), i32(j)), outColor / 255.0);
}
`

// presentationWGSL is the fixed full-screen triangle pair that samples
// the output image into the swapchain with no further processing.
const presentationWGSL = `
struct VSOut {
  @builtin(position) pos: vec4<f32>,
  @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VSOut {
  var positions = array<vec2<f32>, 6>(
    vec2<f32>(-1.0, -1.0), vec2<f32>(1.0, -1.0), vec2<f32>(-1.0, 1.0),
    vec2<f32>(-1.0, 1.0), vec2<f32>(1.0, -1.0), vec2<f32>(1.0, 1.0),
  );
  var uvs = array<vec2<f32>, 6>(
    vec2<f32>(0.0, 1.0), vec2<f32>(1.0, 1.0), vec2<f32>(0.0, 0.0),
    vec2<f32>(0.0, 0.0), vec2<f32>(1.0, 1.0), vec2<f32>(1.0, 0.0),
  );
  var out: VSOut;
  out.pos = vec4<f32>(positions[idx], 0.0, 1.0);
  out.uv = uvs[idx];
  return out;
}

@group(0) @binding(0) var presentTex : texture_2d<f32>;
@group(0) @binding(1) var presentSamp : sampler;

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
  return textureSample(presentTex, presentSamp, in.uv);
}
`
