// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Per-renderer WGSL kernel sources. Each is compiled through the device
// context at Configure on the hardware path; the software executor
// implements the same per-pixel functions in Go. The Go loops and these
// sources must stay in lockstep.

const convertScaleWGSL = `
struct ScaleParams {
    out_size: vec2<u32>,
    view_origin: vec2<i32>,
    view_size: vec2<u32>,
    border: vec4<f32>,
    nearest: u32,
    _pad: vec3<u32>,
};

@group(0) @binding(0) var<uniform> params: ScaleParams;
@group(0) @binding(1) var src: texture_2d<f32>;
@group(0) @binding(2) var src_nearest: sampler;
@group(0) @binding(3) var src_linear: sampler;
@group(0) @binding(4) var dst: texture_storage_2d<rgba8unorm, write>;

@compute @workgroup_size(8, 8)
fn convert_scale(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= params.out_size.x || gid.y >= params.out_size.y {
        return;
    }
    let p = vec2<i32>(gid.xy) - params.view_origin;
    if p.x < 0 || p.y < 0 ||
        p.x >= i32(params.view_size.x) || p.y >= i32(params.view_size.y) {
        textureStore(dst, vec2<i32>(gid.xy), params.border);
        return;
    }
    let uv = (vec2<f32>(p) + vec2<f32>(0.5)) / vec2<f32>(params.view_size);
    var c: vec4<f32>;
    if params.nearest != 0u {
        c = textureSampleLevel(src, src_nearest, uv, 0.0);
    } else {
        c = textureSampleLevel(src, src_linear, uv, 0.0);
    }
    textureStore(dst, vec2<i32>(gid.xy), c);
}
`

const compositorWGSL = `
struct BlendParams {
    dest: vec4<i32>,
    alpha: f32,
    blend_mode: u32,
    _pad: vec2<u32>,
};

@group(0) @binding(0) var<uniform> params: BlendParams;
@group(0) @binding(1) var src: texture_2d<f32>;
@group(0) @binding(2) var src_linear: sampler;
@group(0) @binding(3) var canvas: texture_storage_2d<rgba8unorm, read_write>;

@compute @workgroup_size(8, 8)
fn blend_input(@builtin(global_invocation_id) gid: vec3<u32>) {
    let p = vec2<i32>(gid.xy) + params.dest.xy;
    let uv = (vec2<f32>(gid.xy) + vec2<f32>(0.5)) / vec2<f32>(params.dest.zw);
    let s = textureSampleLevel(src, src_linear, uv, 0.0);
    let d = textureLoad(canvas, p);
    var c: vec4<f32>;
    switch params.blend_mode {
        case 0u: {
            c = s;
        }
        case 2u: {
            let a = s.a * params.alpha;
            c = clamp(vec4<f32>(d.rgb + s.rgb * a, d.a + a),
                vec4<f32>(0.0), vec4<f32>(1.0));
        }
        default: {
            let a = s.a * params.alpha;
            c = vec4<f32>(s.rgb * a + d.rgb * (1.0 - a), a + d.a * (1.0 - a));
        }
    }
    textureStore(canvas, p, c);
}
`

const deinterlaceWGSL = `
struct DeintParams {
    size: vec2<u32>,
    method: u32,
    top_field_first: u32,
    motion_threshold: f32,
    has_history: u32,
    _pad: vec2<u32>,
};

@group(0) @binding(0) var<uniform> params: DeintParams;
@group(0) @binding(1) var cur: texture_2d<f32>;
@group(0) @binding(2) var prev: texture_2d<f32>;
@group(0) @binding(3) var dst: texture_storage_2d<rgba8unorm, write>;

fn row_average(p: vec2<i32>) -> vec4<f32> {
    let h = i32(params.size.y) - 1;
    let above = textureLoad(cur, vec2<i32>(p.x, clamp(p.y - 1, 0, h)), 0);
    let below = textureLoad(cur, vec2<i32>(p.x, clamp(p.y + 1, 0, h)), 0);
    return (above + below) * 0.5;
}

@compute @workgroup_size(8, 8)
fn deinterlace(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= params.size.x || gid.y >= params.size.y {
        return;
    }
    let p = vec2<i32>(gid.xy);
    let keep = (gid.y % 2u == 0u) == (params.top_field_first != 0u);
    if keep {
        textureStore(dst, p, textureLoad(cur, p, 0));
        return;
    }
    var method = params.method;
    if params.has_history == 0u && (method == 1u || method == 3u) {
        method = 0u;
    }
    var c: vec4<f32>;
    switch method {
        case 1u: {
            c = textureLoad(prev, p, 0);
        }
        case 3u: {
            let cc = textureLoad(cur, p, 0);
            let pc = textureLoad(prev, p, 0);
            if length(cc.rgb - pc.rgb) < params.motion_threshold {
                c = pc;
            } else {
                c = row_average(p);
            }
        }
        default: {
            c = row_average(p);
        }
    }
    textureStore(dst, p, c);
}
`

const overlayWGSL = `
struct OverlayParams {
    size: vec2<u32>,
    rect: vec4<i32>,
    alpha: f32,
    has_image: u32,
    _pad: vec2<u32>,
};

@group(0) @binding(0) var<uniform> params: OverlayParams;
@group(0) @binding(1) var video: texture_2d<f32>;
@group(0) @binding(2) var overlay: texture_2d<f32>;
@group(0) @binding(3) var overlay_linear: sampler;
@group(0) @binding(4) var dst: texture_storage_2d<rgba8unorm, write>;

@compute @workgroup_size(8, 8)
fn overlay_blend(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= params.size.x || gid.y >= params.size.y {
        return;
    }
    let p = vec2<i32>(gid.xy);
    var c = textureLoad(video, p, 0);
    let r = p - params.rect.xy;
    if params.has_image != 0u &&
        r.x >= 0 && r.y >= 0 && r.x < params.rect.z && r.y < params.rect.w {
        let uv = (vec2<f32>(r) + vec2<f32>(0.5)) / vec2<f32>(params.rect.zw);
        let o = textureSampleLevel(overlay, overlay_linear, uv, 0.0);
        c = vec4<f32>(mix(c.rgb, o.rgb, o.a * params.alpha), c.a);
    }
    textureStore(dst, p, c);
}
`

const transformWGSL = `
struct TransformParams {
    out_size: vec2<u32>,
    // Output-to-source UV mapping about the coordinate center.
    mat: vec4<f32>,
    crop_origin: vec2<f32>,
    crop_scale: vec2<f32>,
};

@group(0) @binding(0) var<uniform> params: TransformParams;
@group(0) @binding(1) var src: texture_2d<f32>;
@group(0) @binding(2) var src_linear: sampler;
@group(0) @binding(3) var dst: texture_storage_2d<rgba8unorm, write>;

@compute @workgroup_size(8, 8)
fn transform(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= params.out_size.x || gid.y >= params.out_size.y {
        return;
    }
    let t = (vec2<f32>(gid.xy) + vec2<f32>(0.5)) / vec2<f32>(params.out_size) - vec2<f32>(0.5);
    let s = vec2<f32>(
        params.mat.x * t.x + params.mat.y * t.y,
        params.mat.z * t.x + params.mat.w * t.y,
    ) + vec2<f32>(0.5);
    if s.x < 0.0 || s.x > 1.0 || s.y < 0.0 || s.y > 1.0 {
        textureStore(dst, vec2<i32>(gid.xy), vec4<f32>(0.0, 0.0, 0.0, 1.0));
        return;
    }
    let uv = params.crop_origin + s * params.crop_scale;
    textureStore(dst, vec2<i32>(gid.xy),
        textureSampleLevel(src, src_linear, uv, 0.0));
}
`

const filterWGSL = `
struct FilterParams {
    size: vec2<u32>,
    brightness: f32,
    contrast: f32,
    saturation: f32,
    hue: f32,
    gamma: f32,
    sepia: f32,
    invert: f32,
    noise: f32,
    vignette: f32,
    frame_index: f32,
    key_enabled: u32,
    key_color: vec3<f32>,
    key_tolerance: f32,
    key_smoothness: f32,
    has_lut: u32,
    _pad: vec3<u32>,
};

@group(0) @binding(0) var<uniform> params: FilterParams;
@group(0) @binding(1) var src: texture_2d<f32>;
@group(0) @binding(2) var lut: texture_3d<f32>;
@group(0) @binding(3) var lut_linear: sampler;
@group(0) @binding(4) var dst: texture_storage_2d<rgba8unorm, write>;

fn hash12(p: vec2<f32>) -> f32 {
    var p3 = fract(vec3<f32>(p.x, p.y, p.x) * 0.1031 + params.frame_index * 0.00137);
    p3 = p3 + dot(p3, p3.yzx + 33.33);
    return fract((p3.x + p3.y) * p3.z);
}

fn rgb_to_hsv(c: vec3<f32>) -> vec3<f32> {
    let k = vec4<f32>(0.0, -1.0 / 3.0, 2.0 / 3.0, -1.0);
    let p = mix(vec4<f32>(c.bg, k.wz), vec4<f32>(c.gb, k.xy), step(c.b, c.g));
    let q = mix(vec4<f32>(p.xyw, c.r), vec4<f32>(c.r, p.yzx), step(p.x, c.r));
    let d = q.x - min(q.w, q.y);
    let e = 1.0e-10;
    return vec3<f32>(abs(q.z + (q.w - q.y) / (6.0 * d + e)), d / (q.x + e), q.x);
}

fn hsv_to_rgb(c: vec3<f32>) -> vec3<f32> {
    let k = vec4<f32>(1.0, 2.0 / 3.0, 1.0 / 3.0, 3.0);
    let p = abs(fract(c.xxx + k.xyz) * 6.0 - k.www);
    return c.z * mix(k.xxx, clamp(p - k.xxx, vec3<f32>(0.0), vec3<f32>(1.0)), c.y);
}

@compute @workgroup_size(8, 8)
fn grade(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= params.size.x || gid.y >= params.size.y {
        return;
    }
    let p = vec2<i32>(gid.xy);
    var c = textureLoad(src, p, 0);
    var rgb = c.rgb + params.brightness;
    rgb = (rgb - 0.5) * params.contrast + 0.5;

    let luma = dot(rgb, vec3<f32>(0.2126, 0.7152, 0.0722));
    rgb = mix(vec3<f32>(luma), rgb, params.saturation);

    if params.hue != 0.0 {
        var hsv = rgb_to_hsv(clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0)));
        hsv.x = fract(hsv.x + params.hue);
        rgb = hsv_to_rgb(hsv);
    }
    if params.gamma != 1.0 {
        rgb = pow(clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0)),
            vec3<f32>(1.0 / params.gamma));
    }
    if params.sepia != 0.0 {
        let s = vec3<f32>(
            dot(rgb, vec3<f32>(0.393, 0.769, 0.189)),
            dot(rgb, vec3<f32>(0.349, 0.686, 0.168)),
            dot(rgb, vec3<f32>(0.272, 0.534, 0.131)),
        );
        rgb = mix(rgb, s, params.sepia);
    }
    rgb = mix(rgb, vec3<f32>(1.0) - rgb, params.invert);

    var a = c.a;
    if params.key_enabled != 0u {
        let dist = length(clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0)) - params.key_color);
        a = a * smoothstep(params.key_tolerance,
            params.key_tolerance + params.key_smoothness, dist);
    }
    if params.vignette != 0.0 {
        let tc = (vec2<f32>(gid.xy) + vec2<f32>(0.5)) / vec2<f32>(params.size);
        let fall = 1.0 - smoothstep(0.5, 1.0, length(tc - 0.5) * 1.414) * params.vignette;
        rgb = rgb * fall;
    }
    if params.noise != 0.0 {
        rgb = rgb + (hash12(vec2<f32>(gid.xy)) - 0.5) * params.noise;
    }
    rgb = clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0));
    if params.has_lut != 0u {
        let n = f32(textureDimensions(lut).x);
        let uvw = rgb * (n - 1.0) / n + 0.5 / n;
        rgb = textureSampleLevel(lut, lut_linear, uvw, 0.0).rgb;
    }
    textureStore(dst, p, vec4<f32>(rgb, clamp(a, 0.0, 1.0)));
}
`
