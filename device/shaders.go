// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

// commonShaderWGSL is the shared kernel library compiled once per context.
// It holds the colorspace helpers and the plane pack/unpack kernels that
// every renderer's WGSL source builds on. The software executor implements
// the same functions in Go; the two paths must stay in lockstep.
const commonShaderWGSL = `
// videofx common kernels.

struct ColorParams {
    // 0 = BT.601, 1 = BT.709
    matrix_id: u32,
    width: u32,
    height: u32,
    _pad: u32,
};

@group(0) @binding(0) var<uniform> color_params: ColorParams;

// Chroma zero point sits at byte 128 to match the CPU decode exactly.
const CHROMA_ZERO: f32 = 0.5019608;

fn yuv_to_rgb(yuv: vec3<f32>, matrix_id: u32) -> vec3<f32> {
    let y = yuv.x;
    let u = yuv.y - CHROMA_ZERO;
    let v = yuv.z - CHROMA_ZERO;
    if matrix_id == 1u {
        return vec3<f32>(
            y + 1.5748 * v,
            y - 0.18732427 * u - 0.46812427 * v,
            y + 1.8556 * u,
        );
    }
    return vec3<f32>(
        y + 1.402 * v,
        y - 0.34413629 * u - 0.71413629 * v,
        y + 1.772 * u,
    );
}

fn rgb_to_yuv(rgb: vec3<f32>, matrix_id: u32) -> vec3<f32> {
    var kr = 0.299;
    var kb = 0.114;
    if matrix_id == 1u {
        kr = 0.2126;
        kb = 0.0722;
    }
    let kg = 1.0 - kr - kb;
    let y = kr * rgb.x + kg * rgb.y + kb * rgb.z;
    let u = (rgb.z - y) / (2.0 * (1.0 - kb)) + CHROMA_ZERO;
    let v = (rgb.x - y) / (2.0 * (1.0 - kr)) + CHROMA_ZERO;
    return vec3<f32>(y, u, v);
}

@group(0) @binding(1) var src_rgba: texture_2d<f32>;
@group(0) @binding(2) var src_sampler: sampler;
@group(0) @binding(3) var dst_luma: texture_storage_2d<r8unorm, write>;
@group(0) @binding(4) var dst_chroma: texture_storage_2d<rg8unorm, write>;

// pack_luma writes the Y plane, one invocation per output pixel.
@compute @workgroup_size(8, 8)
fn pack_luma(@builtin(global_invocation_id) gid: vec3<u32>) {
    if gid.x >= color_params.width || gid.y >= color_params.height {
        return;
    }
    let tc = (vec2<f32>(gid.xy) + vec2<f32>(0.5)) /
        vec2<f32>(f32(color_params.width), f32(color_params.height));
    let rgb = textureSampleLevel(src_rgba, src_sampler, tc, 0.0).rgb;
    let yuv = rgb_to_yuv(rgb, color_params.matrix_id);
    textureStore(dst_luma, vec2<i32>(gid.xy), vec4<f32>(yuv.x, 0.0, 0.0, 1.0));
}

// pack_chroma writes the half-resolution Cb/Cr plane; each invocation
// samples the center of its 2x2 luma block.
@compute @workgroup_size(8, 8)
fn pack_chroma(@builtin(global_invocation_id) gid: vec3<u32>) {
    let cw = (color_params.width + 1u) / 2u;
    let ch = (color_params.height + 1u) / 2u;
    if gid.x >= cw || gid.y >= ch {
        return;
    }
    let tc = (vec2<f32>(gid.xy) * 2.0 + vec2<f32>(1.0)) /
        vec2<f32>(f32(color_params.width), f32(color_params.height));
    let rgb = textureSampleLevel(src_rgba, src_sampler, tc, 0.0).rgb;
    let yuv = rgb_to_yuv(rgb, color_params.matrix_id);
    textureStore(dst_chroma, vec2<i32>(gid.xy), vec4<f32>(yuv.y, yuv.z, 0.0, 1.0));
}
`
