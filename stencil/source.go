package stencil

import (
	"fmt"
	"strings"
)

// scalarName is the scalar type the engine generates kernels for. The
// host side of the library is float64 throughout, so generated source
// always uses the device's double type.
const scalarName = "double"

const sourceHeader = `#if defined(cl_khr_fp64)
#pragma OPENCL EXTENSION cl_khr_fp64: enable
#elif defined(cl_amd_fp64)
#pragma OPENCL EXTENSION cl_amd_fp64: enable
#endif
`

// convSource generates the three simple-stencil kernels.
//
// conv_tiled stages the weights and a halo-padded tile of x into local
// memory; conv_plain reads global memory directly. Both treat positions
// outside the partition as zero; conv_boundary later adds the missing
// neighbor (or clamped edge) contributions. The halo buffer h holds the
// left neighbor's tail in h[0:lhalo] and the right neighbor's head in
// h[lhalo:lhalo+rhalo].
func convSource(scalar string) string {
	var b strings.Builder
	b.WriteString(sourceHeader)
	fmt.Fprintf(&b, "typedef %s real;\n", scalar)
	b.WriteString(`kernel void conv_tiled(
    ulong n,
    int lhalo,
    int rhalo,
    global const real *x,
    global const real *s,
    global real *y,
    real alpha, real beta,
    local real *loc_buf
    )
{
    local real *stencil = loc_buf;
    local real *xbuf    = loc_buf + lhalo + rhalo + 1 + lhalo;
    size_t block_size = get_local_size(0);
    long   g_id = get_global_id(0);
    int    l_id = get_local_id(0);
    if (l_id < lhalo + rhalo + 1)
        stencil[l_id] = s[l_id];
    stencil += lhalo;
    if (g_id < n) {
        xbuf[l_id] = x[g_id];
        if (l_id < lhalo && g_id >= lhalo)
            xbuf[l_id - lhalo] = x[g_id - lhalo];
        if (l_id + rhalo < block_size || g_id + rhalo < n)
            xbuf[l_id + rhalo] = x[g_id + rhalo];
    }
    barrier(CLK_LOCAL_MEM_FENCE);
    if (g_id < n) {
        real sum = 0;
        for(int k = -lhalo; k <= rhalo; k++)
            if (g_id + k >= 0 && g_id + k < n)
                sum += stencil[k] * xbuf[l_id + k];
        if (alpha)
            y[g_id] = alpha * y[g_id] + beta * sum;
        else
            y[g_id] = beta * sum;
    }
}
kernel void conv_plain(
    ulong n,
    int lhalo,
    int rhalo,
    global const real *x,
    global const real *s,
    global real *y,
    real alpha, real beta
    )
{
    long g_id = get_global_id(0);
    s += lhalo;
    if (g_id < n) {
        real sum = 0;
        for(int k = -lhalo; k <= rhalo; k++)
            if (g_id + k >= 0 && g_id + k < n)
                sum += s[k] * x[g_id + k];
        if (alpha)
            y[g_id] = alpha * y[g_id] + beta * sum;
        else
            y[g_id] = beta * sum;
    }
}
kernel void conv_boundary(
    ulong n,
    int has_left,
    int has_right,
    int lhalo,
    int rhalo,
    global const real *x,
    global const real *h,
    global const real *s,
    global real *y,
    real beta
    )
{
    long g_id = get_global_id(0);
    global const real *xl = h + lhalo;
    global const real *xr = h + lhalo;
    s += lhalo;
    if (g_id < lhalo) {
        real sum = 0;
        for(int k = -lhalo; k < 0; k++)
            if (g_id + k < 0)
                sum += s[k] * (has_left ? xl[g_id + k] : x[0]);
        y[g_id] += beta * sum;
    }
    if (g_id < rhalo) {
        real sum = 0;
        for(int k = 1; k <= rhalo; k++)
            if (g_id + k - rhalo >= 0)
                sum += s[k] * (has_right ? xr[g_id + k - rhalo] : x[n - 1]);
        y[n - rhalo + g_id] += beta * sum;
    }
}
`)
	return b.String()
}

// gconvSource generates the generalized-stencil kernels for one
// reduction function. The interior kernels write only fully interior
// outputs; gconv_boundary recomputes the partition-edge outputs with
// the full alpha/beta rule, since the per-row nonlinearity rules out an
// additive fix-up.
func gconvSource(scalar string, r Reduce) string {
	var b strings.Builder
	b.WriteString(sourceHeader)
	fmt.Fprintf(&b, "typedef %s real;\n", scalar)
	row := r.fragment("scol")
	fmt.Fprintf(&b, `kernel void gconv_tiled(
    ulong n,
    uint rows, uint cols,
    int lhalo, int rhalo,
    global const real *x,
    global const real *s,
    global real *y,
    real alpha, real beta,
    local real *loc_buf
    )
{
    local real *S    = loc_buf;
    local real *xbuf = loc_buf + rows * cols + lhalo;
    size_t block_size = get_local_size(0);
    long   g_id       = get_global_id(0);
    int    l_id       = get_local_id(0);
    if (l_id < rows * cols)
        S[l_id] = s[l_id];
    if (g_id < n) {
        xbuf[l_id] = x[g_id];
        if (l_id < lhalo && g_id >= lhalo)
            xbuf[l_id - lhalo] = x[g_id - lhalo];
        if (l_id + rhalo < block_size || g_id + rhalo < n)
            xbuf[l_id + rhalo] = x[g_id + rhalo];
    }
    barrier(CLK_LOCAL_MEM_FENCE);
    if (g_id >= lhalo && g_id + rhalo < n) {
        real srow = 0;
        for(int k = 0; k < rows; k++) {
            real scol = 0;
            for(int j = -lhalo; j <= rhalo; j++)
                scol += S[lhalo + j + k * cols] * xbuf[l_id + j];
            srow += %[1]s;
        }
        if (alpha)
            y[g_id] = alpha * y[g_id] + beta * srow;
        else
            y[g_id] = beta * srow;
    }
}
kernel void gconv_plain(
    ulong n,
    uint rows, uint cols,
    int lhalo, int rhalo,
    global const real *x,
    global const real *s,
    global real *y,
    real alpha, real beta
    )
{
    long g_id = get_global_id(0);
    if (g_id >= lhalo && g_id + rhalo < n) {
        real srow = 0;
        for(int k = 0; k < rows; k++) {
            real scol = 0;
            for(int j = -lhalo; j <= rhalo; j++)
                scol += s[lhalo + j + k * cols] * x[g_id + j];
            srow += %[1]s;
        }
        if (alpha)
            y[g_id] = alpha * y[g_id] + beta * srow;
        else
            y[g_id] = beta * srow;
    }
}
kernel void gconv_boundary(
    ulong n,
    int has_left,
    int has_right,
    uint rows, uint cols,
    int lhalo, int rhalo,
    global const real *x,
    global const real *h,
    global const real *s,
    global real *y,
    real alpha, real beta
    )
{
    long g_id = get_global_id(0);
    for(int side = 0; side < 2; side++) {
        long i;
        if (side == 0) {
            if (g_id >= lhalo) continue;
            i = g_id;
        } else {
            if (g_id >= rhalo) continue;
            i = n - rhalo + g_id;
        }
        real srow = 0;
        for(int k = 0; k < rows; k++) {
            real scol = 0;
            for(int j = -lhalo; j <= rhalo; j++) {
                long p = i + j;
                real v;
                if (p < 0)
                    v = has_left ? h[lhalo + p] : x[0];
                else if (p >= n)
                    v = has_right ? h[lhalo + p - n] : x[n - 1];
                else
                    v = x[p];
                scol += s[lhalo + j + k * cols] * v;
            }
            srow += %[1]s;
        }
        if (alpha)
            y[i] = alpha * y[i] + beta * srow;
        else
            y[i] = beta * srow;
    }
}
`, row)
	return b.String()
}
