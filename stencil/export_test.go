package stencil

// Test-only accessors for per-device plan internals.

// PlanVariants reports the chosen kernel variant per device, "tiled" or
// "plain".
func PlanVariants(s *Stencil) []string { return variantNames(s.plans) }

// PlanWorkGroupSizes reports the tuned workgroup size per device.
func PlanWorkGroupSizes(s *Stencil) []int {
	out := make([]int, len(s.plans))
	for d, p := range s.plans {
		out[d] = p.wgs
	}
	return out
}

// GPlanVariants is PlanVariants for generalized stencils.
func GPlanVariants(g *GeneralizedStencil) []string { return variantNames(g.plans) }

func variantNames(plans []*devicePlan) []string {
	out := make([]string, len(plans))
	for d, p := range plans {
		if p.variant == tiledVariant {
			out[d] = "tiled"
		} else {
			out[d] = "plain"
		}
	}
	return out
}
