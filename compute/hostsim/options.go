package hostsim

// Options configures a simulated device context.
//
// Fields:
//   - Name          — device name reported by Device().Name().
//   - LocalMemBytes — simulated fast local-memory capacity. The engine's
//     planner reads this when choosing the tiled or plain kernel
//     variant; set it small to force the plain path.
//   - PreferredWGS  — workgroup size reported as preferred for every
//     kernel.
//   - MaxBufferElems — if positive, NewBuffer fails with ErrAllocation
//     for requests above this size. Used to simulate device memory
//     exhaustion.
type Options struct {
	Name           string
	LocalMemBytes  int
	PreferredWGS   int
	MaxBufferElems int
}

// DefaultOptions returns Options resembling a small GPU:
// 32 KiB of local memory and a preferred workgroup size of 64.
func DefaultOptions() Options {
	return Options{
		Name:          "hostsim",
		LocalMemBytes: 32 << 10,
		PreferredWGS:  64,
	}
}
