// isa_timing.go - Bit-exact ISA latency/throughput constants (spec.md §6)

package ppc2

const (
	fpArithLatency    = 5 // FP paired arith: fxcpmadd, fxcxma, fxmul, fxpmul, fxsmul, fxcsmadd, fpadd
	fpArithThroughput = 1

	fpMoveLatency    = 1 // fmr, fpset2, nop
	fpMoveThroughput = 1

	intSetLatency    = 1 // intset
	intSetThroughput = 1

	loadLatency    = 4 // FP loads
	loadThroughput = 2

	storeLatency        = 0 // FP stores; "not actually meaningful" (spec.md §9) — the LS
	storeThroughput     = 4 // unit throughput and write-through bucket are what actually gate stores.
	storeWriteThrough   = 16

	// In-use (non-hazard) latencies for load-written and store-read FP
	// registers (spec.md §6).
	loadInuseSrc  = 5
	loadInuseDst  = 5
	storeInuseSrc = 2
	storeInuseDst = 2
)
