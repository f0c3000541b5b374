package vm

import "github.com/ethpoc/ethpoc/metrics"

// Interpreter drives the fetch-decode-execute loop over a JumpTable. It
// holds no per-call state itself; Run is safe to invoke concurrently from
// independent goroutines as long as each call gets its own Host and
// initial gas, since every call frame's Stack and Memory are freshly
// allocated in Run.
type Interpreter struct {
	jumpTable JumpTable
}

// NewInterpreter returns an Interpreter using this engine's instruction
// set.
func NewInterpreter() *Interpreter {
	return &Interpreter{jumpTable: NewJumpTable()}
}

// Run executes host.Code() against host, with gas available, until a
// halting opcode, an error, or code exhaustion (treated as STOP). It
// returns RETURN's output bytes (nil for STOP/SUICIDE) and the gas left
// over.
//
// Step order follows the spec precisely: fetch, compute run_gas and the
// new (word-rounded) memory size, charge gas, grow memory, then execute.
// An error here means the call frame's effects are discarded by the
// caller (a Host reverting its snapshot) — Run itself never partially
// commits anything externally visible.
func (in *Interpreter) Run(host Host, gas uint64) ([]byte, uint64, error) {
	f := newFrame(gas)
	code := host.Code()

	for {
		if f.PC >= uint64(len(code)) {
			metrics.VMGasUsed.Add(float64(gas - f.Gas))
			return nil, f.Gas, nil // ran off the end: STOP
		}
		op := OpCode(code[f.PC])
		entry := in.jumpTable[op]
		if entry == nil || entry.execute == nil {
			return nil, 0, ErrBadInstruction
		}
		metrics.VMSteps.Inc()

		if f.Stack.Len() < entry.minStack {
			return nil, 0, ErrStackUnderflow
		}

		if entry.constantGas > 0 {
			if f.Gas < entry.constantGas {
				f.Gas = 0
				return nil, 0, ErrOutOfGas
			}
			f.Gas -= entry.constantGas
		}

		var newMemSize uint64
		if entry.memorySize != nil {
			raw := entry.memorySize(f.Stack)
			newMemSize = WordCount(raw) * 32
			if newMemSize > uint64(f.Memory.Len()) {
				cost := memoryGasCost(uint64(f.Memory.Len())/32, newMemSize/32)
				if f.Gas < cost {
					f.Gas = 0
					return nil, 0, ErrOutOfGas
				}
				f.Gas -= cost
			}
		}

		if entry.dynamicGas != nil {
			cost, err := entry.dynamicGas(host, f.Stack)
			if err != nil {
				return nil, 0, err
			}
			if f.Gas < cost {
				f.Gas = 0
				return nil, 0, ErrOutOfGas
			}
			f.Gas -= cost
		}

		if newMemSize > uint64(f.Memory.Len()) {
			f.Memory.Resize(newMemSize)
		}

		pcBefore := f.PC
		ret, err := entry.execute(f, host)
		if err != nil {
			return nil, 0, err
		}

		if entry.halts {
			metrics.VMGasUsed.Add(float64(gas - f.Gas))
			return ret, f.Gas, nil
		}
		if entry.jumps {
			continue
		}
		if f.PC == pcBefore {
			f.PC++
		}
	}
}
