// Package scalar implements a straight-line, one-instruction-at-a-time
// reference interpreter for the same RV32I subset internal/core
// executes out of order. It exists to check the out-of-order engine
// against: both must agree on architectural state for any program
// that halts, since reordering and speculation are implementation
// details invisible to the instruction set's sequential semantics.
package scalar

import (
	"fmt"

	"github.com/northbridge-labs/rvsim/internal/isa"
	"github.com/northbridge-labs/rvsim/internal/mem"
)

// Machine is a minimal sequential RV32I interpreter.
type Machine struct {
	Mem    *mem.Memory
	Regs   [32]uint32
	PC     uint32
	Cycles uint64
	Halted bool
}

// New returns a machine starting execution at entryPC.
func New(m *mem.Memory, entryPC uint32) *Machine {
	return &Machine{Mem: m, PC: entryPC}
}

func (m *Machine) reg(r uint8) uint32 {
	if r == 0 {
		return 0
	}
	return m.Regs[r]
}

func (m *Machine) setReg(r uint8, v uint32) {
	if r != 0 {
		m.Regs[r] = v
	}
}

// Step executes exactly one instruction.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}

	word, err := m.Mem.ReadWord(m.PC)
	if err != nil {
		return fmt.Errorf("scalar: fetch at 0x%08X: %w", m.PC, err)
	}
	d, err := isa.Decode(word, m.PC)
	if err != nil {
		return fmt.Errorf("scalar: %w", err)
	}
	m.Cycles++

	nextPC := m.PC + 4

	switch {
	case d.Kind == isa.HALT:
		m.Halted = true
		return nil

	case d.Kind.IsBranch():
		vj, vk := m.reg(d.Rs1), m.reg(d.Rs2)
		if branchTaken(d.Kind, vj, vk) {
			nextPC = uint32(int64(m.PC) + int64(d.Imm))
		}

	case d.Kind == isa.JAL:
		m.setReg(d.Rd, m.PC+4)
		nextPC = uint32(int64(m.PC) + int64(d.Imm))

	case d.Kind == isa.JALR:
		target := (m.reg(d.Rs1) + uint32(d.Imm)) &^ 1
		m.setReg(d.Rd, m.PC+4)
		nextPC = target

	case d.Kind == isa.LUI:
		m.setReg(d.Rd, uint32(d.Imm))

	case d.Kind == isa.AUIPC:
		m.setReg(d.Rd, m.PC+uint32(d.Imm))

	case d.Kind.IsLoad():
		addr := m.reg(d.Rs1) + uint32(d.Imm)
		v, err := readMem(m.Mem, d.Kind, addr)
		if err != nil {
			return fmt.Errorf("scalar: load at 0x%08X: %w", addr, err)
		}
		m.setReg(d.Rd, v)

	case d.Kind.IsStore():
		addr := m.reg(d.Rs1) + uint32(d.Imm)
		if err := writeMem(m.Mem, d.Kind, addr, m.reg(d.Rs2)); err != nil {
			return fmt.Errorf("scalar: store at 0x%08X: %w", addr, err)
		}

	default:
		var vk uint32
		if isa.NeedsRs2(d.Kind) {
			vk = m.reg(d.Rs2)
		} else {
			vk = uint32(d.Imm)
		}
		m.setReg(d.Rd, isa.ALU(d.Kind, m.reg(d.Rs1), vk, d.Imm))
	}

	m.PC = nextPC
	return nil
}

// Run steps until HALT retires or maxCycles elapses (0 means
// unbounded).
func (m *Machine) Run(maxCycles uint64) (uint64, error) {
	for maxCycles == 0 || m.Cycles < maxCycles {
		if m.Halted {
			break
		}
		if err := m.Step(); err != nil {
			return m.Cycles, err
		}
	}
	return m.Cycles, nil
}

func branchTaken(kind isa.Kind, vj, vk uint32) bool {
	switch kind {
	case isa.BEQ:
		return vj == vk
	case isa.BNE:
		return vj != vk
	case isa.BLT:
		return int32(vj) < int32(vk)
	case isa.BGE:
		return int32(vj) >= int32(vk)
	case isa.BLTU:
		return vj < vk
	case isa.BGEU:
		return vj >= vk
	default:
		return false
	}
}

func readMem(m *mem.Memory, kind isa.Kind, addr uint32) (uint32, error) {
	switch kind {
	case isa.LB:
		b, err := m.ReadByte(addr)
		return uint32(int32(int8(b))), err
	case isa.LBU:
		b, err := m.ReadByte(addr)
		return uint32(b), err
	case isa.LH:
		h, err := m.ReadHalf(addr)
		return uint32(int32(int16(h))), err
	case isa.LHU:
		h, err := m.ReadHalf(addr)
		return uint32(h), err
	default:
		return m.ReadWord(addr)
	}
}

func writeMem(m *mem.Memory, kind isa.Kind, addr, value uint32) error {
	switch kind {
	case isa.SB:
		return m.WriteByte(addr, byte(value))
	case isa.SH:
		return m.WriteHalf(addr, uint16(value))
	default:
		return m.WriteWord(addr, value)
	}
}
