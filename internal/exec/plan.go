package exec

import (
	"encoding/binary"

	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/expr"
	"github.com/colexpr/colexpr/internal/types"
)

// dataRefSize is the packed size of one data reference record:
// kind, type and side bytes, one pad byte, then a 32-bit index.
const dataRefSize = 8

// PlanOffsets records where each segment starts inside one packed plan
// buffer, along with segment entry counts for decoding. Segments are laid
// out in a fixed order and kept naturally aligned.
type PlanOffsets struct {
	DataRefs      int
	Literals      int
	Operators     int
	SourceIndices int
	Size          int

	NumDataRefs      int
	NumLiterals      int
	NumOperators     int
	NumSourceIndices int
}

func align8(n int) int { return (n + 7) &^ 7 }

// packProgram serializes the program's four segments into one contiguous
// buffer. Expression programs are typically tens of entries, so a single
// batched transfer amortizes the fixed per-transfer cost that four small
// copies would each pay.
func packProgram(p *expr.Program) ([]byte, PlanOffsets) {
	refs := p.DataRefs()
	lits := p.Literals()
	ops := p.Operators()
	src := p.SourceIndices()

	off := PlanOffsets{
		NumDataRefs:      len(refs),
		NumLiterals:      len(lits),
		NumOperators:     len(ops),
		NumSourceIndices: len(src),
	}
	off.DataRefs = 0
	off.Literals = off.DataRefs + len(refs)*dataRefSize
	off.Operators = off.Literals + len(lits)*types.WordSize
	off.SourceIndices = off.Operators + align8(len(ops))
	off.Size = off.SourceIndices + align8(len(src)*4)

	buf := make([]byte, off.Size)
	for i, ref := range refs {
		rec := buf[off.DataRefs+i*dataRefSize:]
		rec[0] = byte(ref.Kind)
		rec[1] = byte(ref.Type)
		rec[2] = byte(ref.Side)
		binary.LittleEndian.PutUint32(rec[4:8], uint32(ref.Index))
	}
	for i, w := range lits {
		binary.LittleEndian.PutUint64(buf[off.Literals+i*types.WordSize:], w)
	}
	for i, op := range ops {
		buf[off.Operators+i] = byte(op)
	}
	for i, v := range src {
		binary.LittleEndian.PutUint32(buf[off.SourceIndices+i*4:], uint32(v))
	}
	return buf, off
}

// packAndTransfer packs the program and issues a single asynchronous copy
// of the block into context-owned memory. The returned device buffer must
// not be read until the context stream has been synchronized.
func packAndTransfer(ec *Context, p *expr.Program) ([]byte, PlanOffsets) {
	host, off := packProgram(p)
	device := ec.alloc.Allocate(off.Size)
	ec.stream.Submit(func() { copy(device, host) })
	return device, off
}

// devicePlan is the evaluator's read-only view of a packed plan after the
// transfer has landed. It is decoded once per job and shared by all lanes.
type devicePlan struct {
	refs      []expr.DataReference
	literals  []types.Word
	ops       []expr.OpCode
	srcIdx    []int32
	rootType  types.ElementType
	peakSlots int
}

// decodePlan rebuilds the program's segments from a packed buffer. Root
// type and peak slot count travel as launch parameters, not in the block.
func decodePlan(buf []byte, off PlanOffsets) (*devicePlan, error) {
	if len(buf) < off.Size {
		return nil, errors.InternalErrorf("packed plan buffer holds %d bytes, offsets need %d", len(buf), off.Size)
	}
	p := &devicePlan{
		refs:     make([]expr.DataReference, off.NumDataRefs),
		literals: make([]types.Word, off.NumLiterals),
		ops:      make([]expr.OpCode, off.NumOperators),
		srcIdx:   make([]int32, off.NumSourceIndices),
	}
	for i := range p.refs {
		rec := buf[off.DataRefs+i*dataRefSize:]
		p.refs[i] = expr.DataReference{
			Kind:  expr.RefKind(rec[0]),
			Type:  types.ElementType(rec[1]),
			Side:  expr.TableSide(rec[2]),
			Index: int32(binary.LittleEndian.Uint32(rec[4:8])),
		}
	}
	for i := range p.literals {
		p.literals[i] = binary.LittleEndian.Uint64(buf[off.Literals+i*types.WordSize:])
	}
	for i := range p.ops {
		p.ops[i] = expr.OpCode(buf[off.Operators+i])
	}
	for i := range p.srcIdx {
		p.srcIdx[i] = int32(binary.LittleEndian.Uint32(buf[off.SourceIndices+i*4:]))
	}
	return p, nil
}
