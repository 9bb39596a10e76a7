package machine

// Bytecode is an opcode byte. Values 0x80-0xFF are never stored in this
// table; the dispatcher special-cases them as "short global load" before
// ever consulting it (see dispatch.go).
type Bytecode byte

const (
	OpExi Bytecode = 0x00
	OpLod Bytecode = 0x01
	OpLdx Bytecode = 0x02
	OpSto Bytecode = 0x03
	OpStx Bytecode = 0x04
	OpCal Bytecode = 0x05
	OpRet Bytecode = 0x06
	OpJmp Bytecode = 0x07
	OpJpc Bytecode = 0x08
	OpHpi Bytecode = 0x09
	OpArg Bytecode = 0x0A
	OpImm Bytecode = 0x0B
	OpCml Bytecode = 0x0C
	OpAdd Bytecode = 0x0D
	OpSub Bytecode = 0x0E
	OpMuy Bytecode = 0x0F
	OpDiv Bytecode = 0x10
	OpNeg Bytecode = 0x11
	OpEq  Bytecode = 0x12
	OpNe  Bytecode = 0x13
	OpGe  Bytecode = 0x14
	OpGt  Bytecode = 0x15
	OpLe  Bytecode = 0x16
	OpLt  Bytecode = 0x17
	OpFor Bytecode = 0x18
	OpInc Bytecode = 0x19
	OpOr  Bytecode = 0x1A
	OpAnd Bytecode = 0x1B
	OpNot Bytecode = 0x1C
	OpDup Bytecode = 0x1D
	OpDba Bytecode = 0x1E
	OpStd Bytecode = 0x1F
	OpDbi Bytecode = 0x20
	OpAdr Bytecode = 0x21
	OpLdi Bytecode = 0x22
	OpLda Bytecode = 0x23
	OpIms Bytecode = 0x24
	OpCjp Bytecode = 0x25
	OpJsr Bytecode = 0x26
	OpRts Bytecode = 0x27
	OpDrp Bytecode = 0x28
	OpEcl Bytecode = 0x29
)

// operandClass drives only trace formatting and the total instruction
// length used to print raw bytes; it never drives dispatch (handlers.go's
// handlers consume their own operands via fetch8/fetch16/fetchLevel).
type operandClass int

const (
	classNone         operandClass = iota // no operand
	classByte                             // one 8-bit operand
	classWord                             // one 16-bit operand
	classAddr                             // one 16-bit address
	classLevelOffset                      // one 8-bit level, one 8-bit offset
	classLevelAddr                        // one 8-bit level, one 16-bit address
)

type opInfo struct {
	name  string
	class operandClass
}

var opTable = map[Bytecode]opInfo{
	OpExi: {"exi", classNone},
	OpLod: {"lod", classLevelOffset},
	OpLdx: {"ldx", classLevelOffset},
	OpSto: {"sto", classLevelOffset},
	OpStx: {"stx", classLevelOffset},
	OpCal: {"cal", classLevelAddr},
	OpRet: {"ret", classNone},
	OpJmp: {"jmp", classAddr},
	OpJpc: {"jpc", classAddr},
	OpHpi: {"hpi", classByte},
	OpArg: {"arg", classByte},
	OpImm: {"imm", classWord},
	OpCml: {"cml", classByte},
	OpAdd: {"add", classNone},
	OpSub: {"sub", classNone},
	OpMuy: {"muy", classNone},
	OpDiv: {"div", classNone},
	OpNeg: {"neg", classNone},
	OpEq:  {"eq", classNone},
	OpNe:  {"ne", classNone},
	OpGe:  {"ge", classNone},
	OpGt:  {"gt", classNone},
	OpLe:  {"le", classNone},
	OpLt:  {"lt", classNone},
	OpFor: {"for", classAddr},
	OpInc: {"inc", classLevelOffset},
	OpOr:  {"or", classNone},
	OpAnd: {"and", classNone},
	OpNot: {"not", classNone},
	OpDup: {"dupcat", classNone},
	OpDba: {"dba", classNone},
	OpStd: {"std", classNone},
	OpDbi: {"dbi", classNone},
	OpAdr: {"adr", classLevelOffset},
	OpLdi: {"ldi", classNone},
	OpLda: {"lda", classAddr},
	OpIms: {"ims", classByte},
	OpCjp: {"cjp", classAddr},
	OpJsr: {"jsr", classAddr},
	OpRts: {"rts", classNone},
	OpDrp: {"drp", classNone},
	OpEcl: {"ecl", classAddr},
}

// String renders a mnemonic for trace output, grounded on the teacher's
// Bytecode.String() built from strToInstrMap/instrToStrMap in bytecode.go.
func (b Bytecode) String() string {
	if info, ok := opTable[b]; ok {
		return info.name
	}
	return "???"
}

// instrLen returns the total instruction length in bytes (opcode included),
// used only by the trace formatter to print the raw instruction bytes.
func instrLen(b Bytecode) int {
	info, ok := opTable[b]
	if !ok {
		return 1
	}
	switch info.class {
	case classNone:
		return 1
	case classByte:
		return 2
	case classWord, classAddr:
		return 3
	case classLevelOffset:
		return 3
	case classLevelAddr:
		return 4
	default:
		return 1
	}
}
