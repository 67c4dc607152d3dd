package insts

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed instruction line, referencing the
// offending 0-based program index and the raw text that failed to
// decode.
type ParseError struct {
	ProgramIndex int
	Text         string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.ProgramIndex, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decoder turns instruction text into a program vector. It carries no
// state of its own; a zero Decoder is ready to use, matching the
// stateless, reusable decoder shape used throughout the pack.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeProgram reads one instruction per non-blank line from r and
// returns the decoded program vector. Blank lines are skipped without
// affecting ProgramIndex numbering of surrounding instructions, matching
// the reference implementation's behavior of only counting non-empty
// lines.
func (d *Decoder) DecodeProgram(r io.Reader) ([]*Instruction, error) {
	var program []*Instruction

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		inst, err := d.DecodeLine(line, len(program))
		if err != nil {
			return nil, err
		}

		program = append(program, inst)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	return program, nil
}

// DecodeLine decodes a single instruction line. programIndex becomes the
// decoded instruction's ProgramIndex (its position in the program
// vector, i.e. its pc value).
func (d *Decoder) DecodeLine(line string, programIndex int) (*Instruction, error) {
	tokens := tokenize(line)
	if len(tokens) == 0 {
		return nil, &ParseError{ProgramIndex: programIndex, Text: line, Err: fmt.Errorf("empty instruction")}
	}

	mnemonic := strings.ToLower(tokens[0])
	operands := tokens[1:]

	inst := &Instruction{
		RawText:      line,
		ProgramIndex: programIndex,
	}

	var err error
	switch mnemonic {
	case "load":
		err = decodeLoad(inst, operands)
	case "store":
		err = decodeStore(inst, operands)
	case "beq":
		err = decodeBeq(inst, operands)
	case "call":
		err = decodeCall(inst, operands)
	case "ret":
		err = decodeRet(inst, operands)
	case "add":
		err = decodeArith(inst, operands, CategoryAdd, OpAdd)
	case "sub":
		err = decodeArith(inst, operands, CategorySub, OpSub)
	case "nor":
		err = decodeArith(inst, operands, CategoryNor, OpNor)
	case "mul":
		err = decodeArith(inst, operands, CategoryMul, OpMul)
	default:
		err = fmt.Errorf("unknown mnemonic %q", tokens[0])
	}

	if err != nil {
		return nil, &ParseError{ProgramIndex: programIndex, Text: line, Err: err}
	}

	return inst, nil
}

// tokenize splits an instruction line on whitespace, commas, and
// parentheses, all of which act as operand separators per spec.
func tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', ',', '(', ')':
			return true
		default:
			return false
		}
	})
}

func decodeLoad(inst *Instruction, ops []string) error {
	if len(ops) != 3 {
		return fmt.Errorf("load expects 3 operands (rd, off, rs), got %d", len(ops))
	}
	rd, err := parseRegister(ops[0])
	if err != nil {
		return err
	}
	off, err := parseImmediate(ops[1])
	if err != nil {
		return err
	}
	rs, err := parseRegister(ops[2])
	if err != nil {
		return err
	}
	inst.Category = CategoryLoad
	inst.Opcode = OpLoad
	inst.DestRegD = rd
	inst.Immediate = off
	inst.SourceRegS = rs
	return nil
}

func decodeStore(inst *Instruction, ops []string) error {
	if len(ops) != 3 {
		return fmt.Errorf("store expects 3 operands (rt, off, rs), got %d", len(ops))
	}
	rt, err := parseRegister(ops[0])
	if err != nil {
		return err
	}
	off, err := parseImmediate(ops[1])
	if err != nil {
		return err
	}
	rs, err := parseRegister(ops[2])
	if err != nil {
		return err
	}
	inst.Category = CategoryStore
	inst.Opcode = OpStore
	inst.SourceRegT = rt
	inst.Immediate = off
	inst.SourceRegS = rs
	return nil
}

func decodeBeq(inst *Instruction, ops []string) error {
	if len(ops) != 3 {
		return fmt.Errorf("beq expects 3 operands (rs, rt, off), got %d", len(ops))
	}
	rs, err := parseRegister(ops[0])
	if err != nil {
		return err
	}
	rt, err := parseRegister(ops[1])
	if err != nil {
		return err
	}
	off, err := parseImmediate(ops[2])
	if err != nil {
		return err
	}
	inst.Category = CategoryBeq
	inst.Opcode = OpBeq
	inst.SourceRegS = rs
	inst.SourceRegT = rt
	inst.Immediate = off
	return nil
}

func decodeCall(inst *Instruction, ops []string) error {
	if len(ops) != 1 {
		return fmt.Errorf("call expects 1 operand (off), got %d", len(ops))
	}
	off, err := parseImmediate(ops[0])
	if err != nil {
		return err
	}
	inst.Category = CategoryCallOrRet
	inst.Opcode = OpCall
	inst.Immediate = off
	return nil
}

func decodeRet(inst *Instruction, ops []string) error {
	if len(ops) != 0 {
		return fmt.Errorf("ret expects 0 operands, got %d", len(ops))
	}
	inst.Category = CategoryCallOrRet
	inst.Opcode = OpRet
	// RET reads the link value through r1 via the ordinary rename path.
	inst.SourceRegS = 1
	return nil
}

func decodeArith(inst *Instruction, ops []string, cat Category, op Opcode) error {
	if len(ops) != 3 {
		return fmt.Errorf("%s expects 3 operands (rd, rs, rt), got %d", op, len(ops))
	}
	rd, err := parseRegister(ops[0])
	if err != nil {
		return err
	}
	rs, err := parseRegister(ops[1])
	if err != nil {
		return err
	}
	rt, err := parseRegister(ops[2])
	if err != nil {
		return err
	}
	inst.Category = cat
	inst.Opcode = op
	inst.DestRegD = rd
	inst.SourceRegS = rs
	inst.SourceRegT = rt
	return nil
}

// parseRegister parses an "rN" operand. Syntax accepts r0..r15 but only
// r0..r7 are architecturally defined; anything else is a parse error
// (spec.md §9: "excess indices are an input error in this spec").
func parseRegister(tok string) (int, error) {
	if len(tok) < 2 || (tok[0] != 'r' && tok[0] != 'R') {
		return 0, fmt.Errorf("invalid register operand %q", tok)
	}
	n, err := strconv.Atoi(tok[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid register operand %q: %w", tok, err)
	}
	if n < 0 || n >= NumRegisters {
		return 0, fmt.Errorf("register %q out of range [r0, r%d]", tok, NumRegisters-1)
	}
	return n, nil
}

// parseImmediate parses a signed decimal immediate or branch/call offset
// and checks it against the [-64, 63] bound.
func parseImmediate(tok string) (int16, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q: %w", tok, err)
	}
	if n < ImmediateMin || n > ImmediateMax {
		return 0, fmt.Errorf("immediate %d out of range [%d, %d]", n, ImmediateMin, ImmediateMax)
	}
	return int16(n), nil
}
