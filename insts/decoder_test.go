package insts_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/tomasulo16/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("DecodeLine", func() {
		It("decodes load rd, off, rs", func() {
			inst, err := decoder.DecodeLine("load r3, 0, r2", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryLoad))
			Expect(inst.Opcode).To(Equal(insts.OpLoad))
			Expect(inst.DestRegD).To(Equal(3))
			Expect(inst.SourceRegS).To(Equal(2))
			Expect(inst.Immediate).To(Equal(int16(0)))
		})

		It("decodes store with parens as separators", func() {
			inst, err := decoder.DecodeLine("store r1 0(r2)", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryStore))
			Expect(inst.SourceRegT).To(Equal(1))
			Expect(inst.SourceRegS).To(Equal(2))
		})

		It("is case-insensitive on the mnemonic", func() {
			inst, err := decoder.DecodeLine("ADD r1, r2, r3", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryAdd))
		})

		It("decodes beq", func() {
			inst, err := decoder.DecodeLine("beq r1, r1, 1", 5)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryBeq))
			Expect(inst.SourceRegS).To(Equal(1))
			Expect(inst.SourceRegT).To(Equal(1))
			Expect(inst.Immediate).To(Equal(int16(1)))
			Expect(inst.ProgramIndex).To(Equal(5))
		})

		It("decodes call with a single offset operand", func() {
			inst, err := decoder.DecodeLine("call 2", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryCallOrRet))
			Expect(inst.Opcode).To(Equal(insts.OpCall))
			Expect(inst.Immediate).To(Equal(int16(2)))
		})

		It("decodes ret with no operands and wires SourceRegS to r1", func() {
			inst, err := decoder.DecodeLine("ret", 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Category).To(Equal(insts.CategoryCallOrRet))
			Expect(inst.Opcode).To(Equal(insts.OpRet))
			Expect(inst.SourceRegS).To(Equal(1))
		})

		DescribeTable("arithmetic ops",
			func(mnemonic string, cat insts.Category, op insts.Opcode) {
				inst, err := decoder.DecodeLine(mnemonic+" r1, r2, r3", 0)
				Expect(err).ToNot(HaveOccurred())
				Expect(inst.Category).To(Equal(cat))
				Expect(inst.Opcode).To(Equal(op))
				Expect(inst.DestRegD).To(Equal(1))
				Expect(inst.SourceRegS).To(Equal(2))
				Expect(inst.SourceRegT).To(Equal(3))
			},
			Entry("add", "add", insts.CategoryAdd, insts.OpAdd),
			Entry("sub", "sub", insts.CategorySub, insts.OpSub),
			Entry("nor", "nor", insts.CategoryNor, insts.OpNor),
			Entry("mul", "mul", insts.CategoryMul, insts.OpMul),
		)

		It("rejects an unknown mnemonic", func() {
			_, err := decoder.DecodeLine("frobnicate r1, r2, r3", 0)
			Expect(err).To(HaveOccurred())
			var perr *insts.ParseError
			Expect(err).To(BeAssignableToTypeOf(perr))
		})

		It("rejects register indices beyond r7", func() {
			_, err := decoder.DecodeLine("add r8, r1, r2", 0)
			Expect(err).To(HaveOccurred())
		})

		It("rejects an immediate out of [-64, 63]", func() {
			_, err := decoder.DecodeLine("load r1, 64, r2", 0)
			Expect(err).To(HaveOccurred())

			_, err = decoder.DecodeLine("load r1, -65, r2", 0)
			Expect(err).To(HaveOccurred())
		})

		It("rejects wrong operand counts", func() {
			_, err := decoder.DecodeLine("add r1, r2", 0)
			Expect(err).To(HaveOccurred())
		})

		It("reports the offending line and index in the error", func() {
			_, err := decoder.DecodeLine("bogus", 7)
			Expect(err.Error()).To(ContainSubstring("line 7"))
			Expect(err.Error()).To(ContainSubstring("bogus"))
		})
	})

	Describe("DecodeProgram", func() {
		It("decodes one instruction per non-blank line", func() {
			src := "add r1, r2, r3\n\nsub r4, r1, r1\n"
			program, err := decoder.DecodeProgram(strings.NewReader(src))
			Expect(err).ToNot(HaveOccurred())
			Expect(program).To(HaveLen(2))
			Expect(program[0].ProgramIndex).To(Equal(0))
			Expect(program[1].ProgramIndex).To(Equal(1))
		})

		It("propagates a decode error from any line", func() {
			src := "add r1, r2, r3\nnotreal\n"
			_, err := decoder.DecodeProgram(strings.NewReader(src))
			Expect(err).To(HaveOccurred())
		})
	})
})
