package insts_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/tomasulo16/insts"
)

func TestInsts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Insts Suite")
}

var _ = Describe("Instruction", func() {
	It("zero-values its timestamps", func() {
		var i insts.Instruction
		Expect(i.IssueCycle).To(BeZero())
		Expect(i.ExecStartCycle).To(BeZero())
		Expect(i.ExecEndCycle).To(BeZero())
		Expect(i.WritebackCycle).To(BeZero())
	})

	It("resets timestamps but not decoded fields", func() {
		i := insts.Instruction{
			Category:       insts.CategoryAdd,
			IssueCycle:     3,
			ExecStartCycle: 4,
			ExecEndCycle:   5,
			WritebackCycle: 6,
		}
		i.Reset()
		Expect(i.IssueCycle).To(BeZero())
		Expect(i.ExecStartCycle).To(BeZero())
		Expect(i.ExecEndCycle).To(BeZero())
		Expect(i.WritebackCycle).To(BeZero())
		Expect(i.Category).To(Equal(insts.CategoryAdd))
	})

	DescribeTable("WritesDest",
		func(cat insts.Category, want bool) {
			i := insts.Instruction{Category: cat}
			Expect(i.WritesDest()).To(Equal(want))
		},
		Entry("load writes a destination", insts.CategoryLoad, true),
		Entry("add writes a destination", insts.CategoryAdd, true),
		Entry("sub writes a destination", insts.CategorySub, true),
		Entry("nor writes a destination", insts.CategoryNor, true),
		Entry("mul writes a destination", insts.CategoryMul, true),
		Entry("store writes no destination", insts.CategoryStore, false),
		Entry("beq writes no destination", insts.CategoryBeq, false),
		Entry("call/ret writes no destination", insts.CategoryCallOrRet, false),
	)

	It("identifies memory categories", func() {
		Expect((&insts.Instruction{Category: insts.CategoryLoad}).IsMemory()).To(BeTrue())
		Expect((&insts.Instruction{Category: insts.CategoryStore}).IsMemory()).To(BeTrue())
		Expect((&insts.Instruction{Category: insts.CategoryAdd}).IsMemory()).To(BeFalse())
	})
})
