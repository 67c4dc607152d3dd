package hwinventory_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/tomasulo16/hwinventory"
	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

func TestHWInventory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HWInventory Suite")
}

var _ = Describe("Default", func() {
	It("matches spec.md §6's default inventory", func() {
		d := hwinventory.Default()
		Expect(d[station.KindLoad]).To(Equal(station.Spec{Units: 2, ExecCycles: 2, AddrCycles: 1}))
		Expect(d[station.KindStore]).To(Equal(station.Spec{Units: 2, ExecCycles: 2, AddrCycles: 1}))
		Expect(d[station.KindBeq]).To(Equal(station.Spec{Units: 1, ExecCycles: 1}))
		Expect(d[station.KindCall]).To(Equal(station.Spec{Units: 1, ExecCycles: 1}))
		Expect(d[station.KindAdd]).To(Equal(station.Spec{Units: 3, ExecCycles: 2}))
		Expect(d[station.KindSub]).To(Equal(station.Spec{Units: 1, ExecCycles: 2}))
		Expect(d[station.KindNor]).To(Equal(station.Spec{Units: 1, ExecCycles: 1}))
		Expect(d[station.KindMul]).To(Equal(station.Spec{Units: 2, ExecCycles: 10}))
	})
})

var _ = Describe("Load", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeFile := func(contents string) string {
		path := filepath.Join(dir, "hardware.txt")
		Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
		return path
	}

	It("parses 8 lines with addr cycles on load/store only", func() {
		path := writeFile("2 2 1\n2 2 1\n1 1\n1 1\n3 2\n1 2\n1 1\n2 10\n")
		specs, err := hwinventory.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(specs).To(Equal(hwinventory.Default()))
	})

	It("ignores a third field on non-memory lines", func() {
		path := writeFile("2 2 1\n2 2 1\n1 1 9\n1 1\n3 2\n1 2\n1 1\n2 10\n")
		specs, err := hwinventory.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(specs[station.KindBeq].AddrCycles).To(Equal(0))
	})

	It("errors on too few lines", func() {
		path := writeFile("2 2 1\n2 2 1\n")
		_, err := hwinventory.Load(path)
		Expect(err).To(HaveOccurred())
	})

	It("errors on a non-numeric field", func() {
		path := writeFile("two 2 1\n2 2 1\n1 1\n1 1\n3 2\n1 2\n1 1\n2 10\n")
		_, err := hwinventory.Load(path)
		Expect(err).To(HaveOccurred())
	})

	It("errors when the file does not exist", func() {
		_, err := hwinventory.Load(filepath.Join(dir, "missing.txt"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {
	It("rejects a kind the program uses with zero configured units", func() {
		specs := hwinventory.Default()
		specs[station.KindMul] = station.Spec{Units: 0, ExecCycles: 10}
		program := []*insts.Instruction{{Category: insts.CategoryMul, ProgramIndex: 0}}
		err := hwinventory.Validate(specs, program)
		Expect(err).To(HaveOccurred())
	})

	It("accepts a fully-provisioned default inventory", func() {
		specs := hwinventory.Default()
		program := []*insts.Instruction{
			{Category: insts.CategoryAdd, ProgramIndex: 0},
			{Category: insts.CategoryLoad, ProgramIndex: 1},
		}
		Expect(hwinventory.Validate(specs, program)).To(Succeed())
	})
})
