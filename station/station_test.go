package station_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/tomasulo16/insts"
	"github.com/archsim/tomasulo16/station"
)

func TestStation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Station Suite")
}

var _ = Describe("KindForCategory", func() {
	DescribeTable("maps categories to kinds",
		func(cat insts.Category, kind station.Kind) {
			Expect(station.KindForCategory(cat)).To(Equal(kind))
		},
		Entry("load", insts.CategoryLoad, station.KindLoad),
		Entry("store", insts.CategoryStore, station.KindStore),
		Entry("beq", insts.CategoryBeq, station.KindBeq),
		Entry("call/ret", insts.CategoryCallOrRet, station.KindCall),
		Entry("add", insts.CategoryAdd, station.KindAdd),
		Entry("sub", insts.CategorySub, station.KindSub),
		Entry("nor", insts.CategoryNor, station.KindNor),
		Entry("mul", insts.CategoryMul, station.KindMul),
	)
})

var _ = Describe("Wrap16", func() {
	It("passes through in-range values", func() {
		Expect(station.Wrap16(10)).To(Equal(uint16(10)))
	})

	It("wraps values above 0xFFFF", func() {
		Expect(station.Wrap16(1 << 16)).To(Equal(uint16(0)))
		Expect(station.Wrap16((1 << 16) + 5)).To(Equal(uint16(5)))
	})

	It("wraps negative values", func() {
		Expect(station.Wrap16(-1)).To(Equal(uint16(0xFFFF)))
	})
})

var _ = Describe("Station", func() {
	It("clears back to empty but keeps identity and cycle counts", func() {
		s := &station.Station{
			Name: "add1", ID: 7, Kind: station.KindAdd,
			CyclesPerExec: 2, CyclesPerAddr: 0,
		}
		s.Busy = true
		s.Vj = 5
		s.Qk = 3
		s.Clear()

		Expect(s.Busy).To(BeFalse())
		Expect(s.Vj).To(BeZero())
		Expect(s.Qk).To(BeZero())
		Expect(s.Name).To(Equal("add1"))
		Expect(s.ID).To(Equal(uint32(7)))
		Expect(s.CyclesPerExec).To(Equal(2))
	})

	It("reports readiness from qj/qk", func() {
		s := &station.Station{}
		Expect(s.ReadyToExecute()).To(BeTrue())
		s.Qj = 1
		Expect(s.ReadyToExecute()).To(BeFalse())
	})
})

var _ = Describe("Inventory", func() {
	defaultSpecs := func() [8]station.Spec {
		return [8]station.Spec{
			{Units: 2, ExecCycles: 2, AddrCycles: 1}, // load
			{Units: 2, ExecCycles: 2, AddrCycles: 1}, // store
			{Units: 1, ExecCycles: 1},                // beq
			{Units: 1, ExecCycles: 1},                // call
			{Units: 3, ExecCycles: 2},                // add
			{Units: 1, ExecCycles: 2},                // sub
			{Units: 1, ExecCycles: 1},                // nor
			{Units: 2, ExecCycles: 10},                // mul
		}
	}

	It("assigns globally unique, strictly positive, sequential ids", func() {
		inv := station.Build(defaultSpecs())
		seen := map[uint32]bool{}
		for _, s := range inv.All() {
			Expect(s.ID).To(BeNumerically(">", 0))
			Expect(seen[s.ID]).To(BeFalse())
			seen[s.ID] = true
		}
		Expect(inv.All()).To(HaveLen(2 + 2 + 1 + 1 + 3 + 1 + 1 + 2))
	})

	It("names multi-unit kinds with a 1-based suffix and single-unit kinds bare", func() {
		inv := station.Build(defaultSpecs())
		Expect(inv.Stations[station.KindLoad][0].Name).To(Equal("load1"))
		Expect(inv.Stations[station.KindLoad][1].Name).To(Equal("load2"))
		Expect(inv.Stations[station.KindBeq][0].Name).To(Equal("beq"))
	})

	It("looks up stations by id", func() {
		inv := station.Build(defaultSpecs())
		want := inv.Stations[station.KindAdd][1]
		got, ok := inv.ByID(want.ID)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(want))
	})

	It("treats id 0 as no producer", func() {
		inv := station.Build(defaultSpecs())
		_, ok := inv.ByID(0)
		Expect(ok).To(BeFalse())
	})

	It("only grants addr cycles to load/store kinds", func() {
		inv := station.Build(defaultSpecs())
		Expect(inv.Stations[station.KindAdd][0].CyclesPerAddr).To(Equal(0))
		Expect(inv.Stations[station.KindLoad][0].CyclesPerAddr).To(Equal(1))
	})

	It("finds the first free station in index order", func() {
		inv := station.Build(defaultSpecs())
		inv.Stations[station.KindAdd][0].Busy = true
		free, ok := inv.FreeStation(station.KindAdd)
		Expect(ok).To(BeTrue())
		Expect(free).To(BeIdenticalTo(inv.Stations[station.KindAdd][1]))
	})

	It("reports AnyBusy across all kinds", func() {
		inv := station.Build(defaultSpecs())
		Expect(inv.AnyBusy()).To(BeFalse())
		inv.Stations[station.KindMul][1].Busy = true
		Expect(inv.AnyBusy()).To(BeTrue())
	})
})
