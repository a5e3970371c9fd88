package entities

import (
	"testing"

	"github.com/iges-go/iges/core"
)

func TestSubfigureDefinitionAssociateResolvesMembers(t *testing.T) {
	m1 := newLineAt(3, core.Point{}, core.Point{X: 1})
	m2 := newLineAt(5, core.Point{X: 1}, core.Point{X: 2})

	def := &SubfigureDefinition{Name: "BOLT"}
	def.Init(308)
	def.BindSelf(def)
	def.memberPtrs = []int{3, 5}

	if err := def.Associate(Index{3: m1, 5: m2}, nil); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if len(def.Members) != 2 || def.Members[0] != m1 || def.Members[1] != m2 {
		t.Fatalf("unexpected members: %+v", def.Members)
	}
}

func TestSubfigureDefinitionUnlinkMarksDegenerate(t *testing.T) {
	m1 := newLineAt(3, core.Point{}, core.Point{X: 1})
	def := &SubfigureDefinition{}
	def.Init(308)
	def.BindSelf(def)
	def.Members = []Entity{m1}

	if !def.Unlink(m1) {
		t.Fatalf("expected Unlink to report handling the member")
	}
	if !def.Degenerate() {
		t.Fatalf("expected member removal to mark degenerate")
	}
}

func TestSubfigureInstanceAssociateAndResync(t *testing.T) {
	def := &SubfigureDefinition{Name: "BOLT"}
	def.Init(308)
	def.BindSelf(def)
	def.Seq = 7

	inst := &SubfigureInstance{Scale: 1}
	inst.Init(408)
	inst.BindSelf(inst)
	inst.definitionPtr = 7
	inst.Offset = core.Point{X: 1, Y: 2, Z: 3}

	if err := inst.Associate(Index{7: def}, nil); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if inst.Definition != def {
		t.Fatalf("expected definition resolved, got %+v", inst.Definition)
	}
	if len(def.Refs()) != 1 || def.Refs()[0] != inst {
		t.Fatalf("expected definition to record instance as a reference")
	}

	def.Seq = 17
	inst.ResyncPointers()
	if inst.definitionPtr != 17 {
		t.Fatalf("expected resynced pointer 17, got %d", inst.definitionPtr)
	}
}

func TestSubfigureInstanceSetDERebindsReferences(t *testing.T) {
	defA := &SubfigureDefinition{Name: "A"}
	defA.Init(308)
	defA.BindSelf(defA)
	defA.Seq = 3

	defB := &SubfigureDefinition{Name: "B"}
	defB.Init(308)
	defB.BindSelf(defB)
	defB.Seq = 9

	inst := &SubfigureInstance{Scale: 1}
	inst.Init(408)
	inst.BindSelf(inst)
	inst.SetDE(defA)

	if len(defA.Refs()) != 1 {
		t.Fatalf("expected defA to have one reference")
	}

	inst.SetDE(defB)
	if len(defA.Refs()) != 0 {
		t.Fatalf("expected defA reference dropped after rebind")
	}
	if inst.definitionPtr != 9 {
		t.Fatalf("expected definitionPtr updated to defB's sequence, got %d", inst.definitionPtr)
	}
}

func TestSubfigureInstanceOwnedChildrenIncludesDefinition(t *testing.T) {
	def := &SubfigureDefinition{Name: "BOLT"}
	def.Init(308)
	def.BindSelf(def)

	inst := &SubfigureInstance{Scale: 1}
	inst.Init(408)
	inst.BindSelf(inst)
	inst.Definition = def

	children := inst.OwnedChildren()
	if len(children) != 1 || children[0] != Entity(def) {
		t.Fatalf("expected OwnedChildren to report the bound definition, got %+v", children)
	}
}

func TestSubfigureInstanceRescaleLeavesScaleFactorAlone(t *testing.T) {
	inst := &SubfigureInstance{Offset: core.Point{X: 1, Y: 2, Z: 3}, Scale: 4}
	inst.Rescale(10)
	if inst.Offset != (core.Point{X: 10, Y: 20, Z: 30}) {
		t.Fatalf("expected offset scaled, got %+v", inst.Offset)
	}
	if inst.Scale != 4 {
		t.Fatalf("expected dimensionless scale factor unchanged, got %v", inst.Scale)
	}
}
