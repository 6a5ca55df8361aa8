package score

import (
	"math"
	"testing"

	"github.com/carbocation/prs313/dosage"
	"github.com/carbocation/prs313/prsparser"
)

func table() *prsparser.Table {
	return prsparser.NewTable(
		prsparser.Weight{Chromosome: 1, Position: 1000, Weights: [prsparser.NumPhenotypes]float64{0.1, 0.2, 0.3, 0.4, 0.5}},
		prsparser.Weight{Chromosome: 2, Position: 500, Weights: [prsparser.NumPhenotypes]float64{1, 1, 1, 1, -1}},
	)
}

func TestAggregate(t *testing.T) {
	entries := []Entry{
		{Key: "chr1_1000_A_G_combined_PRS313", Dosage: dosage.Known(2)},
		{Key: "chr2_500_C_T_combined", Dosage: dosage.Known(1)},
		{Key: "chr3_7_C_T_combined", Dosage: dosage.Known(2)},
		{Key: "chr2_500_C_T_combined", Dosage: dosage.Missing},
		{Key: "garbage", Dosage: dosage.Known(1)},
	}

	v, audit := Aggregate(entries, table())

	expected := Vector{1.2, 1.4, 1.6, 1.8, 0}
	for _, p := range prsparser.Phenotypes() {
		if math.Abs(v.Get(p)-expected[p]) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", p, expected[p], v.Get(p))
		}
	}

	if audit.Scored != 2 {
		t.Errorf("Expected 2 scored entries, got %d", audit.Scored)
	}
	if len(audit.MissingWeights) != 1 || audit.MissingWeights[0].Chromosome != 3 || audit.MissingWeights[0].Position != 7 {
		t.Errorf("Unexpected missing weights %v", audit.MissingWeights)
	}
	if len(audit.MissingDosages) != 1 {
		t.Errorf("Unexpected missing dosages %v", audit.MissingDosages)
	}
	if len(audit.Unparseable) != 1 || audit.Unparseable[0] != "garbage" {
		t.Errorf("Unexpected unparseable keys %v", audit.Unparseable)
	}
}

func TestSkippedIsNotZeroWeighted(t *testing.T) {
	// Both runs sum to the same score; only the audit tells them apart.
	withUnknown := []Entry{
		{Key: "chr1_1000_A_G_combined", Dosage: dosage.Known(1)},
		{Key: "chr9_9_A_G_combined", Dosage: dosage.Known(2)},
	}
	without := withUnknown[:1]

	v1, a1 := Aggregate(withUnknown, table())
	v2, a2 := Aggregate(without, table())

	if v1 != v2 {
		t.Errorf("Expected equal scores, got %v and %v", v1, v2)
	}
	if len(a1.MissingWeights) != 1 || len(a2.MissingWeights) != 0 {
		t.Errorf("Expected the skip to be reported")
	}
}

func TestEntries(t *testing.T) {
	a := dosage.NewFeatureMap()
	a.Set("x", dosage.Known(1))
	b := dosage.NewFeatureMap()
	b.Set("y", dosage.Missing)
	b.Set("z", dosage.Known(2))

	got := Entries(a, nil, b)
	if len(got) != 3 || got[0].Key != "x" || got[1].Key != "y" || got[2].Dosage != dosage.Known(2) {
		t.Errorf("Unexpected entries %v", got)
	}
}

func TestVectorMap(t *testing.T) {
	m := Vector{1, 2, 3, 4, 5}.Map()
	if m["overall"] != 1 || m["hybrid_er_negative"] != 5 {
		t.Errorf("Unexpected map %v", m)
	}
}
