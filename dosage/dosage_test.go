package dosage

import (
	"reflect"
	"strings"
	"testing"

	"github.com/carbocation/prs313/genotype"
	"github.com/carbocation/prs313/reference"
	"gopkg.in/guregu/null.v3"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		a, b     Dosage
		expected Dosage
	}{
		{Known(0), Known(0), Known(0)},
		{Known(1), Known(0), Known(1)},
		{Known(1), Known(1), Known(2)},
		{Known(1), Missing, Missing},
		{Missing, Known(0), Missing},
		{Missing, Missing, Missing},
	}

	for _, test := range tests {
		got := test.a.Add(test.b)
		if got != test.expected {
			t.Errorf("%s + %s: expected %s, got %s", test.a, test.b, test.expected, got)
		}
	}
}

func TestMissingIsNotZero(t *testing.T) {
	if Known(0).IsMissing() {
		t.Errorf("Known(0) should not be missing")
	}
	if !Missing.IsMissing() {
		t.Errorf("Missing should be missing")
	}
	if Missing == Known(0) {
		t.Errorf("Missing should differ from Known(0)")
	}
	if got := Missing.Float64(-1); got != -1 {
		t.Errorf("Expected fill value -1, got %v", got)
	}
}

func TestAlleleDosage(t *testing.T) {
	tests := []struct {
		allele   null.String
		alt      string
		expected Dosage
	}{
		{null.StringFrom("A"), "A", Known(1)},
		{null.StringFrom("a"), "A", Known(1)},
		{null.StringFrom("G"), "A", Known(0)},
		{null.String{}, "A", Missing},
		{null.StringFrom(""), "A", Missing},
		{null.StringFrom("A"), "", Missing},
	}

	for _, test := range tests {
		if got := AlleleDosage(test.allele, test.alt); got != test.expected {
			t.Errorf("AlleleDosage(%v, %q): expected %s, got %s", test.allele, test.alt, test.expected, got)
		}
	}
}

func refs(t *testing.T, ids ...string) []reference.Record {
	t.Helper()
	out := make([]reference.Record, 0, len(ids))
	for _, id := range ids {
		r, err := reference.ParseID(id, reference.DefaultPanelTag)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

func genotypes(t *testing.T, body string) []genotype.Record {
	t.Helper()
	out, _, err := genotype.Load(strings.NewReader(body), "test")
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestAlignIsLeftJoin(t *testing.T) {
	r := refs(t, "chr1_1000_A_G", "chr1_2000_C_T_PRS313", "chr2_500_G_A")
	g := genotypes(t, "rs1\t1\t1000\tAG\nrs9\t7\t1\tCC\nrs2\t02\t500\tGG\n")

	aligned := Align(r, g)
	if len(aligned) != len(r) {
		t.Fatalf("Expected %d aligned records, got %d", len(r), len(aligned))
	}

	for i := range r {
		if aligned[i].Reference != r[i] {
			t.Errorf("Record %d: reference fields changed", i)
		}
	}

	if !aligned[0].Matched() || aligned[0].Genotype.RSID != "rs1" {
		t.Errorf("Expected chr1:1000 to match rs1")
	}
	if aligned[1].Matched() {
		t.Errorf("Expected chr1:2000 to be unmatched")
	}
	if !aligned[2].Matched() || aligned[2].Genotype.RSID != "rs2" {
		t.Errorf("Expected chr2:500 to match rs2 despite the zero-padded chromosome")
	}
}

func TestAlignLastDuplicateWins(t *testing.T) {
	r := refs(t, "chr1_1000_A_G")
	g := genotypes(t, "rs1\t1\t1000\tAA\nrs1b\t1\t1000\tGG\n")

	aligned := Align(r, g)
	if got := aligned[0].Genotype.RSID; got != "rs1b" {
		t.Errorf("Expected the last duplicate to win, got %s", got)
	}
}

func TestAlignEmptyGenotypes(t *testing.T) {
	r := refs(t, "chr1_1000_A_G", "chr3_1_C_T")
	aligned := Align(r, nil)
	for _, a := range aligned {
		if a.Matched() {
			t.Errorf("Expected no matches against an empty genotype set")
		}
		if d := Derive(a); !d.Unphased.IsMissing() {
			t.Errorf("Expected missing dosage for an unmatched SNP, got %s", d.Unphased)
		}
	}
}

func TestMergeCopiesGenotype(t *testing.T) {
	r := refs(t, "chr1_1000_A_G")[0]
	g := genotype.Record{RSID: "rs1", Chromosome: "1", Position: 1000, Genotype: null.StringFrom("AG")}

	a := Merge(r, &g)
	g.RSID = "changed"
	if a.Genotype.RSID != "rs1" {
		t.Errorf("Merge should not alias the genotype record")
	}
}

func TestDerive(t *testing.T) {
	r := refs(t, "chr1_1000_A_G", "chr1_2000_C_T", "chr1_3000_G_A", "chr1_4000_T_C")
	g := genotypes(t, strings.Join([]string{
		"rs1\t1\t1000\tAG",
		"rs2\t1\t2000\tTT",
		"rs3\t1\t3000\t--",
		"rs4\t1\t4000\tC",
	}, "\n"))

	got := DeriveAll(Align(r, g))

	// Maternal 'A', paternal 'G', alternate 'G'
	if got[0].MaternalAllele.String != "A" || got[0].PaternalAllele.String != "G" {
		t.Errorf("Expected alleles A and G, got %v and %v", got[0].MaternalAllele, got[0].PaternalAllele)
	}
	if got[0].MaternalDosage != Known(0) || got[0].PaternalDosage != Known(1) || got[0].Unphased != Known(1) {
		t.Errorf("Expected dosages 0/1/1, got %s/%s/%s", got[0].MaternalDosage, got[0].PaternalDosage, got[0].Unphased)
	}

	if got[1].Unphased != Known(2) {
		t.Errorf("Expected homozygous alternate dosage 2, got %s", got[1].Unphased)
	}

	for _, i := range []int{2, 3} {
		if !got[i].Unphased.IsMissing() {
			t.Errorf("Record %d: expected missing dosage, got %s", i, got[i].Unphased)
		}
	}
}

func TestFeatureKeys(t *testing.T) {
	d := Derive(Merge(refs(t, "chr1_1000_A_G_PRS313")[0], nil))

	if got := d.FeatureKey(); got != "chr1_1000_A_G_combined_PRS313" {
		t.Errorf("Unexpected combined key %s", got)
	}

	m, p := d.PhasedKeys()
	if m != "chr1_1000_A_G_maternal_PRS313" || p != "chr1_1000_A_G_paternal_PRS313" {
		t.Errorf("Unexpected phased keys %s %s", m, p)
	}
}

func TestPartition(t *testing.T) {
	r := refs(t,
		"chr2_30_A_G",
		"chr1_20_C_T_PRS313",
		"chr1_10_A_G",
		"chr1_5_G_A_PRS313",
	)
	r = append(r, reference.Record{ID: "chr23_1_A_G", Chromosome: 23, Position: 1, Ref: "A", Alt: "G"})
	g := genotypes(t, "rs1\t1\t20\tCT\nrs2\t1\t10\tGG\n")

	buckets, warnings := Partition(DeriveAll(Align(r, g)))
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning for chromosome 23, got %d", len(warnings))
	}

	if len(buckets) != 22 {
		t.Fatalf("Expected 22 buckets, got %d", len(buckets))
	}
	for chr := 3; chr <= 22; chr++ {
		if buckets[chr].Panel.Len() != 0 || buckets[chr].NonPanel.Len() != 0 {
			t.Errorf("Expected chromosome %d to be empty", chr)
		}
	}

	panel := buckets[1].Panel
	if expected := []string{"chr1_20_C_T_combined_PRS313", "chr1_5_G_A_combined_PRS313"}; !reflect.DeepEqual(panel.Keys(), expected) {
		t.Errorf("Expected panel keys in reference order %v, got %v", expected, panel.Keys())
	}
	if expected := []Dosage{Known(1), Missing}; !reflect.DeepEqual(panel.Values(), expected) {
		t.Errorf("Expected panel values %v, got %v", expected, panel.Values())
	}
	if expected := []string{"chr1_5_G_A_combined_PRS313"}; !reflect.DeepEqual(panel.Missing(), expected) {
		t.Errorf("Expected missing %v, got %v", expected, panel.Missing())
	}

	if d, _ := buckets[1].NonPanel.Get("chr1_10_A_G_combined"); d != Known(2) {
		t.Errorf("Expected non-panel dosage 2, got %s", d)
	}
	if d, ok := buckets[2].NonPanel.Get("chr2_30_A_G_combined"); !ok || !d.IsMissing() {
		t.Errorf("Expected chr2 non-panel entry to be present and missing")
	}
}

func TestFeatureMapClone(t *testing.T) {
	f := NewFeatureMap()
	f.Set("a", Known(1))
	f.Set("b", Missing)
	f.Set("a", Known(2))

	if expected := []string{"a", "b"}; !reflect.DeepEqual(f.Keys(), expected) {
		t.Errorf("Expected re-set key to keep its position, got %v", f.Keys())
	}

	c := f.Clone()
	c.Set("b", Known(0))
	c.Set("c", Known(1))

	if d, _ := f.Get("b"); !d.IsMissing() {
		t.Errorf("Clone should not alias the original")
	}
	if f.Len() != 2 || c.Len() != 3 {
		t.Errorf("Unexpected lengths %d and %d", f.Len(), c.Len())
	}
}
