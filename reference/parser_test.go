package reference

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/carbocation/prs313"
)

const table = `matching_columns,other
chr1_1000_A_G,x
chr1_2000_C_T_PRS313,y
chr2_300_G_A_other,z
chr3_bad_A_G,w
chr4_10_A,v
`

func TestLoad(t *testing.T) {
	recs, warnings, err := DefaultParser().Load(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}

	if len(recs) != 3 {
		t.Fatalf("Expected 3 records, got %d: %+v", len(recs), recs)
	}
	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	for _, w := range warnings {
		var pe prs313.ParseError
		if !errors.As(w, &pe) {
			t.Errorf("Warning %v is not a ParseError", w)
		}
	}

	expected := Record{ID: "chr1_1000_A_G", Chromosome: 1, Position: 1000, Ref: "A", Alt: "G"}
	if recs[0] != expected {
		t.Errorf("got %+v, expected %+v", recs[0], expected)
	}
	if !recs[1].Panel || recs[1].PanelTag != "PRS313" {
		t.Errorf("Expected panel SNP, got %+v", recs[1])
	}
	if recs[2].Panel {
		t.Errorf("Unknown fifth part should not mark a panel SNP: %+v", recs[2])
	}
}

func TestLoadSemicolon(t *testing.T) {
	input := "idx;matching_columns\n0;chr1_1000_A_G\n1;chr22_5_T_C_PRS313\n"
	recs, warnings, err := DefaultParser().Load(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 || len(recs) != 2 {
		t.Fatalf("got %d records and warnings %v", len(recs), warnings)
	}
	if recs[1].Chromosome != 22 || !recs[1].Panel {
		t.Errorf("unexpected record %+v", recs[1])
	}
}

func TestMissingColumn(t *testing.T) {
	if _, _, err := DefaultParser().Load(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Error("Expected an error for a table without the identifier column")
	}
}

func TestKeyFormat(t *testing.T) {
	recs, _, err := DefaultParser().Load(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		expected := "chr" + strings.TrimPrefix(strings.Split(r.ID, "_")[0], "chr") + ":" + strings.Split(r.ID, "_")[1]
		if r.Key() != expected {
			t.Errorf("Key for %s: got %s, expected %s", r.ID, r.Key(), expected)
		}
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	p := DefaultParser()
	first, _, err := p.Load(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := p.Load(strings.NewReader(table))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Two loads of the same input differ:\n%+v\n%+v", first, second)
	}
}

func TestFeatureKey(t *testing.T) {
	rec, err := ParseID("chr1_2000_C_T_PRS313", DefaultPanelTag)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.FeatureKey("combined").String(); got != "chr1_2000_C_T_combined_PRS313" {
		t.Errorf("got %s", got)
	}

	rec, err = ParseID("chr1_1000_A_G", DefaultPanelTag)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.FeatureKey("combined").String(); got != "chr1_1000_A_G_combined" {
		t.Errorf("got %s", got)
	}
}

func TestLoadMalformedRecords(t *testing.T) {
	for _, v := range []struct {
		name     string
		body     string
		expected []string
		line     int
	}{
		{
			"bare quote in identifier",
			"matching_columns,note\nchr1_1000_A_G,ok\nchr1_2000_C_T\"x,bad\nchr1_3000_G_A,ok\n",
			[]string{"chr1_1000_A_G", "chr1_3000_G_A"},
			3,
		},
		{
			"bare quote in another column",
			"matching_columns,note\nchr1_1000_A_G,ok\nchr1_2000_C_T,b\"ad\nchr1_3000_G_A,ok\n",
			[]string{"chr1_1000_A_G", "chr1_3000_G_A"},
			3,
		},
		{
			// An open quote runs to the end of the input
			"unterminated quote",
			"matching_columns,note\nchr1_1000_A_G,ok\n\"chr1_2000_C_T,bad\nchr1_3000_G_A,ok\n",
			[]string{"chr1_1000_A_G"},
			3,
		},
	} {
		p := DefaultParser()
		p.Delimiter = ','

		recs, warnings, err := p.LoadBytes([]byte(v.body))
		if err != nil {
			t.Errorf("%s: %v", v.name, err)
			continue
		}

		var ids []string
		for _, rec := range recs {
			ids = append(ids, rec.ID)
		}
		if !reflect.DeepEqual(ids, v.expected) {
			t.Errorf("%s: expected %v, got %v", v.name, v.expected, ids)
		}

		if len(warnings) != 1 {
			t.Errorf("%s: expected 1 warning, got %v", v.name, warnings)
			continue
		}
		var pe prs313.ParseError
		if !errors.As(warnings[0], &pe) || pe.Line != v.line {
			t.Errorf("%s: expected a ParseError on line %d, got %v", v.name, v.line, warnings[0])
		}
	}
}
