package prs313

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDecompresses(t *testing.T) {
	dir := t.TempDir()
	content := []byte("rs1\t1\t1000\tAG\n")

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write(content)
	zw.Close()

	for name, data := range map[string][]byte{
		"plain.txt": content,
		"genome.gz": gz.Bytes(),
		"short.txt": []byte("ab"),
		"empty.txt": nil,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}

		got, err := ReadAll(context.Background(), path, nil)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}

		expected := data
		if name == "genome.gz" {
			expected = content
		}
		if !bytes.Equal(got, expected) {
			t.Errorf("%s: expected %q, got %q", name, expected, got)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
	if _, err := Open(context.Background(), "gs://bucket/object", nil); err == nil {
		t.Errorf("Expected an error for gs:// without a client")
	}
}

func TestDetectDataType(t *testing.T) {
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte("x"))
	zw.Close()

	for _, v := range []struct {
		data     []byte
		expected DataType
	}{
		{gz.Bytes(), DataTypeGzip},
		{[]byte("BZh91AY"), DataTypeBZip2},
		{[]byte{0x50, 0x4b, 0x03, 0x04, 0, 0}, DataTypeZip},
		{[]byte("SNP,MAF\n"), DataTypeNoCompression},
	} {
		got, err := DetectDataType(bufioReader(v.data))
		if err != nil {
			t.Fatal(err)
		}
		if got != v.expected {
			t.Errorf("%q: expected %v, got %v", v.data, v.expected, got)
		}
	}
}

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := splitGoogleStoragePath("gs://my-bucket/path/to/maf_chr1.csv")
	if err != nil {
		t.Fatal(err)
	}
	if bucket != "my-bucket" || object != "path/to/maf_chr1.csv" {
		t.Errorf("Unexpected split %s %s", bucket, object)
	}

	for _, bad := range []string{"gs://bucket", "gs:///object", "gs://bucket/"} {
		if _, _, err := splitGoogleStoragePath(bad); err == nil {
			t.Errorf("Expected %s to be rejected", bad)
		}
	}
}

func TestDetermineDelimiterBytes(t *testing.T) {
	for _, v := range []struct {
		data     string
		expected rune
	}{
		{"matching_columns,b\nchr1_1_A_G,x\nchr1_2_A_G,y\n", ','},
		{"matching_columns;b\nchr1_1_A_G;x\nchr1_2_A_G;y\n", ';'},
		{"SNP\tMAF\nchr1_1_A_G\t0.1\nchr1_2_A_G\t0.2\n", '\t'},
	} {
		if got := DetermineDelimiterBytes([]byte(v.data)); got != v.expected {
			t.Errorf("Expected %q, got %q for %q", v.expected, got, v.data)
		}
	}
}

func TestChromosomePath(t *testing.T) {
	if got := ChromosomePath("gs://b/maf_chr{chr}_MAF.csv", 7); got != "gs://b/maf_chr7_MAF.csv" {
		t.Errorf("Unexpected path %s", got)
	}
}

func bufioReader(data []byte) *bufio.Reader {
	return bufio.NewReader(bytes.NewReader(data))
}
