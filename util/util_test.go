package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTopN(t *testing.T) {
	top := TopN(map[string]int{"wrong": 3, "no parse": 5, "ambiguous": 3}, 2)
	if len(top) != 2 {
		t.Fatal("Got", len(top), "counts expected", 2)
	}
	if top[0].S != "no parse" || top[1].S != "ambiguous" {
		t.Error("Got", top)
	}
	if len(TopN(nil, 3)) != 0 {
		t.Error("Expected no counts")
	}
}

func TestMD5File(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "model")
	if err := os.WriteFile(filename, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	sum, err := MD5File(filename)
	if err != nil {
		t.Fatal(err)
	}
	if sum != "900150983cd24fb0d6963f7d28e17f72" {
		t.Error("Got", sum)
	}
	if _, err := MD5File(filename + ".missing"); err == nil {
		t.Error("Expected error for missing file")
	}
}
