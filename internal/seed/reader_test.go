package seed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadOwners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owners.csv")
	content := "username\njuan_dc\nab\nmaria.santos\nnot a user!\npcparts-mnl\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	owners, err := LoadOwners(path)
	if err != nil {
		t.Fatalf("LoadOwners: %v", err)
	}
	want := []string{"juan_dc", "maria.santos", "pcparts-mnl"}
	if !reflect.DeepEqual(owners, want) {
		t.Fatalf("LoadOwners = %v, want %v", owners, want)
	}
}

func TestLoadOwnersMissingFile(t *testing.T) {
	if _, err := LoadOwners(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected an error for a missing seed file")
	}
}
