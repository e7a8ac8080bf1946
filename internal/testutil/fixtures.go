package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SamuraiView is a small two-entity debug view with one relationship.
const SamuraiView = `Model: 
  EntityType: Samurai
    Properties: 
      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
      Name (string)
    Navigations: 
      Quotes (<Quotes>k__BackingField, List<Quote>) Collection ToDependent Quote Inverse: Samurai
    Keys: 
      Id PK
  EntityType: Quote
    Properties: 
      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
      SamuraiId (int) Required FK Index
      Text (string)
    Navigations: 
      Samurai (<Samurai>k__BackingField, Samurai) ToPrincipal Samurai Inverse: Quotes
    Keys: 
      Id PK
    Foreign keys: 
      Quote {'SamuraiId'} -> Samurai {'Id'} ToDependent: Quotes ToPrincipal: Samurai Cascade
    Indexes: 
      SamuraiId
Annotations: 
  ProductVersion: 8.0.0
`

// BlogView is a single-entity debug view.
const BlogView = `Model: 
  EntityType: Blog
    Properties: 
      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
      Url (string) Required MaxLength(200)
    Keys: 
      Id PK
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
