package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const (
	goodVectorizer = `{"vocabulary":{"laptop":0,"vpn":1},"idf":[1.0,2.0]}`
	goodModel      = `{"weights":[[1,0],[0,1]],"intercepts":[0,0]}`
	goodCatEncoder = `{"classes":["Hardware","Network"]}`
	goodPriEncoder = `{"classes":["Low","High"]}`
)

func writeAll(t *testing.T, dir string) {
	t.Helper()
	writeArtifact(t, dir, NameVectorizer, goodVectorizer)
	writeArtifact(t, dir, NameCategoryModel, goodModel)
	writeArtifact(t, dir, NamePriorityModel, goodModel)
	writeArtifact(t, dir, NameCategoryEncoder, goodCatEncoder)
	writeArtifact(t, dir, NamePriorityEncoder, goodPriEncoder)
}

func TestLoadComplete(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)

	set, err := Loader{Dir: dir}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Vectorizer.Dim() != 2 {
		t.Errorf("vectorizer dim = %d, want 2", set.Vectorizer.Dim())
	}
	if set.CategoryModel.NumClasses() != 2 {
		t.Errorf("category classes = %d, want 2", set.CategoryModel.NumClasses())
	}
	if label, ok := set.PriorityDecoder.Decode(1); !ok || label != "High" {
		t.Errorf("priority decode(1) = (%q, %v), want (High, true)", label, ok)
	}
}

func TestLoadMissingArtifactFatal(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	if err := os.Remove(filepath.Join(dir, NamePriorityModel+".json")); err != nil {
		t.Fatal(err)
	}

	_, err := Loader{Dir: dir}.Load()
	if !errors.Is(err, internalerr.ErrArtifactMissing) {
		t.Errorf("err = %v, want ErrArtifactMissing", err)
	}
}

func TestLoadCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	writeArtifact(t, dir, NameCategoryModel, `{"weights": not json`)

	_, err := Loader{Dir: dir}.Load()
	if !errors.Is(err, internalerr.ErrArtifactCorrupt) {
		t.Errorf("err = %v, want ErrArtifactCorrupt", err)
	}
}

func TestLoadVectorizerFallbackName(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	// Older exports shipped the vectorizer as tfidf.json.
	if err := os.Rename(
		filepath.Join(dir, NameVectorizer+".json"),
		filepath.Join(dir, "tfidf.json"),
	); err != nil {
		t.Fatal(err)
	}

	if _, err := (Loader{Dir: dir}).Load(); !errors.Is(err, internalerr.ErrArtifactMissing) {
		t.Errorf("without fallbacks err = %v, want ErrArtifactMissing", err)
	}

	set, err := Loader{Dir: dir, Fallbacks: DefaultFallbacks()}.Load()
	if err != nil {
		t.Fatalf("Load with fallback: %v", err)
	}
	if set.Vectorizer.Dim() != 2 {
		t.Errorf("vectorizer dim = %d, want 2", set.Vectorizer.Dim())
	}
}

func TestLoadIgnoresLegacyModelFields(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	// Older exports tagged the training family on the model file; the
	// key carries no information the weights do not, and is ignored.
	writeArtifact(t, dir, NameCategoryModel,
		`{"weights":[[1,0],[0,1]],"intercepts":[0,0],"probabilistic":true}`)

	set, err := Loader{Dir: dir}.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.CategoryModel.NumClasses() != 2 {
		t.Errorf("category classes = %d, want 2", set.CategoryModel.NumClasses())
	}
}

func TestLoadShapeValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, dir string)
	}{
		{"vocab index out of range", func(t *testing.T, dir string) {
			writeArtifact(t, dir, NameVectorizer, `{"vocabulary":{"laptop":5},"idf":[1.0,2.0]}`)
		}},
		{"empty vocabulary", func(t *testing.T, dir string) {
			writeArtifact(t, dir, NameVectorizer, `{"vocabulary":{},"idf":[]}`)
		}},
		{"weight width mismatch", func(t *testing.T, dir string) {
			writeArtifact(t, dir, NameCategoryModel, `{"weights":[[1,0,0],[0,1,0]],"intercepts":[0,0]}`)
		}},
		{"intercept count mismatch", func(t *testing.T, dir string) {
			writeArtifact(t, dir, NameCategoryModel, `{"weights":[[1,0],[0,1]],"intercepts":[0]}`)
		}},
		{"encoder class count mismatch", func(t *testing.T, dir string) {
			writeArtifact(t, dir, NameCategoryEncoder, `{"classes":["Hardware"]}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeAll(t, dir)
			tt.mutate(t, dir)

			_, err := Loader{Dir: dir}.Load()
			if !errors.Is(err, internalerr.ErrArtifactCorrupt) {
				t.Errorf("err = %v, want ErrArtifactCorrupt", err)
			}
		})
	}
}
