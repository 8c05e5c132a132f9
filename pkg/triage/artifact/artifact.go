package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/model"
	"github.com/cognicore/helpdesk/pkg/triage/vectorize"
)

// Canonical artifact names. Each resolves to <name>.json inside the
// artifact directory.
const (
	NameVectorizer      = "tfidf_vectorizer"
	NameCategoryModel   = "category_model"
	NamePriorityModel   = "priority_model"
	NameCategoryEncoder = "category_encoder"
	NamePriorityEncoder = "priority_encoder"
)

// Set holds every pretrained artifact the triage engine needs, loaded
// once at startup and shared read-only afterwards.
type Set struct {
	Vectorizer      *vectorize.Vectorizer
	CategoryModel   *model.LinearModel
	PriorityModel   *model.LinearModel
	CategoryDecoder *model.LabelDecoder
	PriorityDecoder *model.LabelDecoder
}

// Loader reads artifacts from a directory. Fallbacks maps a canonical
// name to an alternate file name tried when the canonical one is absent;
// exports from older training runs used "tfidf" for the vectorizer.
type Loader struct {
	Dir       string
	Fallbacks map[string]string
}

// DefaultFallbacks returns the alternate names known from prior exports.
func DefaultFallbacks() map[string]string {
	return map[string]string{NameVectorizer: "tfidf"}
}

type vectorizerFile struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

type modelFile struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

type encoderFile struct {
	Classes []string `json:"classes"`
}

// Load reads and validates all five artifacts. Any missing or malformed
// file is an error: the engine cannot run partially loaded, so startup
// must fail rather than degrade.
func (l Loader) Load() (*Set, error) {
	var vec vectorizerFile
	if err := l.read(NameVectorizer, &vec); err != nil {
		return nil, err
	}
	if len(vec.Vocabulary) == 0 || len(vec.IDF) == 0 {
		return nil, fmt.Errorf("%w: %s has empty vocabulary", internalerr.ErrArtifactCorrupt, NameVectorizer)
	}
	for term, idx := range vec.Vocabulary {
		if idx < 0 || idx >= len(vec.IDF) {
			return nil, fmt.Errorf("%w: %s term %q index %d outside idf range %d",
				internalerr.ErrArtifactCorrupt, NameVectorizer, term, idx, len(vec.IDF))
		}
	}

	catModel, err := l.readModel(NameCategoryModel, len(vec.IDF))
	if err != nil {
		return nil, err
	}
	priModel, err := l.readModel(NamePriorityModel, len(vec.IDF))
	if err != nil {
		return nil, err
	}

	catDecoder, err := l.readEncoder(NameCategoryEncoder, catModel.NumClasses())
	if err != nil {
		return nil, err
	}
	priDecoder, err := l.readEncoder(NamePriorityEncoder, priModel.NumClasses())
	if err != nil {
		return nil, err
	}

	return &Set{
		Vectorizer:      vectorize.New(vec.Vocabulary, vec.IDF),
		CategoryModel:   catModel,
		PriorityModel:   priModel,
		CategoryDecoder: catDecoder,
		PriorityDecoder: priDecoder,
	}, nil
}

func (l Loader) readModel(name string, dim int) (*model.LinearModel, error) {
	var mf modelFile
	if err := l.read(name, &mf); err != nil {
		return nil, err
	}
	if len(mf.Weights) == 0 || len(mf.Intercepts) != len(mf.Weights) {
		return nil, fmt.Errorf("%w: %s weight/intercept shape mismatch", internalerr.ErrArtifactCorrupt, name)
	}
	for c, row := range mf.Weights {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: %s class %d has %d features, vectorizer has %d",
				internalerr.ErrArtifactCorrupt, name, c, len(row), dim)
		}
	}
	return &model.LinearModel{
		Weights:    mf.Weights,
		Intercepts: mf.Intercepts,
	}, nil
}

func (l Loader) readEncoder(name string, classes int) (*model.LabelDecoder, error) {
	var ef encoderFile
	if err := l.read(name, &ef); err != nil {
		return nil, err
	}
	if len(ef.Classes) != classes {
		return nil, fmt.Errorf("%w: %s has %d labels, model has %d classes",
			internalerr.ErrArtifactCorrupt, name, len(ef.Classes), classes)
	}
	return &model.LabelDecoder{Classes: ef.Classes}, nil
}

// read loads one named artifact, trying the fallback name when the
// canonical file does not exist.
func (l Loader) read(name string, out interface{}) error {
	data, err := os.ReadFile(filepath.Join(l.Dir, name+".json"))
	if os.IsNotExist(err) {
		if alt, ok := l.Fallbacks[name]; ok {
			data, err = os.ReadFile(filepath.Join(l.Dir, alt+".json"))
		}
	}
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s in %s", internalerr.ErrArtifactMissing, name, l.Dir)
	}
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", internalerr.ErrArtifactCorrupt, name, err)
	}
	return nil
}
