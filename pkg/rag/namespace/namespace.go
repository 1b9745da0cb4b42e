// Package namespace holds the closed set of subject tags that partition both
// the vector index and the corpus fetch routing.
package namespace

import (
	"fmt"
	"strings"

	"notecraft-be/pkg/corpus"
)

type Namespace string

const (
	Physics                    Namespace = "physics"
	Chemistry                  Namespace = "chemistry"
	EnergySustainability       Namespace = "energy_sustainability"
	MathematicsAppliedMath     Namespace = "mathematics_applied_math"
	EarthSciences              Namespace = "earth_sciences"
	PsychologyCognitiveScience Namespace = "psychology_cognitive_science"
	Biology                    Namespace = "biology"
	Medicine                   Namespace = "medicine"
	AgricultureFoodScience     Namespace = "agriculture_food_science"
	Engineering                Namespace = "engineering"
	TechnologyInnovation       Namespace = "technology_innovation"
	CSMath                     Namespace = "cs_math"
	SocialSciences             Namespace = "social_sciences"
	ArtsHumanities             Namespace = "arts_humanities"
	BusinessManagement         Namespace = "business_management"
	History                    Namespace = "history"
	LawPolicy                  Namespace = "law_policy"
	PhilosophyEthics           Namespace = "philosophy_ethics"
)

// All lists the namespaces in the order they are presented to the model.
var All = []Namespace{
	Physics, Chemistry, EnergySustainability, MathematicsAppliedMath, EarthSciences,
	PsychologyCognitiveScience, Biology, Medicine, AgricultureFoodScience, Engineering,
	TechnologyInnovation, CSMath, SocialSciences, ArtsHumanities, BusinessManagement,
	History, LawPolicy, PhilosophyEthics,
}

// sources routes every namespace to the corpus family used on a vector store miss.
var sources = map[Namespace]corpus.Source{
	Physics:                    corpus.SourceArxiv,
	Chemistry:                  corpus.SourceArxiv,
	CSMath:                     corpus.SourceArxiv,
	Engineering:                corpus.SourceArxiv,
	EarthSciences:              corpus.SourceArxiv,
	TechnologyInnovation:       corpus.SourceArxiv,
	EnergySustainability:       corpus.SourceArxiv,
	MathematicsAppliedMath:     corpus.SourceArxiv,
	Biology:                    corpus.SourcePubmed,
	Medicine:                   corpus.SourcePubmed,
	AgricultureFoodScience:     corpus.SourcePubmed,
	PsychologyCognitiveScience: corpus.SourcePubmed,
	SocialSciences:             corpus.SourceWikipedia,
	History:                    corpus.SourceWikipedia,
	PhilosophyEthics:           corpus.SourceWikipedia,
	ArtsHumanities:             corpus.SourceWikipedia,
	BusinessManagement:         corpus.SourceWikipedia,
	LawPolicy:                  corpus.SourceWikipedia,
}

// Parse normalises s and checks it against the known tags.
func Parse(s string) (Namespace, error) {
	n := Namespace(strings.ToLower(strings.TrimSpace(s)))
	n = Namespace(strings.ReplaceAll(string(n), " ", "_"))
	if _, ok := sources[n]; !ok {
		return "", fmt.Errorf("unknown namespace %q", s)
	}
	return n, nil
}

// Source returns the corpus family for n.
func (n Namespace) Source() (corpus.Source, bool) {
	s, ok := sources[n]
	return s, ok
}

func (n Namespace) Valid() bool {
	_, ok := sources[n]
	return ok
}

func (n Namespace) String() string {
	return string(n)
}

// Strings returns All as plain strings, e.g. for prompts and schemas.
func Strings() []string {
	out := make([]string, len(All))
	for i, n := range All {
		out[i] = string(n)
	}
	return out
}
