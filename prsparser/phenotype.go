package prsparser

// Phenotype indexes the five PRS313 sub-scores.
type Phenotype int

const (
	Overall Phenotype = iota
	ERPositive
	ERNegative
	HybridERPositive
	HybridERNegative

	NumPhenotypes int = iota
)

var phenotypeNames = [NumPhenotypes]string{
	Overall:          "overall",
	ERPositive:       "er_positive",
	ERNegative:       "er_negative",
	HybridERPositive: "hybrid_er_positive",
	HybridERNegative: "hybrid_er_negative",
}

func (p Phenotype) String() string {
	if p < 0 || int(p) >= NumPhenotypes {
		return "unknown"
	}
	return phenotypeNames[p]
}

// Phenotypes lists every phenotype in index order.
func Phenotypes() []Phenotype {
	out := make([]Phenotype, NumPhenotypes)
	for i := range out {
		out[i] = Phenotype(i)
	}
	return out
}
