package chrpos

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureKey names one model feature:
// chr{n}_{pos}_{ref}_{alt}_{phase}[_{panel tag}]
type FeatureKey struct {
	Locus
	Ref      string
	Alt      string
	Phase    string
	PanelTag string
}

func (f FeatureKey) String() string {
	var b strings.Builder
	b.WriteString(f.SNPID())
	b.WriteByte('_')
	b.WriteString(f.Phase)
	if f.PanelTag != "" {
		b.WriteByte('_')
		b.WriteString(f.PanelTag)
	}
	return b.String()
}

// SNPID is the identifier used by the allele frequency tables, which is the
// feature key without its phase and panel suffixes.
func (f FeatureKey) SNPID() string {
	return fmt.Sprintf("chr%d_%d_%s_%s", f.Chromosome, f.Position, f.Ref, f.Alt)
}

// ParseFeatureKey is the inverse of FeatureKey.String. Bare SNP ids (without
// phase) are accepted too.
func ParseFeatureKey(key string) (FeatureKey, error) {
	parts := strings.Split(key, "_")
	if len(parts) < 4 || len(parts) > 6 {
		return FeatureKey{}, fmt.Errorf("feature key %q has %d parts, expected 4 to 6", key, len(parts))
	}

	chr, err := ParseChromosome(parts[0])
	if err != nil {
		return FeatureKey{}, fmt.Errorf("feature key %q: %w", key, err)
	}

	pos, err := strconv.Atoi(parts[1])
	if err != nil {
		return FeatureKey{}, fmt.Errorf("feature key %q: position %q is not an integer", key, parts[1])
	}

	out := FeatureKey{
		Locus: Locus{Chromosome: chr, Position: pos},
		Ref:   parts[2],
		Alt:   parts[3],
	}
	if len(parts) > 4 {
		out.Phase = parts[4]
	}
	if len(parts) > 5 {
		out.PanelTag = parts[5]
	}

	return out, nil
}

// SNPIDFromKey strips phase and panel suffixes from a feature key. Keys that
// cannot be parsed are returned unchanged.
func SNPIDFromKey(key string) string {
	fk, err := ParseFeatureKey(key)
	if err != nil {
		return key
	}
	return fk.SNPID()
}
