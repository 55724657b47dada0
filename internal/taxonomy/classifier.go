package taxonomy

import (
	"strings"

	"github.com/toptal0212/clinic-analysis-sub002/internal/model"
)

// Classifier assigns a canonical category to a record's treatment fields.
// Classification is a total function: every input resolves to exactly one
// category, with その他/その他 as the fallback. Matching is case-sensitive
// and exact-string based; the only looseness is substring containment when
// matching consultation names.
type Classifier struct {
	taxonomy *Taxonomy
}

// NewClassifier creates a classifier over the given taxonomy.
func NewClassifier(t *Taxonomy) *Classifier {
	return &Classifier{taxonomy: t}
}

// Classify resolves the (main, sub, procedure) triple for a record. The rule
// table is evaluated in fixed order:
//  1. consultation mapping table (exact name, then substring: appended
//     suffixes always, truncations only for consultation-looking input)
//  2. taxonomy procedure-list membership, declaration order
//  3. raw category field against taxonomy node names
//  4. その他/その他 default
func (c *Classifier) Classify(categoryRaw, nameRaw string) model.Category {
	if m, ok := c.LookupConsultation(nameRaw); ok {
		return model.Category{
			Main:      mainForSpecialty(m.Specialty),
			Sub:       m.Subcategory,
			Procedure: nameRaw,
		}
	}

	for _, node := range c.taxonomy.Nodes {
		for _, proc := range node.Procedures {
			if nameRaw == proc {
				return model.Category{Main: node.Main, Sub: node.Sub, Procedure: nameRaw}
			}
		}
	}

	if categoryRaw != "" {
		for _, node := range c.taxonomy.Nodes {
			if categoryRaw == node.Sub {
				return model.Category{Main: node.Main, Sub: node.Sub, Procedure: nameRaw}
			}
		}
	}

	return model.Category{Main: model.MainOther, Sub: "その他", Procedure: nameRaw}
}

// LookupConsultation finds the consultation mapping for a menu name. Exact
// matches win over substring matches; within each pass the earlier-declared
// entry wins. Substring containment covers two booking-system quirks: names
// with a clinic suffix appended (input contains the table entry) and names
// truncated mid-suffix (table entry contains the input). The truncation
// direction only applies to inputs that still read as a consultation,
// otherwise a bare procedure name like ボトックス would be swallowed by its
// consultation entry before the taxonomy lists are consulted.
func (c *Classifier) LookupConsultation(nameRaw string) (ConsultationMapping, bool) {
	if nameRaw == "" {
		return ConsultationMapping{}, false
	}

	for _, m := range c.taxonomy.Consultations {
		if nameRaw == m.Name {
			return m, true
		}
	}

	truncated := consultationFragment(nameRaw)
	for _, m := range c.taxonomy.Consultations {
		if strings.Contains(nameRaw, m.Name) {
			return m, true
		}
		if truncated && strings.Contains(m.Name, nameRaw) {
			return m, true
		}
	}

	return ConsultationMapping{}, false
}

// consultationFragment reports whether a name carries at least part of the
// ご相談 suffix every consultation entry ends with.
func consultationFragment(nameRaw string) bool {
	return strings.Contains(nameRaw, "ご相") || strings.Contains(nameRaw, "相談")
}

// LooksLikeConsultation reports whether a treatment name reads as a
// consultation menu entry. The validator uses this to flag names that look
// like consultations but match no mapping entry.
func LooksLikeConsultation(nameRaw string) bool {
	return strings.Contains(nameRaw, "ご相談")
}
