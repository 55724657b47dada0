// Package taxonomy holds the fixed treatment taxonomy and the consultation
// mapping table, and implements the treatment classifier over them. Both
// tables are versioned static configuration: the engine reads them, it never
// computes or extends them.
package taxonomy

import "github.com/toptal0212/clinic-analysis-sub002/internal/model"

// Specialty constants used by the consultation mapping table. Surgery,
// dermatology and hair-removal consultations resolve under 美容; everything
// else resolves under その他.
const (
	SpecialtySurgery     = "外科"
	SpecialtyDermatology = "皮膚科"
	SpecialtyHairRemoval = "脱毛"
	SpecialtyOther       = "その他"
)

// Node is one subcategory of the taxonomy with its fixed procedure list.
// Declaration order matters: when a procedure name appears in more than one
// list, the earlier node wins.
type Node struct {
	Main       string
	Sub        string
	Procedures []string
}

// ConsultationMapping maps a known consultation menu name to its target
// specialty and subcategory. RequiresManualClassification is informational:
// flagged entries still resolve deterministically to their subcategory.
type ConsultationMapping struct {
	Name                         string
	Specialty                    string
	Subcategory                  string
	RequiresManualClassification bool
}

// Taxonomy bundles the two lookup tables a classifier needs.
type Taxonomy struct {
	Nodes         []Node
	Consultations []ConsultationMapping
}

// Default returns the fixed production taxonomy.
func Default() *Taxonomy {
	return &Taxonomy{
		Nodes:         defaultNodes,
		Consultations: defaultConsultations,
	}
}

var defaultNodes = []Node{
	{
		Main: model.MainBeauty,
		Sub:  "外科",
		Procedures: []string{
			"二重埋没", "二重切開", "目頭切開", "たれ目形成", "クマ取り",
			"糸リフト", "小顔脂肪吸引", "脂肪吸引", "豊胸", "鼻プロテーゼ",
		},
	},
	{
		Main: model.MainBeauty,
		Sub:  "皮膚科",
		Procedures: []string{
			"ボトックス", "ヒアルロン酸", "水光注射", "ダーマペン",
			"ピーリング", "シミ取りレーザー", "イオン導入", "アートメイク",
		},
	},
	{
		Main: model.MainBeauty,
		Sub:  "脱毛",
		Procedures: []string{
			"脱毛", "全身脱毛", "顔脱毛", "VIO脱毛", "ワキ脱毛",
		},
	},
	{
		Main: model.MainOther,
		Sub:  "ピアス",
		Procedures: []string{
			"ピアス", "軟骨ピアス",
		},
	},
	{
		Main: model.MainOther,
		Sub:  "物販",
		Procedures: []string{
			"物販", "化粧品", "サプリメント", "ホームケア用品",
		},
	},
	{
		Main: model.MainOther,
		Sub:  "麻酔",
		Procedures: []string{
			"麻酔", "笑気麻酔", "麻酔クリーム",
		},
	},
}

var defaultConsultations = []ConsultationMapping{
	{Name: "二重のご相談", Specialty: SpecialtySurgery, Subcategory: "二重"},
	{Name: "目元のご相談", Specialty: SpecialtySurgery, Subcategory: "目元"},
	{Name: "クマ取りのご相談", Specialty: SpecialtySurgery, Subcategory: "クマ取り"},
	{Name: "糸リフトのご相談", Specialty: SpecialtySurgery, Subcategory: "リフト"},
	{Name: "小顔のご相談", Specialty: SpecialtySurgery, Subcategory: "小顔"},
	{Name: "脂肪吸引のご相談", Specialty: SpecialtySurgery, Subcategory: "痩身"},
	{Name: "豊胸のご相談", Specialty: SpecialtySurgery, Subcategory: "豊胸"},
	{Name: "鼻のご相談", Specialty: SpecialtySurgery, Subcategory: "鼻"},
	{Name: "輪郭のご相談", Specialty: SpecialtySurgery, Subcategory: "輪郭", RequiresManualClassification: true},
	{Name: "ボトックスのご相談", Specialty: SpecialtyDermatology, Subcategory: "注入"},
	{Name: "ヒアルロン酸のご相談", Specialty: SpecialtyDermatology, Subcategory: "注入"},
	{Name: "水光注射のご相談", Specialty: SpecialtyDermatology, Subcategory: "注入"},
	{Name: "シミのご相談", Specialty: SpecialtyDermatology, Subcategory: "シミ"},
	{Name: "ニキビのご相談", Specialty: SpecialtyDermatology, Subcategory: "ニキビ"},
	{Name: "肌のご相談", Specialty: SpecialtyDermatology, Subcategory: "スキンケア", RequiresManualClassification: true},
	{Name: "ダーマペンのご相談", Specialty: SpecialtyDermatology, Subcategory: "ダーマペン"},
	{Name: "ピーリングのご相談", Specialty: SpecialtyDermatology, Subcategory: "ピーリング"},
	{Name: "アートメイクのご相談", Specialty: SpecialtyDermatology, Subcategory: "アートメイク"},
	{Name: "脱毛のご相談", Specialty: SpecialtyHairRemoval, Subcategory: "脱毛"},
	{Name: "全身脱毛のご相談", Specialty: SpecialtyHairRemoval, Subcategory: "脱毛"},
	{Name: "医療脱毛のご相談", Specialty: SpecialtyHairRemoval, Subcategory: "脱毛"},
	{Name: "メンズ脱毛のご相談", Specialty: SpecialtyHairRemoval, Subcategory: "脱毛"},
	{Name: "ピアスのご相談", Specialty: SpecialtyOther, Subcategory: "ピアス"},
	{Name: "物販のご相談", Specialty: SpecialtyOther, Subcategory: "物販"},
	{Name: "その他のご相談", Specialty: SpecialtyOther, Subcategory: "その他", RequiresManualClassification: true},
}

// mainForSpecialty resolves a consultation specialty to its main category.
func mainForSpecialty(specialty string) string {
	switch specialty {
	case SpecialtySurgery, SpecialtyDermatology, SpecialtyHairRemoval:
		return model.MainBeauty
	default:
		return model.MainOther
	}
}
