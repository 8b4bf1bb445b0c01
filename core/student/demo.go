package student

import (
	"time"

	"github.com/google/uuid"

	"github.com/ToluGIT/loop/core/grade"
)

// demoNamespace roots the name-based UUIDs of the demo cohort so that seeding is repeatable.
var demoNamespace = uuid.MustParse("5b1c2b8e-3f5e-4c55-9a57-6c4d1f0f7a10")

type (
	demoModule struct {
		code, name     string
		credits, level int
		assessments    []demoAssessment
	}

	demoAssessment struct {
		name   string
		weight float64
	}

	demoStudent struct {
		name, email, course string
		year                int
		grades              map[string]map[string]float64 // module code -> assessment name -> score
		modules             []string
	}
)

var demoModules = []demoModule{
	{code: "CMM525", name: "Software Development 3", credits: 15, level: 5, assessments: []demoAssessment{
		{"Coursework 1 - Web App", 0.5}, {"Coursework 2 - Group Project", 0.5},
	}},
	{code: "CMM526", name: "Database Systems", credits: 15, level: 5, assessments: []demoAssessment{
		{"Coursework - Schema Design", 0.4}, {"Final Exam", 0.6},
	}},
	{code: "CMM527", name: "Interaction Design", credits: 15, level: 5, assessments: []demoAssessment{
		{"UX Portfolio", 0.6}, {"Exam", 0.4},
	}},
	{code: "CMM528", name: "Network Security", credits: 15, level: 6, assessments: []demoAssessment{
		{"Coursework - Penetration Testing Report", 0.5}, {"Final Exam", 0.5},
	}},
	{code: "CMM529", name: "Cloud Computing", credits: 15, level: 6, assessments: []demoAssessment{
		{"Coursework - Cloud Architecture", 0.6}, {"Final Exam", 0.4},
	}},
	{code: "CMM530", name: "Artificial Intelligence", credits: 15, level: 6, assessments: []demoAssessment{
		{"Coursework - ML Project", 0.5}, {"Final Exam", 0.5},
	}},
	{code: "CMM507", name: "Computing Research Methods", credits: 15, level: 6, assessments: []demoAssessment{
		{"Literature Review", 0.3}, {"Research Proposal", 0.4}, {"Statistical Analysis", 0.3},
	}},
	{code: "CMM531", name: "Honours Project", credits: 30, level: 6, assessments: []demoAssessment{
		{"Dissertation", 0.7}, {"Presentation", 0.15}, {"Viva", 0.15},
	}},
}

var demoStudents = []demoStudent{
	{
		name: "Alex Chen", email: "a.chen@rgu.ac.uk", course: "BSc (Hons) Computer Science", year: 3,
		modules: []string{"CMM525", "CMM526", "CMM527", "CMM528", "CMM529", "CMM530"},
		grades: map[string]map[string]float64{
			"CMM525": {"Coursework 1 - Web App": 72, "Coursework 2 - Group Project": 68},
			"CMM526": {"Coursework - Schema Design": 65},
			"CMM527": {"UX Portfolio": 58},
			"CMM528": {"Coursework - Penetration Testing Report": 71},
			"CMM529": {"Coursework - Cloud Architecture": 62},
		},
	},
	{
		name: "Sarah MacDonald", email: "s.macdonald@rgu.ac.uk", course: "BSc (Hons) Cyber Security", year: 3,
		modules: []string{"CMM525", "CMM526", "CMM528", "CMM529", "CMM530", "CMM507"},
		grades: map[string]map[string]float64{
			"CMM525": {"Coursework 1 - Web App": 55, "Coursework 2 - Group Project": 61},
			"CMM526": {"Coursework - Schema Design": 78},
			"CMM528": {"Coursework - Penetration Testing Report": 82},
			"CMM529": {"Coursework - Cloud Architecture": 74},
			"CMM530": {"Coursework - ML Project": 45},
			"CMM507": {"Literature Review": 68},
		},
	},
	{
		name: "Jamie Wilson", email: "j.wilson@rgu.ac.uk", course: "BSc (Hons) Digital Media", year: 3,
		modules: []string{"CMM525", "CMM527", "CMM529", "CMM530", "CMM507", "CMM531"},
		grades: map[string]map[string]float64{
			"CMM525": {"Coursework 1 - Web App": 48, "Coursework 2 - Group Project": 52},
			"CMM527": {"UX Portfolio": 85, "Exam": 76},
			"CMM507": {"Literature Review": 42},
		},
	},
	{
		name: "Priya Sharma", email: "p.sharma@rgu.ac.uk", course: "BSc (Hons) Computer Science", year: 3,
		modules: []string{"CMM525", "CMM526", "CMM528", "CMM529", "CMM530", "CMM531"},
		grades: map[string]map[string]float64{
			"CMM525": {"Coursework 1 - Web App": 88, "Coursework 2 - Group Project": 92},
			"CMM526": {"Coursework - Schema Design": 85, "Final Exam": 79},
			"CMM528": {"Coursework - Penetration Testing Report": 76},
			"CMM529": {"Coursework - Cloud Architecture": 81},
			"CMM530": {"Coursework - ML Project": 73},
			"CMM531": {"Dissertation": 78},
		},
	},
	{
		name: "Calum Fraser", email: "c.fraser@rgu.ac.uk", course: "BSc (Hons) Computer Science", year: 3,
		modules: []string{"CMM525", "CMM526", "CMM527", "CMM528", "CMM529", "CMM507"},
		grades: map[string]map[string]float64{
			"CMM525": {"Coursework 1 - Web App": 62, "Coursework 2 - Group Project": 58},
			"CMM526": {"Coursework - Schema Design": 55},
			"CMM527": {"UX Portfolio": 51},
		},
	},
}

func demoID(parts ...string) string {
	name := ""
	for _, p := range parts {
		name += "/" + p
	}
	return uuid.NewSHA1(demoNamespace, []byte(name)).String()
}

// DemoCohort builds the demo students. IDs are stable across calls; students are created
// a second apart starting at createdAt, in a fixed order.
func DemoCohort(createdAt time.Time) []Student {
	templates := make(map[string]demoModule, len(demoModules))
	for _, dm := range demoModules {
		templates[dm.code] = dm
	}

	students := make([]Student, 0, len(demoStudents))
	for i, ds := range demoStudents {
		s := Student{
			ID:        demoID(ds.email),
			Name:      ds.name,
			Email:     ds.email,
			Course:    ds.course,
			Year:      ds.year,
			CreatedAt: createdAt.Add(time.Duration(i) * time.Second).UTC(),
			Modules:   make([]grade.Module, 0, len(ds.modules)),
		}
		for _, code := range ds.modules {
			dm, ok := templates[code]
			if !ok {
				continue
			}
			mod := grade.Module{
				ID:          demoID(ds.email, dm.code),
				Code:        dm.code,
				Name:        dm.name,
				Credits:     dm.credits,
				Level:       dm.level,
				Assessments: make([]grade.Assessment, 0, len(dm.assessments)),
			}
			for _, da := range dm.assessments {
				a := grade.Assessment{
					ID:     demoID(ds.email, dm.code, da.name),
					Name:   da.name,
					Weight: da.weight,
				}
				if score, ok := ds.grades[code][da.name]; ok {
					a.Grade = &grade.Grade{Score: score}
				}
				mod.Assessments = append(mod.Assessments, a)
			}
			s.Modules = append(s.Modules, mod)
		}
		SortModules(s.Modules)
		students = append(students, s)
	}
	return students
}
