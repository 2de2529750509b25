package course

import (
	"fmt"
	"strings"
)

const lessonsPerModule = 4

type moduleSpec struct {
	name    string
	lessons []string
}

var (
	courses = []Course{
		{
			ID:          "c1",
			Title:       "Commercial Real Estate",
			Category:    "Commercial",
			Level:       "Advanced",
			Duration:    "4.5 hours",
			LessonCount: 12,
			Description: "Master high-yield investment strategies for large-scale office and retail spaces.",
			ImageURL:    "https://lh3.googleusercontent.com/aida-public/AB6AXuBRgnCa1CwDOyDr-p4MqjqjQwdTFXEsinYHAy7m3O3S7qu78SJ8RdZuqFh-l4NFG00cW4d2K5YSCYpmeojFaOlLdBEqYnI32UmzLP18upaSMQHTpVyoGJWvWibrz9_VRM1Zr9blhuKvPPX_s1WA5Vt3ViLOUNhUZ028nBItJsO7KvOnsE73jfP1QJQ1u-XnzwsokYYDPgHEjdNdLe_zI_xkVabN4in8s2tw4ttTS0DA_ewNs304m8YugTLRhDCEfwsT6tTIdIQyuIc",
			Tag:         "Growth Phase",
		},
		{
			ID:          "c2",
			Title:       "Fix and Flip Mastery",
			Category:    "Residential",
			Level:       "Intermediate",
			Duration:    "6 hours",
			LessonCount: 18,
			Description: "Master the art of rapid property renovation and resale for profit.",
			ImageURL:    "https://lh3.googleusercontent.com/aida-public/AB6AXuBl_FTXGPJ1G0O7TuDOsLmmWGC6dy_H75jOuwZGLi3_00RxRxguMGzhz6GY7g1EkQo18G3NANxD9hjvD2UTWg5KPjXKSyYN4PhwL2fS_B7nUpb0vrf31gHmuODub5ee0EW153f97z8rn7B4cBHGVVrzVxn8moaO9LpjyZF5sXInWQ1aEwn-jBglbX4T3eEhnLtk5lK8bJeOVL4q9hJZ_Grp9rEXWjnTJBs1aw_no_-56sj7vCpK0fwXHEV3sH0PFwchjhFtdCwNhFg",
			Tag:         "Renovation",
		},
		{
			ID:          "c3",
			Title:       "Buy-to-Let Basics",
			Category:    "Residential",
			Level:       "Beginner",
			Duration:    "3 hours",
			LessonCount: 8,
			Description: "The fundamental roadmap to passive income through residential rentals.",
			ImageURL:    "https://lh3.googleusercontent.com/aida-public/AB6AXuD8QWDSGSzlP-Nz4TwOCFXyLIUbfzuAkcvmlEnkIadhcDitsj1VBRz82vDPBBsyJfyzJSNu19AXD2rlFEy_5VkJ0BmBLQbL9wpbHPkk1fD0U2slbtvH4XiX1tuM71-Fd_1CGU3Ef-uAjYnk78a-oer_Otym2mmmh32Mf4epex4jCwBeJ28JXUCGxM3bViTmTENnqPhB8cLUzXCGO8z7dM2AoA2X16IJRiRANstn0W5PajnRHeT-Z6U8iMzaHp2gr9r6f2BlEuTiuc0",
			Tag:         "Foundations",
			Rating:      4.9,
			ReviewCount: 421,
		},
	}

	// lesson titles per course, grouped by module
	curricula = map[string][]moduleSpec{
		"c1": {
			{"Commercial Fundamentals", []string{"Asset Classes Explained", "Reading a Rent Roll", "Cap Rates and Valuation", "Lease Structures"}},
			{"Office and Retail", []string{"Grade A vs Grade B Offices", "Retail Footfall Analysis", "Tenant Covenant Strength", "Service Charge Recovery"}},
			{"Financing and Exit", []string{"Commercial Lending Criteria", "Debt Service Coverage", "Value-Add Repositioning", "Planning the Exit"}},
		},
		"c2": {
			{"Finding the Flip", []string{"What Makes a Flip", "Sourcing Distressed Stock", "Comparable Sales", "The 70% Rule"}},
			{"Budgeting the Works", []string{"Scoping a Renovation", "Contractor Quotes", "Contingency Planning", "Permits and NOCs"}},
			{"Running the Project", []string{"Project Scheduling", "Managing Trades", "Quality Control", "Avoiding Overspend"}},
			{"Selling for Profit", []string{"Staging for Sale", "Pricing Strategy", "Working with Agents", "Negotiating Offers"}},
			{"Scaling Up", []string{"Reviewing Your First Flip", "Building a Deal Pipeline"}},
		},
		"c3": {
			{"Rental Foundations", []string{"Why Buy-to-Let", "Yield vs Capital Growth", "Choosing a Community", "Identifying Growth Suburbs"}},
			{"Letting and Managing", []string{"Setting the Rent", "Ejari and Tenancy Contracts", "Property Managers", "Planning for Voids"}},
		},
	}

	tracks = []Track{
		{
			ID:           "t1",
			Title:        "The BRRRR Method",
			Category:     "Strategy",
			Duration:     "4 Hours",
			ModulesCount: 12,
			Description:  "Buy, Rehab, Rent, Refinance, Repeat. The ultimate scale strategy.",
			Icon:         "rebase_edit",
			Steps: []Step{
				{ID: "s1", Title: "Buy: Finding the Deal", Description: "Master the art of locating off-market properties and analyzing ROI potential."},
				{ID: "s2", Title: "Rehab: Adding Value", Description: "Learn how to increase property value through strategic renovations."},
				{ID: "s3", Title: "Rent: Finding Tenants", Description: "Systematize your property management and screening processes."},
				{ID: "s4", Title: "Refinance: Pulling Equity", Description: "Work with lenders to appraise your renovated asset."},
				{ID: "s5", Title: "Repeat: Scaling Portfolio", Description: "Using recovered capital to purchase your next investment."},
			},
		},
		{
			ID:           "t2",
			Title:        "Flipping for Beginners",
			Category:     "Development",
			Duration:     "3 Hours",
			ModulesCount: 8,
			Description:  "Master the art of rapid property renovation and resale for profit.",
			Icon:         "house_siding",
			Steps: []Step{
				{ID: "s1", Title: "Source: Spotting the Opportunity", Description: "Find under-priced units with clear renovation upside."},
				{ID: "s2", Title: "Renovate: Controlling the Budget", Description: "Scope, quote and run the works without overspending."},
				{ID: "s3", Title: "Resell: Pricing the Exit", Description: "Stage, price and negotiate to lock in your margin."},
			},
		},
		{
			ID:           "t3",
			Title:        "Commercial Conversions",
			Category:     "Advanced",
			Duration:     "6 Hours",
			ModulesCount: 15,
			Description:  "Transforming tired office spaces into high-yield residential apartments.",
			Icon:         "apartment",
			Steps: []Step{
				{ID: "s1", Title: "Acquire: Underwriting Offices", Description: "Assess structure, zoning and conversion feasibility."},
				{ID: "s2", Title: "Approve: Change of Use", Description: "Navigate master developer and authority approvals."},
				{ID: "s3", Title: "Convert: Delivering Units", Description: "Manage the fit-out of residential apartments."},
				{ID: "s4", Title: "Stabilize: Leasing Up", Description: "Let the units and refinance on the stabilized value."},
			},
		},
	}

	lessons = buildLessons()
)

// buildLessons lays out each curriculum in lesson order. Lesson ids are "<courseID>-l<number>".
func buildLessons() map[string][]Lesson {
	all := make(map[string][]Lesson, len(curricula))
	for _, c := range courses {
		var list []Lesson
		for m, mod := range curricula[c.ID] {
			for _, title := range mod.lessons {
				n := len(list) + 1
				id := fmt.Sprintf("%s-l%d", c.ID, n)
				list = append(list, Lesson{
					ID:           id,
					CourseID:     c.ID,
					ModuleID:     fmt.Sprintf("%s-m%d", c.ID, m+1),
					ModuleName:   mod.name,
					ModuleNumber: m + 1,
					Title:        title,
					LessonNumber: n,
					Duration:     fmt.Sprintf("%d:%02d", 12+(n*7)%14, (n*17)%60),
					VideoURL:     fmt.Sprintf("https://videos.startsmart.property/%s/%s.mp4", c.ID, id),
					Summary: fmt.Sprintf(
						"In this lesson of %s, we cover %s: the data to look at, the mistakes to avoid "+
							"and how it applies to the 2026 Dubai market.", c.Title, strings.ToLower(title)),
					Resources: []Resource{
						{Name: title + " - Workbook", Size: "1.2 MB", Type: "pdf"},
						{Name: "Deal Analyzer Template", Size: "240 KB", Type: "xlsx"},
					},
				})
			}
		}
		for i := range list {
			list[i].TotalLessons = len(list)
		}
		all[c.ID] = list
	}
	return all
}

// Courses returns the catalog courses.
func Courses() []Course {
	res := make([]Course, len(courses))
	copy(res, courses)
	return res
}

// Tracks returns the investment roadmaps.
func Tracks() []Track {
	res := make([]Track, len(tracks))
	copy(res, tracks)
	return res
}

func findCourse(id string) (Course, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

func findTrack(id string) (Track, bool) {
	for _, t := range tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// findLesson returns the lesson and its index in the course.
func findLesson(courseID, lessonID string) (Lesson, int, bool) {
	for i, l := range lessons[courseID] {
		if l.ID == lessonID {
			return l, i, true
		}
	}
	return Lesson{}, 0, false
}

// HasProgressKey reports whether progress can be tracked for id, a course or a track.
func HasProgressKey(id string) bool {
	if _, ok := findCourse(id); ok {
		return true
	}
	_, ok := findTrack(id)
	return ok
}
