package scheduler

import "strings"

// Campus keys.
const (
	CampusBusch         = "Busch"
	CampusLivingston    = "Livingston"
	CampusCollegeAvenue = "College Avenue"
	CampusCookDouglass  = "Cook/Douglass"
	CampusOnline        = "Online"
)

// Campuses lists the physical campuses in display order.
var Campuses = []string{CampusBusch, CampusLivingston, CampusCollegeAvenue, CampusCookDouglass}

var campusAliases = map[string]string{
	"busch":          CampusBusch,
	"livingston":     CampusLivingston,
	"livi":           CampusLivingston,
	"college avenue": CampusCollegeAvenue,
	"college ave":    CampusCollegeAvenue,
	"ca":             CampusCollegeAvenue,
	"cook/douglass":  CampusCookDouglass,
	"c/d":            CampusCookDouglass,
	"cd":             CampusCookDouglass,
	"cook":           CampusCookDouglass,
	"douglass":       CampusCookDouglass,
	"online":         CampusOnline,
	"remote":         CampusOnline,
}

// NormalizeCampus maps catalog spellings ("College Ave", "C/D") to campus keys.
// Unknown names are returned trimmed but otherwise unchanged.
func NormalizeCampus(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if key, ok := campusAliases[strings.ToLower(trimmed)]; ok {
		return key
	}
	return trimmed
}

// SameCampus reports whether two catalog campus names denote one campus.
func SameCampus(a, b string) bool {
	return a == b || NormalizeCampus(a) == NormalizeCampus(b)
}

// PrefersCampus reports whether campus is one of the preferred campuses.
func PrefersCampus(preferred []string, campus string) bool {
	for _, p := range preferred {
		if SameCampus(p, campus) {
			return true
		}
	}
	return false
}

type campusPair struct{ a, b string }

func pairOf(x, y string) campusPair {
	if x > y {
		x, y = y, x
	}
	return campusPair{a: x, b: y}
}

// commuteTable holds bus travel minutes keyed by unordered campus pair.
var commuteTable = map[campusPair]int{
	pairOf(CampusBusch, CampusLivingston):           10,
	pairOf(CampusBusch, CampusCollegeAvenue):        15,
	pairOf(CampusBusch, CampusCookDouglass):         25,
	pairOf(CampusLivingston, CampusCollegeAvenue):   15,
	pairOf(CampusLivingston, CampusCookDouglass):    25,
	pairOf(CampusCollegeAvenue, CampusCookDouglass): 15,
}

// CommuteMinutes returns the travel time between two campuses. Same or
// unknown pairs cost nothing.
func CommuteMinutes(from, to string) int {
	a, b := NormalizeCampus(from), NormalizeCampus(to)
	if a == b {
		return 0
	}
	return commuteTable[pairOf(a, b)]
}
