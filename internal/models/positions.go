package models

import "strings"

// Unit is the side of the ball a position belongs to.
type Unit string

const (
	UnitOffense      Unit = "Offense"
	UnitDefense      Unit = "Defense"
	UnitSpecialTeams Unit = "Special Teams"
	UnitUnknown      Unit = "Unknown"
)

// PositionGroup is the room a position belongs to.
type PositionGroup string

const (
	GroupQuarterback   PositionGroup = "Quarterback"
	GroupBackfield     PositionGroup = "Backfield"
	GroupReceivers     PositionGroup = "Receivers"
	GroupOffensiveLine PositionGroup = "Offensive Line"
	GroupDefensiveLine PositionGroup = "Defensive Line"
	GroupLinebackers   PositionGroup = "Linebackers"
	GroupSecondary     PositionGroup = "Secondary"
	GroupSpecialists   PositionGroup = "Specialists"
	GroupUnknown       PositionGroup = "Unknown"
)

var positionGroups = map[string]PositionGroup{
	"QB":   GroupQuarterback,
	"RB":   GroupBackfield,
	"FB":   GroupBackfield,
	"WR":   GroupReceivers,
	"TE":   GroupReceivers,
	"OL":   GroupOffensiveLine,
	"IOL":  GroupOffensiveLine,
	"OT":   GroupOffensiveLine,
	"LT":   GroupOffensiveLine,
	"RT":   GroupOffensiveLine,
	"OG":   GroupOffensiveLine,
	"G":    GroupOffensiveLine,
	"C":    GroupOffensiveLine,
	"DL":   GroupDefensiveLine,
	"DE":   GroupDefensiveLine,
	"DT":   GroupDefensiveLine,
	"NT":   GroupDefensiveLine,
	"EDGE": GroupDefensiveLine,
	"LB":   GroupLinebackers,
	"ILB":  GroupLinebackers,
	"OLB":  GroupLinebackers,
	"CB":   GroupSecondary,
	"S":    GroupSecondary,
	"FS":   GroupSecondary,
	"SS":   GroupSecondary,
	"K":    GroupSpecialists,
	"P":    GroupSpecialists,
	"LS":   GroupSpecialists,
}

// GroupForPosition maps a roster position code to its group. Multi-position
// strings like "DE,OLB" use the first listed position.
func GroupForPosition(position string) PositionGroup {
	primary := strings.TrimSpace(strings.Split(position, ",")[0])
	if g, ok := positionGroups[strings.ToUpper(primary)]; ok {
		return g
	}
	return GroupUnknown
}

func (g PositionGroup) Unit() Unit {
	switch g {
	case GroupQuarterback, GroupBackfield, GroupReceivers, GroupOffensiveLine:
		return UnitOffense
	case GroupDefensiveLine, GroupLinebackers, GroupSecondary:
		return UnitDefense
	case GroupSpecialists:
		return UnitSpecialTeams
	default:
		return UnitUnknown
	}
}

// ParseUnit accepts "offense", "defense", "special", "st" and similar.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "o", "off", "offense":
		return UnitOffense, true
	case "d", "def", "defense":
		return UnitDefense, true
	case "st", "special", "specialteams", "special-teams", "special teams":
		return UnitSpecialTeams, true
	}
	return UnitUnknown, false
}
