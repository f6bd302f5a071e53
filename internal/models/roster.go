package models

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ContractList is a slice of contracts with roster helpers.
type ContractList []Contract

// OnRoster returns Active and Tagged contracts.
func (cl ContractList) OnRoster() ContractList {
	var filtered ContractList
	for _, c := range cl {
		if c.Status.OnRoster() {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FilterByStatus returns contracts in the given status
func (cl ContractList) FilterByStatus(status Status) ContractList {
	var filtered ContractList
	for _, c := range cl {
		if c.Status == status {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// FilterByPosition matches a position code or a group alias like "OL", "DB" or "DL".
func (cl ContractList) FilterByPosition(position string) ContractList {
	posUpper := strings.ToUpper(strings.TrimSpace(position))

	compositePositions := map[string]PositionGroup{
		"OL":  GroupOffensiveLine,
		"DL":  GroupDefensiveLine,
		"DB":  GroupSecondary,
		"LB":  GroupLinebackers,
		"ST":  GroupSpecialists,
		"REC": GroupReceivers,
	}

	var filtered ContractList
	for _, c := range cl {
		if group, ok := compositePositions[posUpper]; ok {
			if c.Group() == group {
				filtered = append(filtered, c)
			}
			continue
		}
		for _, pos := range strings.Split(strings.ToUpper(c.Position), ",") {
			if strings.TrimSpace(pos) == posUpper {
				filtered = append(filtered, c)
				break
			}
		}
	}
	return filtered
}

func (cl ContractList) FilterByUnit(unit Unit) ContractList {
	var filtered ContractList
	for _, c := range cl {
		if c.Group().Unit() == unit {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// SearchByName returns contracts whose player name contains the search string
func (cl ContractList) SearchByName(search string) ContractList {
	var matches ContractList
	searchLower := strings.ToLower(strings.TrimSpace(search))

	for _, c := range cl {
		if strings.Contains(strings.ToLower(c.PlayerName), searchLower) {
			matches = append(matches, c)
		}
	}
	return matches
}

// FindByExactName returns all contracts with an exact name match (case-insensitive)
func (cl ContractList) FindByExactName(name string) ContractList {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	var matches ContractList

	for _, c := range cl {
		if strings.ToLower(c.PlayerName) == nameLower {
			matches = append(matches, c)
		}
	}
	return matches
}

// SortByCapHit sorts by cap hit, largest first. Ties keep roster order.
func (cl ContractList) SortByCapHit() {
	sort.SliceStable(cl, func(i, j int) bool {
		return cl[i].CapHit().GreaterThan(cl[j].CapHit())
	})
}

func (cl ContractList) SortByDeadCap() {
	sort.SliceStable(cl, func(i, j int) bool {
		return cl[i].DeadCap().GreaterThan(cl[j].DeadCap())
	})
}

func (cl ContractList) SortByAge() {
	sort.SliceStable(cl, func(i, j int) bool {
		return cl[i].Age < cl[j].Age
	})
}

func (cl ContractList) SortByName() {
	sort.SliceStable(cl, func(i, j int) bool {
		return cl[i].PlayerName < cl[j].PlayerName
	})
}

// TopCapHits returns the n largest cap hits without reordering the receiver.
func (cl ContractList) TopCapHits(n int) ContractList {
	sorted := make(ContractList, len(cl))
	copy(sorted, cl)
	sorted.SortByCapHit()

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

func (cl ContractList) TotalCapHit() decimal.Decimal {
	total := decimal.Zero
	for _, c := range cl {
		total = total.Add(c.CapHit())
	}
	return total
}

func (cl ContractList) TotalDeadCap() decimal.Decimal {
	total := decimal.Zero
	for _, c := range cl {
		total = total.Add(c.DeadCap())
	}
	return total
}

// GroupByUnit returns a map of unit to contracts
func (cl ContractList) GroupByUnit() map[Unit]ContractList {
	grouped := make(map[Unit]ContractList)
	for _, c := range cl {
		unit := c.Group().Unit()
		grouped[unit] = append(grouped[unit], c)
	}
	return grouped
}
