package spotrac

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmurley/capbot/internal/models"
	"github.com/shopspring/decimal"
)

type SearchResult struct {
	Type          string
	PlayerResults []PlayerSearchResult
	ErrorMessage  string
}

type PlayerSearchResult struct {
	Name     string
	Team     string
	Position string
	URL      string
	ID       string
}

// ContractInfo is the current NFL contract shown on a Spotrac player page.
type ContractInfo struct {
	PlayerName    string
	Team          string
	Position      string
	ContractTerms string
	TotalValue    string
	AverageSalary string
	SigningBonus  string
	Guaranteed    string
	FreeAgent     string
	ContractNotes []string
	ContractYears []ContractYear
}

// ContractYear is one row of the cap table.
type ContractYear struct {
	Year          int
	Age           int
	Status        string
	BaseSalary    decimal.Decimal
	ProratedBonus decimal.Decimal
	OtherBonuses  decimal.Decimal // roster, workout and incentive bonuses
	CapHit        decimal.Decimal
	DeadCap       decimal.Decimal
}

var searchQueryRe = regexp.MustCompile(`"([^"]+)"`)

func ParseSearchResults(body io.Reader) (*SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	searchQuery := ""
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		text := s.Text()
		if strings.Contains(text, "Search Results for") {
			if matches := searchQueryRe.FindStringSubmatch(text); len(matches) > 1 {
				searchQuery = matches[1]
			}
		}
	})

	var results []PlayerSearchResult
	doc.Find("a.list-group-item").Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || !strings.Contains(href, "/player/") {
			return
		}

		name := strings.TrimSpace(s.Find("span.text-danger").Text())

		// "Patrick Mahomes (Kansas City Chiefs)"
		fullText := strings.TrimSpace(s.Find("span").First().Text())
		team := ""
		if start, end := strings.LastIndex(fullText, "("), strings.LastIndex(fullText, ")"); start != -1 && end > start {
			team = fullText[start+1 : end]
		}

		results = append(results, PlayerSearchResult{
			Name:     name,
			Team:     team,
			Position: strings.TrimSpace(s.Find("span.badge").Text()),
			URL:      href,
			ID:       playerIDFromURL(href),
		})
	})

	resultType := "none"
	if len(results) == 1 {
		resultType = "single"
	} else if len(results) > 1 {
		resultType = "multiple"
	}

	errorMessage := ""
	if resultType == "none" && searchQuery != "" {
		errorMessage = fmt.Sprintf("No players found matching '%s'", searchQuery)
	}

	return &SearchResult{
		Type:          resultType,
		PlayerResults: results,
		ErrorMessage:  errorMessage,
	}, nil
}

// playerIDFromURL handles both /player/_/id/1234/name and /player/1234 forms.
func playerIDFromURL(href string) string {
	if idx := strings.Index(href, "?"); idx != -1 {
		href = href[:idx]
	}
	parts := strings.Split(href, "/")
	for i, part := range parts {
		if part == "id" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	for i, part := range parts {
		if part == "player" && i+1 < len(parts) && parts[i+1] != "_" {
			return parts[i+1]
		}
	}
	return ""
}

func ParseContractInfo(body io.Reader) (*ContractInfo, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	info := &ContractInfo{}

	title := doc.Find("title").Text()
	if strings.Contains(title, "|") {
		info.PlayerName = strings.TrimSpace(strings.Split(title, "|")[0])
	}
	info.Position = strings.TrimSpace(doc.Find("div.player-details span.position").First().Text())

	// The current deal is the wrapper marked (CURRENT), else the first one.
	wrappers := doc.Find("div.contract-wrapper")
	current := wrappers.First()
	wrappers.EachWithBreak(func(i int, w *goquery.Selection) bool {
		if strings.Contains(w.Find("h2").Text(), "(CURRENT)") {
			current = w
			return false
		}
		return true
	})

	current.Find("div.contract-details div.cell").Each(func(j int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("div.label").Text())
		value := strings.TrimSpace(s.Find("div.value").Text())

		switch label {
		case "Contract Terms:":
			info.ContractTerms = value
		case "Average Salary:":
			info.AverageSalary = value
		case "Signing Bonus:":
			info.SigningBonus = value
		case "Total Guaranteed:", "Guaranteed at Signing:":
			if info.Guaranteed == "" {
				info.Guaranteed = value
			}
		case "Free Agent:":
			info.FreeAgent = value
		}
	})

	// "4 yr(s) / $106,000,000"
	if parts := strings.Split(info.ContractTerms, "/"); len(parts) >= 2 {
		info.TotalValue = strings.TrimSpace(parts[1])
	}

	// "... signed a 10 year, $450,000,000 contract with the Kansas City Chiefs, including ..."
	metaDesc := doc.Find("meta[name='description']").AttrOr("content", "")
	if parts := strings.SplitN(metaDesc, "with the ", 2); len(parts) == 2 {
		team := parts[1]
		if idx := strings.IndexAny(team, ",."); idx > 0 {
			team = team[:idx]
		}
		info.Team = strings.TrimSpace(team)
	}

	current.Find("div.notes ul li").Each(func(i int, s *goquery.Selection) {
		if note := strings.TrimSpace(s.Text()); note != "" {
			info.ContractNotes = append(info.ContractNotes, note)
		}
	})

	current.Find("table").EachWithBreak(func(tableIdx int, table *goquery.Selection) bool {
		cols := capTableColumns(table)
		if cols.year < 0 || cols.capHit < 0 {
			return true
		}

		table.Find("tbody tr").Each(func(rowIdx int, row *goquery.Selection) {
			year := ContractYear{}
			row.Find("td").Each(func(cellIdx int, cell *goquery.Selection) {
				text := strings.TrimSpace(cell.Text())
				switch cellIdx {
				case cols.year:
					year.Year, _ = strconv.Atoi(firstField(text))
				case cols.age:
					year.Age, _ = strconv.Atoi(text)
				case cols.status:
					year.Status = text
				case cols.base:
					year.BaseSalary = money(text)
				case cols.prorated:
					year.ProratedBonus = money(text)
				case cols.capHit:
					year.CapHit = money(text)
				case cols.deadCap:
					year.DeadCap = money(text)
				default:
					if cols.other[cellIdx] {
						year.OtherBonuses = year.OtherBonuses.Add(money(text))
					}
				}
			})
			if year.Year > 0 {
				info.ContractYears = append(info.ContractYears, year)
			}
		})
		return false
	})

	if len(info.ContractYears) == 0 {
		return info, fmt.Errorf("no cap table found for %q", info.PlayerName)
	}
	return info, nil
}

type columns struct {
	year, age, status, base, prorated, capHit, deadCap int
	other                                              map[int]bool
}

func capTableColumns(table *goquery.Selection) columns {
	cols := columns{year: -1, age: -1, status: -1, base: -1, prorated: -1, capHit: -1, deadCap: -1, other: map[int]bool{}}

	table.Find("thead th").Each(func(i int, s *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(s.Text()))
		switch {
		case header == "year":
			cols.year = i
		case header == "age":
			cols.age = i
		case header == "status":
			cols.status = i
		case strings.Contains(header, "base"):
			cols.base = i
		case strings.Contains(header, "prorated") || strings.Contains(header, "signing"):
			cols.prorated = i
		case strings.Contains(header, "roster") || strings.Contains(header, "workout") || strings.Contains(header, "incentive"):
			cols.other[i] = true
		case strings.Contains(header, "cap hit"):
			cols.capHit = i
		case strings.Contains(header, "dead"):
			cols.deadCap = i
		}
	})
	return cols
}

func firstField(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// money treats "-" and unparseable cells as zero.
func money(s string) decimal.Decimal {
	d, err := models.ParseMoney(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToContract converts the cap table into a contract as of the given season.
// The bonus pool is the prorated bonus still to come; whatever dead cap the
// pool does not explain is treated as guaranteed salary.
func (ci *ContractInfo) ToContract(season int) (models.Contract, error) {
	var (
		current *ContractYear
		years   int
		pool    = decimal.Zero
	)
	for i := range ci.ContractYears {
		y := &ci.ContractYears[i]
		if y.Year < season || strings.EqualFold(y.Status, "void") {
			continue
		}
		if y.Year == season {
			current = y
		}
		years++
		pool = pool.Add(y.ProratedBonus)
	}
	if current == nil {
		return models.Contract{}, models.Preconditionf("%s has no contract year for %d", ci.PlayerName, season)
	}

	guaranteed := decimal.Max(current.DeadCap.Sub(pool), decimal.Zero)
	guaranteed = decimal.Min(guaranteed, current.BaseSalary)

	c := models.Contract{
		PlayerID:         models.PlayerSlug(ci.PlayerName),
		PlayerName:       ci.PlayerName,
		Position:         ci.Position,
		Age:              current.Age,
		BaseSalary:       current.BaseSalary,
		GuaranteedSalary: guaranteed,
		UnamortizedBonus: pool,
		Incentives:       current.OtherBonuses,
		YearsRemaining:   years,
		Status:           models.StatusActive,
	}
	return c, c.Validate()
}
