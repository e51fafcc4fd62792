package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/andrescamacho/idleprofit-go/pkg/utils"
)

// Filter narrows a leaderboard. Zero values disable each criterion.
type Filter struct {
	Name          string  `json:"name,omitempty"`
	Project       string  `json:"project,omitempty"`
	MinProfitRate float64 `json:"minProfitRate,omitempty"` // percent
	MaxRisk       float64 `json:"maxRisk,omitempty"`
	BanEquipment  bool    `json:"banEquipment,omitempty"`
	BanJewelry    bool    `json:"banJewelry,omitempty"`
	BanCharm      bool    `json:"banCharm,omitempty"`
}

// SortOrder is the direction of the secondary sort
type SortOrder string

const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// Sort orders rows by profit per hour, then optionally by Field
type Sort struct {
	Field string    `json:"field,omitempty"`
	Order SortOrder `json:"order,omitempty"`
}

// Page selects a 1-based window of rows
type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// sortFields maps a sortable column to its value
var sortFields = map[string]func(Row) float64{
	"profitPH":        func(r Row) float64 { return r.ProfitPH },
	"profitPD":        func(r Row) float64 { return r.ProfitPerDay() },
	"profitRate":      func(r Row) float64 { return r.ProfitRate },
	"profitPerAction": func(r Row) float64 { return r.ProfitPerAction },
	"costPH":          func(r Row) float64 { return r.CostPH },
	"incomePH":        func(r Row) float64 { return r.IncomePH },
	"actionsPH":       func(r Row) float64 { return r.ActionsPH },
	"timeCost":        func(r Row) float64 { return r.TimeCost },
	"successRate":     func(r Row) float64 { return r.SuccessRate },
	"actionLevel":     func(r Row) float64 { return float64(r.ActionLevel) },
	"risk":            func(r Row) float64 { return r.Risk },
}

// SortFields lists the accepted Sort.Field values
func SortFields() []string {
	out := make([]string, 0, len(sortFields))
	for name := range sortFields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Search keeps the rows matching every enabled criterion, preserving order
func Search(rows []Row, filter Filter) ([]Row, error) {
	var project *regexp.Regexp
	if filter.Project != "" {
		re, err := regexp.Compile(filter.Project)
		if err != nil {
			return nil, fmt.Errorf("invalid project pattern: %w", err)
		}
		project = re
	}
	name := strings.ToLower(filter.Name)

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		switch {
		case name != "" && !strings.Contains(strings.ToLower(row.Name), name):
		case project != nil && !project.MatchString(row.Project):
		case filter.BanEquipment && row.Equipment:
		case filter.BanJewelry && row.Jewelry:
		case filter.BanCharm && row.Charm:
		case filter.MinProfitRate != 0 && row.ProfitRate < filter.MinProfitRate/100:
		case filter.MaxRisk > 0 && !(row.Risk <= filter.MaxRisk):
		default:
			out = append(out, row)
		}
	}
	return out, nil
}

// SortRows orders rows by descending profit per hour, then stably by the requested field
func SortRows(rows []Row, order Sort) error {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProfitPH > rows[j].ProfitPH
	})
	if order.Field == "" || order.Order == "" {
		return nil
	}

	value, ok := sortFields[order.Field]
	if !ok {
		return fmt.Errorf("unknown sort field %q", order.Field)
	}
	switch order.Order {
	case Ascending:
		sort.SliceStable(rows, func(i, j int) bool { return less(value(rows[i]), value(rows[j])) })
	case Descending:
		sort.SliceStable(rows, func(i, j int) bool { return less(value(rows[j]), value(rows[i])) })
	default:
		return fmt.Errorf("unknown sort order %q", order.Order)
	}
	return nil
}

// less orders NaN after every number
func less(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

// Paginate returns rows [(n-1)*size, n*size) and the total before paging
func Paginate(rows []Row, page Page) ([]Row, int) {
	total := len(rows)
	if page.Size <= 0 {
		return rows, total
	}
	number := max(page.Number, 1)
	start := utils.Clamp((number-1)*page.Size, 0, total)
	end := utils.Clamp(number*page.Size, 0, total)
	return rows[start:end], total
}
