package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
	"github.com/andrescamacho/idleprofit-go/internal/infrastructure/config"
)

const itemPrefix = "/items/"

// loadPreferences reads the user preferences, falling back to empty ones
func loadPreferences() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	prefs, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return prefs
}

// normalizeHrid accepts "cheese", "items/cheese" or "/items/cheese"
func normalizeHrid(item string) string {
	item = strings.TrimSpace(item)
	if strings.HasPrefix(item, itemPrefix) {
		return item
	}
	return itemPrefix + strings.TrimPrefix(item, "items/")
}

// parseStage parses a calculator spec of the form kind:item[,key=value...].
// Accepted keys are action, project, catalyst, target, protect, origin and escape.
//
// Examples:
//
//	coinify:holy_cheese
//	transmute:milk,catalyst=1
//	gather:milk,action=milking
//	enhance:cheese_sword,target=5,protect=3,escape=2
func parseStage(spec string) (calculator.Config, error) {
	head, options, _ := strings.Cut(spec, ",")
	kind, item, ok := strings.Cut(head, ":")
	if !ok || kind == "" || item == "" {
		return calculator.Config{}, fmt.Errorf("invalid stage %q: expected kind:item", spec)
	}

	cfg := calculator.Config{
		Kind:        calculator.Kind(strings.ToLower(kind)),
		Hrid:        normalizeHrid(item),
		EscapeLevel: calculator.NoEscape,
	}
	if options == "" {
		return cfg, nil
	}

	for _, option := range strings.Split(options, ",") {
		key, value, ok := strings.Cut(option, "=")
		if !ok {
			return calculator.Config{}, fmt.Errorf("invalid option %q in stage %q: expected key=value", option, spec)
		}
		if err := applyStageOption(&cfg, strings.ToLower(key), value); err != nil {
			return calculator.Config{}, fmt.Errorf("stage %q: %w", spec, err)
		}
	}
	return cfg, nil
}

func applyStageOption(cfg *calculator.Config, key, value string) error {
	switch key {
	case "action":
		cfg.Action = value
		return nil
	case "project":
		cfg.Project = value
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("option %s: %q is not a number", key, value)
	}
	switch key {
	case "catalyst":
		cfg.CatalystRank = n
	case "target":
		cfg.EnhanceLevel = n
	case "protect":
		cfg.ProtectLevel = n
	case "origin":
		cfg.OriginLevel = n
	case "escape":
		cfg.EscapeLevel = n
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

// parseStages parses every stage spec of a workflow
func parseStages(specs []string) ([]calculator.Config, error) {
	configs := make([]calculator.Config, 0, len(specs))
	for _, spec := range specs {
		cfg, err := parseStage(spec)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// shortHrid strips the item prefix for display
func shortHrid(hrid string) string {
	return strings.TrimPrefix(hrid, itemPrefix)
}

// formatAmount prints large values with k/M suffixes
func formatAmount(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', 2, 64) + "B"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 2, 64) + "M"
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
}

// formatPercent prints a ratio as a percentage
func formatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 2, 64) + "%"
}

// formatRisk prints risk, with infinite risk shown as a dash
func formatRisk(risk float64) string {
	if math.IsInf(risk, 0) || math.IsNaN(risk) {
		return "-"
	}
	return strconv.FormatFloat(risk, 'f', 2, 64)
}

// titleCase upper-cases the first letter of an ASCII word
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
