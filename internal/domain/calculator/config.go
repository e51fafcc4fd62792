package calculator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/idleprofit-go/internal/domain/gamedata"
	"github.com/andrescamacho/idleprofit-go/internal/domain/player"
	"github.com/andrescamacho/idleprofit-go/internal/domain/shared"
)

// Kind identifies a calculator variant
type Kind string

const (
	KindTransmute   Kind = "transmute"
	KindDecompose   Kind = "decompose"
	KindCoinify     Kind = "coinify"
	KindManufacture Kind = "manufacture"
	KindGather      Kind = "gather"
	KindEnhance     Kind = "enhance"
	KindWorkflow    Kind = "workflow"
)

// NoEscape disables the escape mechanic of an enhancement
const NoEscape = -1

// defaultProjects are the display names used when a config leaves Project empty
var defaultProjects = map[Kind]string{
	KindTransmute:   "Transmute",
	KindDecompose:   "Decompose",
	KindCoinify:     "Coinify",
	KindManufacture: "Manufacture",
	KindGather:      "Gather",
	KindEnhance:     "Enhance",
	KindWorkflow:    "Workflow",
}

// PriceConfig pins the price of the entry at the same position of an ingredient or product list.
// Immutable prices take precedence over market and manual prices.
type PriceConfig struct {
	Hrid      string  `json:"hrid"`
	Immutable bool    `json:"immutable"`
	Price     float64 `json:"price"`
}

// ZeroPrice is the immutable zero used for intermediate goods inside a workflow
func ZeroPrice(hrid string) *PriceConfig {
	return &PriceConfig{Hrid: hrid, Immutable: true, Price: 0}
}

// Config is the flat, serializable description of one calculator
type Config struct {
	Kind             Kind           `json:"kind" validate:"required,oneof=transmute decompose coinify manufacture gather enhance"`
	Hrid             string         `json:"hrid" validate:"required,startswith=/items/"`
	Project          string         `json:"project,omitempty"`
	Action           string         `json:"action,omitempty"`
	CatalystRank     int            `json:"catalystRank,omitempty" validate:"min=0,max=2"`
	EnhanceLevel     int            `json:"enhanceLevel,omitempty" validate:"min=0,max=20"`
	OriginLevel      int            `json:"originLevel,omitempty" validate:"min=0,max=20"`
	ProtectLevel     int            `json:"protectLevel,omitempty" validate:"min=0,max=21"`
	EscapeLevel      int            `json:"escapeLevel" validate:"min=-1,max=20"`
	IngredientPrices []*PriceConfig `json:"ingredientPrices,omitempty"`
	ProductPrices    []*PriceConfig `json:"productPrices,omitempty"`
}

var validate = validator.New()

// Validate checks the config shape; missing game data is not an error
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return shared.NewValidationError(fe.Field(), fmt.Sprintf("failed validation: %s (value: '%v')", fe.Tag(), fe.Value()))
		}
		return err
	}

	switch c.Kind {
	case KindManufacture, KindGather:
		if c.Action == "" {
			return shared.NewValidationError("Action", "required for "+string(c.Kind))
		}
	case KindEnhance:
		if c.EscapeLevel != NoEscape && c.EscapeLevel >= c.OriginLevel {
			return shared.NewValidationError("EscapeLevel", "must be below the origin level")
		}
	}
	return nil
}

// Clone returns a deep copy so price configs can be rewritten without aliasing
func (c Config) Clone() Config {
	out := c
	out.IngredientPrices = clonePrices(c.IngredientPrices)
	out.ProductPrices = clonePrices(c.ProductPrices)
	return out
}

// ProjectName returns the configured project or the variant's default display name
func (c Config) ProjectName() string {
	if c.Project != "" {
		return c.Project
	}
	return defaultProjects[c.Kind]
}

// ActionType returns the action type the calculator runs under
func (c Config) ActionType() string {
	switch c.Kind {
	case KindTransmute, KindDecompose, KindCoinify:
		return "alchemy"
	case KindEnhance:
		return "enhancing"
	}
	return c.Action
}

// Key is a stable identity of the whole config, used for duplicate detection
func (c Config) Key() string {
	data, err := json.Marshal(c)
	if err != nil {
		return c.Hrid
	}
	return string(data)
}

// BuildID joins the identifying parts of a calculator
func BuildID(hrid, project, action string) string {
	return strings.Join([]string{hrid, project, action}, "-")
}

func clonePrices(in []*PriceConfig) []*PriceConfig {
	if in == nil {
		return nil
	}
	out := make([]*PriceConfig, len(in))
	for i, p := range in {
		if p != nil {
			cp := *p
			out[i] = &cp
		}
	}
	return out
}

// withPriceAt returns a copy of list with position i set, padding with nils
func withPriceAt(list []*PriceConfig, i int, price *PriceConfig) []*PriceConfig {
	out := clonePrices(list)
	for len(out) <= i {
		out = append(out, nil)
	}
	out[i] = price
	return out
}

// InferAction fills an empty Action of a manufacture or gather config with the
// first action type whose catalog has a recipe for the item, naming the project
// after the action when none is set. Other configs are returned unchanged.
func InferAction(catalog gamedata.Catalog, c Config) Config {
	if c.Action != "" || catalog == nil || (c.Kind != KindManufacture && c.Kind != KindGather) {
		return c
	}
	key := gamedata.Key(c.Hrid)
	if c.Kind == KindGather {
		key = GatherActionKey(key)
	}
	for _, action := range player.AllActionTypes {
		if _, ok := catalog.Action(gamedata.ActionHrid(string(action), key)); ok {
			c.Action = string(action)
			if c.Project == "" {
				c.Project = strings.ToUpper(c.Action[:1]) + c.Action[1:]
			}
			return c
		}
	}
	return c
}
