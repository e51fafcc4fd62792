package gamedata

import (
	"fmt"
	"sort"
)

// Catalog is the read-only accessor the calculators use to reach reference data
type Catalog interface {
	Item(hrid string) (*Item, bool)
	Items() []*Item
	Action(hrid string) (*Action, bool)
	Actions() []*Action
	ShopItemFor(itemHrid string) (*ShopItem, bool)
	LootDrops(hrid string) ([]DropTableItem, bool)
	EnhanceSuccessRate(level int) (float64, bool)
	ProcessingProduct(hrid string) (string, bool)
}

// Document mirrors the layout of the game-rules feed
type Document struct {
	ItemDetailMap                    map[string]Item            `json:"itemDetailMap"`
	ActionDetailMap                  map[string]Action          `json:"actionDetailMap"`
	ShopItemDetailMap                map[string]ShopItem        `json:"shopItemDetailMap"`
	OpenableLootDropMap              map[string][]DropTableItem `json:"openableLootDropMap"`
	EnhancementLevelSuccessRateTable []float64                  `json:"enhancementLevelSuccessRateTable"`
	GameVersion                      string                     `json:"gameVersion"`
}

// Snapshot is an immutable, indexed view of one game-rules document
type Snapshot struct {
	items        map[string]*Item
	sortedItems  []*Item
	actions      map[string]*Action
	sortedAction []*Action
	shopByItem   map[string]*ShopItem
	lootDrops    map[string][]DropTableItem
	enhanceRates []float64
	processing   map[string]string
	version      string
}

// NewSnapshot indexes a decoded game-rules document
func NewSnapshot(doc Document) (*Snapshot, error) {
	if len(doc.ItemDetailMap) == 0 {
		return nil, ErrEmptySnapshot
	}

	s := &Snapshot{
		items:        make(map[string]*Item, len(doc.ItemDetailMap)),
		actions:      make(map[string]*Action, len(doc.ActionDetailMap)),
		shopByItem:   make(map[string]*ShopItem, len(doc.ShopItemDetailMap)),
		lootDrops:    make(map[string][]DropTableItem, len(doc.OpenableLootDropMap)),
		enhanceRates: append([]float64(nil), doc.EnhancementLevelSuccessRateTable...),
		processing:   make(map[string]string),
		version:      doc.GameVersion,
	}

	for key, item := range doc.ItemDetailMap {
		item := item
		if item.Hrid == "" {
			item.Hrid = key
		}
		if item.Hrid == "" {
			return nil, fmt.Errorf("%w: empty hrid", ErrInvalidItem)
		}
		s.items[item.Hrid] = &item
		s.sortedItems = append(s.sortedItems, &item)
	}
	sort.Slice(s.sortedItems, func(i, j int) bool {
		if s.sortedItems[i].SortIndex != s.sortedItems[j].SortIndex {
			return s.sortedItems[i].SortIndex < s.sortedItems[j].SortIndex
		}
		return s.sortedItems[i].Hrid < s.sortedItems[j].Hrid
	})

	for key, action := range doc.ActionDetailMap {
		action := action
		if action.Hrid == "" {
			action.Hrid = key
		}
		if action.Hrid == "" {
			return nil, fmt.Errorf("%w: empty hrid", ErrInvalidAction)
		}
		s.actions[action.Hrid] = &action
		s.sortedAction = append(s.sortedAction, &action)
	}
	sort.Slice(s.sortedAction, func(i, j int) bool {
		return s.sortedAction[i].Hrid < s.sortedAction[j].Hrid
	})

	for _, shop := range doc.ShopItemDetailMap {
		shop := shop
		s.shopByItem[shop.ItemHrid] = &shop
	}

	for hrid, drops := range doc.OpenableLootDropMap {
		s.lootDrops[hrid] = append([]DropTableItem(nil), drops...)
	}

	s.indexProcessing()
	return s, nil
}

// indexProcessing maps each gathered resource to the resource its single-input processing recipe yields
func (s *Snapshot) indexProcessing() {
	for _, action := range s.sortedAction {
		if !processingActionTypes[action.Type] || action.UpgradeItemHrid != "" {
			continue
		}
		if len(action.InputItems) != 1 || len(action.OutputItems) != 1 {
			continue
		}
		input, ok := s.items[action.InputItems[0].ItemHrid]
		if !ok || input.CategoryHrid != CategoryResource {
			continue
		}
		output, ok := s.items[action.OutputItems[0].ItemHrid]
		if !ok || output.CategoryHrid != CategoryResource {
			continue
		}
		if _, exists := s.processing[input.Hrid]; !exists {
			s.processing[input.Hrid] = action.OutputItems[0].ItemHrid
		}
	}
}

func (s *Snapshot) Item(hrid string) (*Item, bool) {
	item, ok := s.items[hrid]
	return item, ok
}

// Items returns every item ordered by sort index
func (s *Snapshot) Items() []*Item {
	out := make([]*Item, len(s.sortedItems))
	copy(out, s.sortedItems)
	return out
}

func (s *Snapshot) Action(hrid string) (*Action, bool) {
	action, ok := s.actions[hrid]
	return action, ok
}

// Actions returns every action ordered by hrid
func (s *Snapshot) Actions() []*Action {
	out := make([]*Action, len(s.sortedAction))
	copy(out, s.sortedAction)
	return out
}

func (s *Snapshot) ShopItemFor(itemHrid string) (*ShopItem, bool) {
	shop, ok := s.shopByItem[itemHrid]
	return shop, ok
}

func (s *Snapshot) LootDrops(hrid string) ([]DropTableItem, bool) {
	drops, ok := s.lootDrops[hrid]
	return drops, ok
}

// EnhanceSuccessRate returns the base success probability of an attempt made at the given level
func (s *Snapshot) EnhanceSuccessRate(level int) (float64, bool) {
	if level < 0 || level >= len(s.enhanceRates) {
		return 0, false
	}
	return s.enhanceRates[level], true
}

func (s *Snapshot) ProcessingProduct(hrid string) (string, bool) {
	product, ok := s.processing[hrid]
	return product, ok
}

// Version returns the game version the snapshot was built from
func (s *Snapshot) Version() string {
	return s.version
}

// Len returns the number of items in the snapshot
func (s *Snapshot) Len() int {
	return len(s.items)
}
