package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/idleprofit-go/internal/domain/calculator"
)

// BreakdownNode is one line of a calculation breakdown
type BreakdownNode struct {
	Label    string
	Detail   string
	Manual   bool
	Profit   *float64
	Children []*BreakdownNode
}

// TreeFormatter renders calculation breakdowns as indented trees
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// NewBreakdown builds the tree of one calculation: the result line with its
// priced ingredients and products underneath, then each workflow stage
func NewBreakdown(result calculator.Result, ingredients, products []calculator.PricedEntry, stages []calculator.Result) *BreakdownNode {
	profit := result.ProfitPH
	root := &BreakdownNode{
		Label:  result.Name,
		Detail: fmt.Sprintf("%s, %s/h, %s actions/h", result.Project, formatAmount(result.ProfitPH), formatAmount(result.ActionsPH)),
		Manual: result.HasManualPrice,
		Profit: &profit,
	}
	root.Children = append(root.Children,
		entriesNode("Ingredients", ingredients),
		entriesNode("Products", products),
	)

	if len(stages) > 0 {
		stagesNode := &BreakdownNode{Label: "Stages"}
		for i, stage := range stages {
			stageProfit := stage.ProfitPH
			stagesNode.Children = append(stagesNode.Children, &BreakdownNode{
				Label:  fmt.Sprintf("%d. %s", i+1, stage.Name),
				Detail: fmt.Sprintf("%s, %s actions/h", stage.Project, formatAmount(stage.ActionsPH)),
				Manual: stage.HasManualPrice,
				Profit: &stageProfit,
			})
		}
		root.Children = append(root.Children, stagesNode)
	}
	return root
}

func entriesNode(label string, entries []calculator.PricedEntry) *BreakdownNode {
	node := &BreakdownNode{Label: label}
	for _, e := range entries {
		name := shortHrid(e.Hrid)
		if e.Level > 0 {
			name = fmt.Sprintf("%s +%d", name, e.Level)
		}
		detail := fmt.Sprintf("%.4g x %s, %s/h", e.Count, formatAmount(e.Price), formatAmount(e.CountPH*e.Price))
		if e.Rate > 0 && e.Rate < 1 {
			detail += fmt.Sprintf(", %s chance", formatPercent(e.Rate))
		}
		if e.Pinned {
			detail += ", pinned"
		}
		node.Children = append(node.Children, &BreakdownNode{Label: name, Detail: detail, Manual: e.Manual})
	}
	return node
}

// FormatTree renders a breakdown with box-drawing branches
func (f *TreeFormatter) FormatTree(root *BreakdownNode) string {
	if root == nil {
		return "(empty breakdown)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *BreakdownNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	line := linePrefix + f.colorFor(node) + node.Label + f.colorReset()
	if node.Detail != "" {
		line += " [" + node.Detail + "]"
	}
	if node.Manual {
		line += " *"
	}
	builder.WriteString(line + "\n")

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

// colorFor returns the ANSI color of a node: green or red by profit, yellow for manual prices
func (f *TreeFormatter) colorFor(node *BreakdownNode) string {
	if !f.useColors {
		return ""
	}
	switch {
	case node.Profit != nil && *node.Profit >= 0:
		return "\033[32m"
	case node.Profit != nil:
		return "\033[31m"
	case node.Manual:
		return "\033[33m"
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}
