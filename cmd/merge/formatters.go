package merge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Taichi-iskw/arena-merge/internal/model"
	mergeSvc "github.com/Taichi-iskw/arena-merge/internal/service/merge"
)

// Formatter defines interface for output formatting
type Formatter interface {
	FormatOutcome(outcome *model.MergeOutcome, run *model.MergeRun) (string, error)
	FormatPlan(plan *mergeSvc.MergePlan) (string, error)
}

// TextFormatter formats output as human-readable text
type TextFormatter struct{}

// FormatOutcome formats a merge outcome as text
func (f *TextFormatter) FormatOutcome(outcome *model.MergeOutcome, run *model.MergeRun) (string, error) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	var output strings.Builder

	output.WriteString(fmt.Sprintf("%s %s into %s\n",
		cyan("Merged"), channelLabel(outcome.Source), channelLabel(outcome.Destination)))

	if len(outcome.Copied) == 0 {
		output.WriteString("Nothing to copy: every source block is already in the destination\n")
	}
	for i, c := range outcome.Copied {
		if c.Succeeded {
			output.WriteString(fmt.Sprintf("  %s [%d] %s\n", green("✓"), i+1, blockLabel(c.Block)))
			continue
		}
		output.WriteString(fmt.Sprintf("  %s [%d] %s: %s\n", red("✗"), i+1, blockLabel(c.Block), c.Error))
	}

	copied := len(outcome.Copied) - outcome.Failed()
	summary := fmt.Sprintf("Copied %d of %d blocks", copied, len(outcome.Copied))
	if outcome.Partial() {
		summary = yellow(summary)
	}
	output.WriteString(summary + "\n")

	switch {
	case !outcome.DeleteRequested:
	case outcome.SourceDeleted:
		output.WriteString(fmt.Sprintf("Source channel %s deleted\n", outcome.Source.Slug))
	case outcome.DeleteError != "":
		output.WriteString(red(fmt.Sprintf("Source channel %s not deleted: %s", outcome.Source.Slug, outcome.DeleteError)) + "\n")
	default:
		output.WriteString(yellow(fmt.Sprintf("Source channel %s kept because some copies failed", outcome.Source.Slug)) + "\n")
	}

	if run != nil {
		output.WriteString(fmt.Sprintf("History run: %s\n", run.ID))
	}

	return output.String(), nil
}

// FormatPlan formats a merge plan as text
func (f *TextFormatter) FormatPlan(plan *mergeSvc.MergePlan) (string, error) {
	yellow := color.New(color.FgYellow).SprintFunc()

	var output strings.Builder

	output.WriteString(fmt.Sprintf("%s merge %s into %s\n",
		yellow("DRY RUN:"), channelLabel(plan.Source), channelLabel(plan.Destination)))
	output.WriteString(fmt.Sprintf("Destination blocks: %d\n", plan.DestinationSize))
	output.WriteString(fmt.Sprintf("Source blocks: %d\n", plan.SourceSize))
	output.WriteString(fmt.Sprintf("Blocks to copy: %d\n", len(plan.Blocks)))

	for i, b := range plan.Blocks {
		output.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, blockLabel(b)))
	}

	return output.String(), nil
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// FormatOutcome formats a merge outcome as JSON
func (f *JSONFormatter) FormatOutcome(outcome *model.MergeOutcome, run *model.MergeRun) (string, error) {
	type Output struct {
		*model.MergeOutcome
		RunID string `json:"run_id,omitempty"`
	}

	output := Output{MergeOutcome: outcome}
	if run != nil {
		output.RunID = run.ID
	}

	return marshal(output)
}

// FormatPlan formats a merge plan as JSON
func (f *JSONFormatter) FormatPlan(plan *mergeSvc.MergePlan) (string, error) {
	return marshal(plan)
}

func marshal(v any) (string, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(jsonBytes) + "\n", nil
}

// GetFormatter returns the appropriate formatter based on format string
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func channelLabel(ref model.ChannelRef) string {
	if ref.Title != "" && ref.Title != ref.Slug {
		return fmt.Sprintf("%q (%s)", ref.Title, ref.Slug)
	}
	return ref.Slug
}

// blockLabel is the title, or the start of the content for untitled blocks
func blockLabel(b model.Block) string {
	if b.Title != "" {
		return b.Title
	}
	return truncateString(strings.ReplaceAll(b.Content, "\n", " "), 60)
}

// truncateString truncates a string to maxLen runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
