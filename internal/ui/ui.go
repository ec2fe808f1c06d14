package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/sokinpui/sift/diff"
	"github.com/sokinpui/sift/model"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)

	addedColor   = color.New(color.FgGreen)
	deletedColor = color.New(color.FgRed)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

// PrintDiff writes one file's diff to stdout in a unified-style layout.
// Change blocks are labelled so their ids can be referred to in review.
func PrintDiff(path string, entries []diff.Entry) {
	stats := diff.Count(entries)
	HeaderColor.Printf("--- %s (+%d -%d, %d block(s)) ---\n", path, stats.AddedLines, stats.DeletedLines, stats.Blocks)
	for _, e := range entries {
		switch e.Type {
		case diff.Added:
			addedColor.Printf("+ %s\n", e.Content)
		case diff.Deleted:
			deletedColor.Printf("- %s\n", e.Content)
		default:
			fmt.Printf("  %s\n", e.Content)
		}
	}
}

// PrintSummary reports the outcome of a run.
func PrintSummary(s model.Summary) {
	Header("\n--- Summary ---")

	if s.Message != "" {
		Info("%s", s.Message)
	}
	if len(s.Applied) == 0 && len(s.Skipped) == 0 && len(s.Failed) == 0 && s.Message == "" {
		Info("Nothing to do.")
		return
	}

	if len(s.Applied) > 0 {
		Success("Applied %d file(s):", len(s.Applied))
		for _, f := range s.Applied {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(s.Skipped) > 0 {
		Warning("Skipped %d file(s):", len(s.Skipped))
		for _, f := range s.Skipped {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(s.Failed) > 0 {
		Error("Failed to process %d file(s):", len(s.Failed))
		for _, f := range s.Failed {
			fmt.Printf("  - %s\n", f)
		}
	}
}
