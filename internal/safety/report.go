package safety

import (
	"fmt"
	"strings"
)

const reportRule = "================================================================================"

// Report renders a human-readable summary of a validation result.
func Report(result Result) string {
	var b strings.Builder

	status := "UNSAFE"
	if result.IsSafe {
		status = "SAFE"
	}

	childSafe := "No"
	if result.ChildSafe {
		childSafe = "Yes"
	}

	fmt.Fprintln(&b, reportRule)
	fmt.Fprintln(&b, "CONTENT SAFETY VALIDATION REPORT")
	fmt.Fprintln(&b, reportRule)
	fmt.Fprintf(&b, "Overall Safety Status: %s\n", status)
	fmt.Fprintf(&b, "Safety Score: %.2f%%\n", result.SafetyScore*100)
	fmt.Fprintf(&b, "Child Safe: %s\n", childSafe)
	fmt.Fprintln(&b)

	if len(result.Violations) > 0 {
		fmt.Fprintln(&b, "VIOLATIONS DETECTED:")
		for _, violation := range result.Violations {
			fmt.Fprintf(&b, "  - %s\n", violation)
		}
		fmt.Fprintln(&b)
	}

	if len(result.CategoriesFlagged) > 0 {
		fmt.Fprintln(&b, "FLAGGED CATEGORIES:")
		for _, category := range result.CategoriesFlagged {
			fmt.Fprintf(&b, "  - %s\n", titleCase(category))
		}
		fmt.Fprintln(&b)
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintln(&b, "RECOMMENDATIONS:")
		for _, rec := range result.Recommendations {
			fmt.Fprintf(&b, "  > %s\n", rec)
		}
		fmt.Fprintln(&b)
	}

	fmt.Fprintln(&b, reportRule)

	return b.String()
}

// titleCase converts a snake_case category name to spaced title case.
func titleCase(category string) string {
	words := strings.Split(category, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
