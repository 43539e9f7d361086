package mainwindow

import (
	"fmt"
	"strings"

	"screen-slicer/internal/app"
	"screen-slicer/internal/export"
	"screen-slicer/internal/screen"
)

func configuredStatus(specs []screen.Spec) string {
	if len(specs) == 1 {
		return "1 screen configured. Load an image or drag the screen into place."
	}
	return fmt.Sprintf("%d screens configured. Load an image or drag the screens into place.", len(specs))
}

func imageStatus(sn app.Snapshot) string {
	return fmt.Sprintf("Loaded %s (%dx%d)", sn.ImageName, int(sn.Native.Width), int(sn.Native.Height))
}

// transformStatus summarises grey area and which screens the image misses.
func transformStatus(greyRatio float64, covered []bool) string {
	var missing []string
	for i, ok := range covered {
		if !ok {
			missing = append(missing, fmt.Sprintf("%d", i+1))
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Grey area: %.1f%%", greyRatio*100)
	if len(missing) == 0 {
		b.WriteString(" | all screens covered")
	} else {
		fmt.Fprintf(&b, " | not covered: screen %s", strings.Join(missing, ", "))
	}
	return b.String()
}

func exportStatus(results []export.Result) string {
	failed := len(export.Failed(results))
	if failed == 0 {
		return fmt.Sprintf("Exported %d screens", len(results))
	}
	return fmt.Sprintf("Exported %d of %d screens", len(results)-failed, len(results))
}

func failedErrors(results []export.Result) []error {
	errs := make([]error, 0, len(results))
	for _, r := range results {
		errs = append(errs, r.Err)
	}
	return errs
}
