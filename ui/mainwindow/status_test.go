package mainwindow

import (
	"errors"
	"testing"

	"screen-slicer/internal/export"

	"github.com/stretchr/testify/assert"
)

func TestTransformStatus(t *testing.T) {
	assert.Equal(t, "Grey area: 12.5% | all screens covered", transformStatus(0.125, []bool{true, true}))
	assert.Equal(t, "Grey area: 0.0% | not covered: screen 1, 3", transformStatus(0, []bool{false, true, false}))
}

func TestExportStatus(t *testing.T) {
	ok := export.Result{Screen: 1}
	bad := export.Result{Screen: 2, Err: errors.New("boom")}
	assert.Equal(t, "Exported 2 screens", exportStatus([]export.Result{ok, ok}))
	assert.Equal(t, "Exported 1 of 2 screens", exportStatus([]export.Result{ok, bad}))
	assert.Len(t, failedErrors(export.Failed([]export.Result{ok, bad})), 1)
}
