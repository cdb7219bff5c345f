package session

import (
	iv "github.com/abhisek/sheetcoach/internal/interview"
	"github.com/abhisek/sheetcoach/internal/screen"
	"github.com/abhisek/sheetcoach/internal/screens/summary"
)

// newSummaryScreenAdapter creates the summary screen for a completed interview.
func newSummaryScreenAdapter(ctrl *iv.Controller, reportDir string) screen.Screen {
	return summary.New(ctrl, reportDir)
}
