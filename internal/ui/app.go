package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/whalewatch/engine/internal/feed"
)

// App is the TUI application: the live feed table plus a status bar that
// surfaces the last sync time and any fetch error.
type App struct {
	app    *tview.Application
	layout *tview.Flex

	feedView  *FeedView
	statusBar *tview.TextView

	sync   *feed.Synchronizer
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI. The synchronizer's update callback must be wired
// to this app via OnUpdate before Run.
func NewApp(sync *feed.Synchronizer, thresholds feed.BucketThresholds) *App {
	ctx, cancel := context.WithCancel(context.Background())

	statusBar := tview.NewTextView().SetDynamicColors(true)
	statusBar.SetBorder(true).SetTitle(" Status ")

	a := &App{
		app:       tview.NewApplication(),
		feedView:  NewFeedView(thresholds),
		statusBar: statusBar,
		sync:      sync,
		ctx:       ctx,
		cancel:    cancel,
	}

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.feedView.Widget(), 0, 1, false).
		AddItem(a.statusBar, 3, 0, false)

	a.app.SetRoot(a.layout, true)
	a.setupKeyboard()

	return a
}

// OnUpdate returns the callback to hand to the synchronizer. It repaints
// the feed on the UI goroutine.
func (a *App) OnUpdate() func([]feed.TradeViewModel) {
	return func(trades []feed.TradeViewModel) {
		a.app.QueueUpdateDraw(func() {
			a.feedView.SetTrades(trades)
			a.updateStatus()
		})
	}
}

// setupKeyboard configures keyboard shortcuts.
func (a *App) setupKeyboard() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				a.Stop()
				return nil
			case 'r', 'R':
				go a.sync.Refresh(a.ctx)
				return nil
			}
		}
		return event
	})
}

// Run starts the TUI (blocking) and the periodic status repaint.
func (a *App) Run(refreshRate time.Duration) error {
	go a.statusLoop(refreshRate)

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}
	return nil
}

// Stop tears the application down.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// statusLoop repaints the status bar so "last sync" ages visibly even when
// no new data arrives.
func (a *App) statusLoop(refreshRate time.Duration) {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.updateStatus)
		}
	}
}

// updateStatus renders the synchronizer status, including a visible error
// indicator when the last cycle failed.
func (a *App) updateStatus() {
	status := a.sync.Status()

	lastSync := "never"
	if !status.LastSync.IsZero() {
		lastSync = fmt.Sprintf("%.0fs ago", time.Since(status.LastSync).Seconds())
	}

	text := fmt.Sprintf("Trades: %d | Last sync: %s", status.TradeCount, lastSync)
	if status.LastError != "" {
		text += fmt.Sprintf(" | [red]error: %s[-]", tview.Escape(status.LastError))
	} else {
		text += " | [green]ok[-]"
	}

	a.statusBar.SetText(text)
}
