package ui

import (
	"Stopwatch/internal/logging"
	"Stopwatch/internal/models"
	"Stopwatch/internal/stopwatch"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
)

const noSessions = "No sessions yet"

const (
	rangeToday   = "Today"
	rangeWeek    = "This Week"
	rangeMonth   = "This Month"
	rangeAllTime = "All Time"
)

// HistoryStore 历史页需要的存储操作
type HistoryStore interface {
	GetSessionStats(startDate, endDate time.Time) (*models.SessionStats, error)
	RecentSessions(limit int) ([]*models.SessionRecord, error)
	DeleteSession(id string) error
	ClearSessions() error
}

// historyRow 最近记录的一行，带删除按钮
type historyRow struct {
	id        string
	label     *widget.Label
	deleteBtn *widget.Button
}

type HistoryView struct {
	container  *fyne.Container
	store      HistoryStore
	logger     *log.Logger
	parent     fyne.Window
	recent     int
	now        func() time.Time
	dateRange  *widget.Select
	statsLabel *widget.Label
	recentBox  *fyne.Container
	rows       []*historyRow
	refreshBtn *widget.Button
	clearBtn   *widget.Button
}

func NewHistoryView(store HistoryStore, parent fyne.Window, recent int, logger *log.Logger) *HistoryView {
	if logger == nil {
		logger = logging.Discard()
	}
	hv := &HistoryView{
		store:      store,
		logger:     logger,
		parent:     parent,
		recent:     recent,
		now:        time.Now,
		statsLabel: widget.NewLabel(""),
		recentBox:  container.NewVBox(),
	}
	hv.setup()
	return hv
}

func (hv *HistoryView) setup() {
	title := widget.NewLabelWithStyle("History", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	hv.refreshBtn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), hv.Refresh)

	hv.clearBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		if hv.parent == nil {
			hv.clear()
			return
		}
		dialog.ShowConfirm("Clear history", "Delete all recorded sessions?", func(ok bool) {
			if ok {
				hv.clear()
			}
		}, hv.parent)
	})

	hv.dateRange = widget.NewSelect(
		[]string{rangeToday, rangeWeek, rangeMonth, rangeAllTime},
		func(selected string) {
			hv.updateStats(selected)
		},
	)

	toolbar := container.NewHBox(
		widget.NewLabel("Time Range:"),
		hv.dateRange,
		hv.refreshBtn,
		hv.clearBtn,
	)

	header := container.NewVBox(
		title,
		toolbar,
		widget.NewLabelWithStyle("Summary", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		hv.statsLabel,
		widget.NewLabelWithStyle("Recent Sessions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	hv.container = container.NewBorder(header, nil, nil, nil, container.NewVScroll(hv.recentBox))

	// 设置默认选中值并更新统计
	hv.dateRange.SetSelected(rangeToday)
}

func (hv *HistoryView) Container() *fyne.Container {
	return hv.container
}

// Refresh 按当前选中的时间范围重新统计
func (hv *HistoryView) Refresh() {
	hv.updateStats(hv.dateRange.Selected)
}

func (hv *HistoryView) updateStats(selected string) {
	if selected == "" {
		return
	}
	start, end := rangeFor(selected, hv.now())

	stats, err := hv.store.GetSessionStats(start, end)
	if err != nil {
		hv.logger.Error("failed to load session stats", "range", selected, "error", err)
		return
	}
	hv.statsLabel.SetText(formatStats(stats))

	records, err := hv.store.RecentSessions(hv.recent)
	if err != nil {
		hv.logger.Error("failed to load recent sessions", "error", err)
		return
	}
	hv.showRecent(records)
}

func (hv *HistoryView) showRecent(records []*models.SessionRecord) {
	hv.recentBox.RemoveAll()
	hv.rows = nil

	if len(records) == 0 {
		hv.recentBox.Add(widget.NewLabel(noSessions))
		return
	}
	for _, r := range records {
		id := r.ID
		row := &historyRow{
			id:    id,
			label: widget.NewLabel(formatRecord(r)),
		}
		row.deleteBtn = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
			hv.delete(id)
		})
		row.deleteBtn.Importance = widget.LowImportance

		hv.rows = append(hv.rows, row)
		hv.recentBox.Add(container.NewBorder(nil, nil, nil, row.deleteBtn, row.label))
	}
}

func (hv *HistoryView) delete(id string) {
	if err := hv.store.DeleteSession(id); err != nil {
		hv.logger.Error("failed to delete session", "id", id, "error", err)
		if hv.parent != nil {
			dialog.ShowError(err, hv.parent)
		}
		return
	}
	hv.logger.Info("session deleted", "id", id)
	hv.Refresh()
}

func (hv *HistoryView) clear() {
	if err := hv.store.ClearSessions(); err != nil {
		hv.logger.Error("failed to clear history", "error", err)
		if hv.parent != nil {
			dialog.ShowError(err, hv.parent)
		}
		return
	}
	hv.logger.Info("history cleared")
	hv.Refresh()
}

// rangeFor 根据选择的时间范围计算起止时间
func rangeFor(selected string, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch selected {
	case rangeToday:
		return today, now
	case rangeWeek:
		return today.AddDate(0, 0, -int(now.Weekday())), now
	case rangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	}
	// 零值表示不限制开始时间
	return time.Time{}, now
}

func formatStats(stats *models.SessionStats) string {
	return fmt.Sprintf(
		"Sessions: %d\n"+
			"Total Time: %s\n"+
			"Average: %s\n"+
			"Longest: %s",
		stats.TotalSessions,
		stopwatch.Format(stats.TotalElapsed),
		stopwatch.Format(stats.Average),
		stopwatch.Format(stats.Longest),
	)
}

func formatRecord(r *models.SessionRecord) string {
	text := fmt.Sprintf("%s  %s", r.StartedAt.Format("2006-01-02 15:04"), stopwatch.Format(r.Elapsed))
	switch r.Pauses {
	case 0:
		return text
	case 1:
		return text + "  (1 pause)"
	}
	return fmt.Sprintf("%s  (%d pauses)", text, r.Pauses)
}
