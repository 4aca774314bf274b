package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/soaresden/photoorganizer/internal/app/run"
	"github.com/soaresden/photoorganizer/internal/config"
	"github.com/soaresden/photoorganizer/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

// progressUI 是交互终端的进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：run 层只发事件，CLI 决定如何展示
// - 执行是本地串行移动，事件按顺序到达，无需加锁
type progressUI struct {
	w io.Writer

	startedAt time.Time
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	now := time.Now()
	if p.startedAt.IsZero() {
		p.startedAt = now
	}

	mode := "dry-run"
	modeHint := " (只预览，不移动/不删除)"
	if eff.Apply {
		mode = "apply"
		modeHint = ""
	}

	fmt.Fprintf(p.w, "[%s] triphoto run (%s)\n", now.Format("15:04:05"), mode)
	fmt.Fprintln(p.w, "配置（生效）:")
	fmt.Fprintf(p.w, "  path: %s\n", eff.Path)
	fmt.Fprintf(p.w, "  mode: %s%s\n", mode, modeHint)
	fmt.Fprintf(p.w, "  auto_screens: %s\n", onOff(eff.AutoScreens))
	fmt.Fprintf(p.w, "  state_dir: %s\n", eff.StateDir)

	fmt.Fprintln(p.w, "输出:")
	fmt.Fprintf(p.w, "  duplicate: %s\n", filepath.Join(eff.Path, domain.DuplicateDirName))
	fmt.Fprintf(p.w, "  trash: %s\n", filepath.Join(eff.Path, domain.TrashDirName))
	if eff.Apply {
		fmt.Fprintf(p.w, "  report: %s\n", filepath.Join(eff.StateDir, "report.json"))
	}
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	switch name {
	case "scan":
		fmt.Fprintf(p.w, "扫描: files=%d folders=%d (%s)\n",
			intField(fields, "files"), intField(fields, "folders"), formatShortDuration(dur),
		)
	case "resolve":
		fmt.Fprintf(p.w, "判重: duplicates=%d conflicts=%d auto_trash=%d (%s)\n",
			intField(fields, "duplicates"),
			intField(fields, "conflicts"),
			intField(fields, "auto_trash"),
			formatShortDuration(dur),
		)
	case "plan":
		fmt.Fprintf(p.w, "规划: moves=%d routes=%d trash=%d pending=%d (%s)\n\n",
			intField(fields, "moves"),
			intField(fields, "routes"),
			intField(fields, "trash"),
			intField(fields, "pending"),
			formatShortDuration(dur),
		)
	default:
		// 兜底：未知阶段也不要静默（便于调试/演进）。
		fmt.Fprintf(p.w, "%s (%s)\n", name, formatShortDuration(dur))
	}
}

func (p *progressUI) OnEntryDone(idx, total int, identity string, res domain.EntryResult, dur time.Duration) {
	status := strings.ToUpper(res.Status)
	switch res.Status {
	case domain.StatusMoved:
		status = "OK"
	case domain.StatusTrashed:
		status = "TRASH"
	case domain.StatusSkipped:
		status = "SKIP"
	case domain.StatusFailed:
		status = "FAIL"
	}

	switch res.Status {
	case domain.StatusFailed:
		fmt.Fprintf(p.w, "[%d/%d] %s %s %s: %s (%s)\n",
			idx, total, identity, status, res.ErrorCode, truncate(res.ErrorMsg, 160), formatShortDuration(dur),
		)
	case domain.StatusSkipped:
		note := strings.TrimSpace(res.ErrorMsg)
		if note == "" {
			note = res.ErrorCode
		}
		fmt.Fprintf(p.w, "[%d/%d] %s %s (%s) (%s)\n",
			idx, total, identity, status, note, formatShortDuration(dur),
		)
	default:
		dst := res.Dst
		if dst == "" {
			dst = domain.TrashDirName + "/"
		}
		fmt.Fprintf(p.w, "[%d/%d] %s %s -> %s (%s)\n",
			idx, total, identity, status, dst, formatShortDuration(dur),
		)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func intField(fields map[string]any, key string) int {
	if fields == nil {
		return 0
	}
	v, ok := fields[key]
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		return int(x)
	default:
		return 0
	}
}
