package run

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/soaresden/photoorganizer/internal/app"
	"github.com/soaresden/photoorganizer/internal/app/planner"
	"github.com/soaresden/photoorganizer/internal/apply"
	"github.com/soaresden/photoorganizer/internal/classify"
	"github.com/soaresden/photoorganizer/internal/config"
	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/infra/trash"
	"github.com/soaresden/photoorganizer/internal/infra/vcache"
	"github.com/soaresden/photoorganizer/internal/scan"
	"github.com/soaresden/photoorganizer/internal/session"
)

// entry 把计划与扫描元数据捆在一起，报告阶段要用到年份/分类等字段。
type entry struct {
	plan domain.EntryPlan
	file domain.MediaFile
}

// Execute 执行一次 run（dry-run/apply），并返回对外稳定的 RunReport。
// 该函数尽量把错误“降级”为条目级失败（单条失败不影响其他）。
func Execute(ctx context.Context, eff config.EffectiveConfig, store session.Store) domain.RunReport {
	return ExecuteWithObserver(ctx, eff, store, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 以输出进度/阶段信息（由上层决定是否启用）。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, store session.Store, obs Observer) domain.RunReport {
	started := time.Now().UTC()

	if obs != nil {
		obs.OnStart(eff)
	}

	rr := domain.RunReport{
		Path:      eff.Path,
		DryRun:    !eff.Apply,
		StartedAt: started,
		Entries:   make([]domain.EntryResult, 0, 128),
	}

	edits, err := store.LoadEdits()
	if err != nil {
		return finish(&rr, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("读取会话记录失败：%v", err)))
	}
	ignore, err := store.LoadIgnore()
	if err != nil {
		return finish(&rr, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("读取忽略名单失败：%v", err)))
	}

	scanStarted := time.Now()
	inv, err := scan.Scan(eff.Path)
	if err != nil {
		return finish(&rr, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("扫描失败：%v", err)))
	}
	scanDur := time.Since(scanStarted)

	rr.Warnings = inv.Warnings

	resolveStarted := time.Now()
	res := app.ResolveDuplicates(&inv, ignore)
	resolveDur := time.Since(resolveStarted)

	rr.Conflicts = res.Conflicts

	if obs != nil {
		dups := 0
		for i := range inv.Pending {
			if inv.Pending[i].State == domain.StateDuplicate {
				dups++
			}
		}
		obs.OnPhaseDone("scan", map[string]any{
			"files":   len(inv.Pending),
			"folders": len(inv.Folders),
		}, scanDur)
		obs.OnPhaseDone("resolve", map[string]any{
			"duplicates": dups,
			"conflicts":  len(res.Conflicts),
			"auto_trash": len(res.AutoTrash),
		}, resolveDur)
	}

	// 会话记录是用户已做但尚未执行的决定：在规划前并入快照。
	for i := range inv.Pending {
		p := &inv.Pending[i]
		ed, ok := edits[p.Identity]
		if !ok {
			continue
		}
		if ed.Year != 0 {
			p.Year = ed.Year
		}
		if ed.Folder != "" {
			p.AssignedFolder = ed.Folder
		}
		if ed.Category != "" {
			p.Category = ed.Category
		}
	}

	// 截图/录屏自动归类：用户没有显式指定目录时才兜底。
	if eff.AutoScreens {
		for i := range inv.Pending {
			p := &inv.Pending[i]
			if p.State == domain.StateDuplicate || p.State == domain.StateIgnored {
				continue
			}
			if p.Year != 0 && strings.TrimSpace(p.AssignedFolder) == "" {
				if name := planner.AutoFolderName(p.Category, p.Year); name != "" {
					p.AssignedFolder = name
				}
			}
		}
	}

	planStarted := time.Now()
	pl := planner.New(eff.Path)
	entries := make([]entry, 0, len(inv.Pending)+len(res.AutoTrash))
	for i := range inv.Pending {
		p := inv.Pending[i]
		if p.State == domain.StateIgnored {
			rr.Entries = append(rr.Entries, ignoredEntry(eff.Path, p))
			continue
		}
		ep, e := pl.Plan(p)
		if e != nil {
			rr.Entries = append(rr.Entries, failedPlanEntry(eff.Path, p, e))
			continue
		}
		entries = append(entries, entry{plan: ep, file: p})
	}
	for _, abs := range res.AutoTrash {
		entries = append(entries, entry{
			plan: domain.EntryPlan{
				Identity: filepath.Base(abs),
				Action:   domain.ActionTrash,
				Move:     domain.MovePlan{SrcAbs: abs},
			},
			file: domain.MediaFile{
				Identity: filepath.Base(abs),
				AbsPath:  abs,
				State:    domain.StateDuplicate,
			},
		})
	}
	planDur := time.Since(planStarted)

	if obs != nil {
		var moves, routes, trashes, pendings int
		for i := range entries {
			switch entries[i].plan.Action {
			case domain.ActionMove:
				moves++
			case domain.ActionRoute:
				routes++
			case domain.ActionTrash:
				trashes++
			case domain.ActionPending:
				pendings++
			}
		}
		obs.OnPhaseDone("plan", map[string]any{
			"moves":   moves,
			"routes":  routes,
			"trash":   trashes,
			"pending": pendings,
		}, planDur)
	}

	if !eff.Apply {
		for _, en := range entries {
			rr.Entries = append(rr.Entries, previewEntry(eff.Path, en))
		}
		return finishOK(&rr)
	}

	// apply：逐条串行执行；成功条目立即清除会话记录并清理视频预览缓存。
	editsDirty := false
	opt := apply.Options{
		Bin: trash.New(eff.Path),
		OnApplied: func(identity, srcAbs string) {
			if _, ok := edits[identity]; ok {
				delete(edits, identity)
				editsDirty = true
			}
			if classify.KindOf(strings.ToLower(filepath.Ext(identity))) == domain.KindVideo {
				if e := vcache.Purge(eff.Path, srcAbs); e != nil {
					rr.Warnings = append(rr.Warnings, fmt.Sprintf("清理视频预览缓存失败：%v", e))
				}
			}
		},
	}

	total := len(entries)
	for i, en := range entries {
		if en.plan.Action == domain.ActionPending {
			rr.Entries = append(rr.Entries, pendingEntry(eff.Path, en))
			continue
		}
		if ctx.Err() != nil {
			er := resultEntry(eff.Path, en, apply.Result{
				Identity:  en.plan.Identity,
				Status:    domain.StatusSkipped,
				ErrorCode: domain.ErrCodeIOFailed,
				ErrorMsg:  "运行被取消",
			})
			rr.Entries = append(rr.Entries, er)
			continue
		}

		oneStarted := time.Now()
		rs := apply.Run([]domain.EntryPlan{en.plan}, opt)
		er := resultEntry(eff.Path, en, rs[0])
		rr.Entries = append(rr.Entries, er)
		if obs != nil {
			obs.OnEntryDone(i+1, total, en.plan.Identity, er, time.Since(oneStarted))
		}
	}

	if editsDirty {
		if e := store.SaveEdits(edits); e != nil {
			rr.Warnings = append(rr.Warnings, fmt.Sprintf("保存会话记录失败：%v", e))
		}
	}

	return finishOK(&rr)
}

func finish(rr *domain.RunReport, synthetic domain.EntryResult) domain.RunReport {
	rr.Entries = append(rr.Entries, synthetic)
	return finishOK(rr)
}

func finishOK(rr *domain.RunReport) domain.RunReport {
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return *rr
}

func syntheticFailed(code, msg string) domain.EntryResult {
	return domain.EntryResult{
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
	}
}

func ignoredEntry(root string, p domain.MediaFile) domain.EntryResult {
	return domain.EntryResult{
		Identity: p.Identity,
		Src:      relTo(root, p.AbsPath),
		Year:     p.Year,
		Category: string(p.Category),
		Status:   domain.StatusSkipped,
		ErrorMsg: "已在忽略名单",
	}
}

func failedPlanEntry(root string, p domain.MediaFile, err error) domain.EntryResult {
	return domain.EntryResult{
		Identity:  p.Identity,
		Src:       relTo(root, p.AbsPath),
		Year:      p.Year,
		Folder:    p.AssignedFolder,
		Category:  string(p.Category),
		Duplicate: p.State == domain.StateDuplicate,
		Status:    domain.StatusFailed,
		ErrorCode: domain.ErrCodeIOFailed,
		ErrorMsg:  fmt.Sprintf("规划失败：%v", err),
	}
}

func pendingEntry(root string, en entry) domain.EntryResult {
	return domain.EntryResult{
		Identity:  en.plan.Identity,
		Src:       relTo(root, en.file.AbsPath),
		Year:      en.file.Year,
		Folder:    en.file.AssignedFolder,
		Category:  string(en.file.Category),
		Status:    domain.StatusPending,
		ErrorCode: en.plan.Reason,
	}
}

// previewEntry 把计划翻译成 dry-run 报告条目：不落盘，只展示将要发生什么。
func previewEntry(root string, en entry) domain.EntryResult {
	if en.plan.Action == domain.ActionPending {
		return pendingEntry(root, en)
	}
	er := domain.EntryResult{
		Identity:  en.plan.Identity,
		Src:       relTo(root, en.file.AbsPath),
		Year:      en.file.Year,
		Folder:    en.file.AssignedFolder,
		Category:  string(en.file.Category),
		Duplicate: en.file.State == domain.StateDuplicate,
		Status:    domain.StatusPlanned,
	}
	if en.plan.Move.DstAbs != "" {
		er.Dst = relTo(root, en.plan.Move.DstAbs)
	}
	return er
}

func resultEntry(root string, en entry, rs apply.Result) domain.EntryResult {
	er := domain.EntryResult{
		Identity:  en.plan.Identity,
		Src:       relTo(root, en.file.AbsPath),
		Year:      en.file.Year,
		Folder:    en.file.AssignedFolder,
		Category:  string(en.file.Category),
		Duplicate: en.file.State == domain.StateDuplicate,
		Status:    rs.Status,
		ErrorCode: rs.ErrorCode,
		ErrorMsg:  rs.ErrorMsg,
	}
	if rs.DstAbs != "" {
		er.Dst = relTo(root, rs.DstAbs)
	}
	return er
}

// relTo 尽量输出相对路径；失败则输出原始 abs（至少可追溯）。
func relTo(root, abs string) string {
	if abs == "" {
		return ""
	}
	if rel, err := filepath.Rel(root, abs); err == nil {
		return rel
	}
	return abs
}
