// Package apply 执行规划好的移动/删除。
//
// 契约（§错误隔离）：
// - 逐条顺序执行（单写者模型），单条失败不中止批次，错误可精确归因
// - 执行前复验：源仍存在、落点未被占用；计划过期时就地重算落点
// - 绝不静默覆盖；删除只走回收区
package apply

import (
	"os"
	"path/filepath"

	"github.com/soaresden/photoorganizer/internal/app/planner"
	"github.com/soaresden/photoorganizer/internal/domain"
	"github.com/soaresden/photoorganizer/internal/infra/fsx"
	"github.com/soaresden/photoorganizer/internal/infra/trash"
)

// Options 是执行期依赖。
type Options struct {
	Bin trash.Bin

	// OnApplied 在条目成功落盘（moved/trashed）后回调，
	// 由 run 层用来移除会话记录、清理视频预览缓存。失败条目不回调。
	OnApplied func(identity, srcAbs string)
}

// Result 是单条计划的执行结果。
type Result struct {
	Identity  string
	Status    string // moved / trashed / skipped / failed
	DstAbs    string
	ErrorCode string
	ErrorMsg  string
}

// Run 顺序执行一批计划。pending 计划不应传入；传入也只会被跳过。
func Run(plans []domain.EntryPlan, opt Options) []Result {
	out := make([]Result, 0, len(plans))
	for _, p := range plans {
		out = append(out, runOne(p, opt))
	}
	return out
}

func runOne(p domain.EntryPlan, opt Options) Result {
	r := Result{Identity: p.Identity}

	if p.Action == domain.ActionPending {
		r.Status = domain.StatusSkipped
		return r
	}

	// 复验源：扫描与执行之间文件可能已被外部挪走/删除。
	if _, err := os.Lstat(p.Move.SrcAbs); err != nil {
		if os.IsNotExist(err) {
			r.Status = domain.StatusSkipped
			r.ErrorCode = domain.ErrCodeStaleSource
			r.ErrorMsg = "源文件已不存在（计划过期）"
			return r
		}
		r.Status = domain.StatusFailed
		r.ErrorCode = domain.ErrCodeIOFailed
		r.ErrorMsg = err.Error()
		return r
	}

	if p.Action == domain.ActionTrash {
		dst, err := opt.Bin.Put(p.Move.SrcAbs)
		if err != nil {
			r.Status = domain.StatusFailed
			r.ErrorCode = domain.ErrCodeTrashFailed
			r.ErrorMsg = err.Error()
			return r
		}
		r.Status = domain.StatusTrashed
		r.DstAbs = dst
		if opt.OnApplied != nil {
			opt.OnApplied(p.Identity, p.Move.SrcAbs)
		}
		return r
	}

	dst := p.Move.DstAbs
	destDir := filepath.Dir(dst)

	if err := fsx.EnsureDir(destDir); err != nil {
		r.Status = domain.StatusFailed
		if fsx.IsPathTypeConflict(err) {
			r.ErrorCode = domain.ErrCodeTargetConflict
		} else {
			r.ErrorCode = domain.ErrCodeIOFailed
		}
		r.ErrorMsg = err.Error()
		return r
	}

	// 复验落点：规划之后别人可能已占用该名字。就地重算，绝不覆盖。
	if _, err := os.Lstat(dst); err == nil {
		used, e := planner.ReadDestState(destDir)
		if e != nil {
			r.Status = domain.StatusFailed
			r.ErrorCode = domain.ErrCodeIOFailed
			r.ErrorMsg = e.Error()
			return r
		}
		name, ok := planner.AllocName(filepath.Base(dst), used)
		if !ok {
			r.Status = domain.StatusFailed
			r.ErrorCode = domain.ErrCodeCollisionOverflow
			r.ErrorMsg = "目标重名后缀耗尽"
			return r
		}
		dst = filepath.Join(destDir, name)
	} else if !os.IsNotExist(err) {
		r.Status = domain.StatusFailed
		r.ErrorCode = domain.ErrCodeIOFailed
		r.ErrorMsg = err.Error()
		return r
	}

	if err := fsx.Rename(p.Move.SrcAbs, dst); err != nil {
		r.Status = domain.StatusFailed
		r.ErrorCode = domain.ErrCodeMoveFailed
		r.ErrorMsg = err.Error()
		return r
	}

	r.Status = domain.StatusMoved
	r.DstAbs = dst
	if opt.OnApplied != nil {
		opt.OnApplied(p.Identity, p.Move.SrcAbs)
	}
	return r
}
