package run

import (
	"time"

	"github.com/soaresden/photoorganizer/internal/config"
	"github.com/soaresden/photoorganizer/internal/domain"
)

// Observer 用于把“运行进度/阶段/条目结果”从核心执行流程中解耦出来。
//
// 约束：
// - run 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - 事件按执行顺序串行触发（执行本身是单写者串行的）。
type Observer interface {
	// OnStart 在 Execute 开始时调用（应尽量早，保证用户 1 秒内看到输出）。
	OnStart(eff config.EffectiveConfig)
	// OnPhaseDone 在阶段结束时调用（用于打印阶段统计与耗时）。
	OnPhaseDone(name string, fields map[string]any, dur time.Duration)
	// OnEntryDone 在某个文件处理完成时调用（用于每条结果的一行输出）。
	OnEntryDone(idx, total int, identity string, res domain.EntryResult, dur time.Duration)
}
