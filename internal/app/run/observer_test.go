package run

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/soaresden/photoorganizer/internal/config"
	"github.com/soaresden/photoorganizer/internal/domain"
)

type recordObserver struct {
	startCalls int
	phases     []string
	entries    []string
}

func (o *recordObserver) OnStart(eff config.EffectiveConfig) {
	o.startCalls++
}

func (o *recordObserver) OnPhaseDone(name string, fields map[string]any, dur time.Duration) {
	o.phases = append(o.phases, name)
}

func (o *recordObserver) OnEntryDone(idx, total int, identity string, res domain.EntryResult, dur time.Duration) {
	o.entries = append(o.entries, identity)
}

func TestExecuteWithObserver_EmitsPhaseAndEntryEvents(t *testing.T) {
	eff, store := setup(t, true)
	touch(t, filepath.Join(eff.Path, "Screenshot_20240101_120000.png"), "s")

	obs := &recordObserver{}
	_ = ExecuteWithObserver(context.Background(), eff, store, obs)

	if obs.startCalls != 1 {
		t.Fatalf("期望 OnStart 调用 1 次，实际 %d", obs.startCalls)
	}
	wantPhases := []string{"scan", "resolve", "plan"}
	if !reflect.DeepEqual(obs.phases, wantPhases) {
		t.Fatalf("阶段事件不符合预期：got=%v want=%v", obs.phases, wantPhases)
	}
	if len(obs.entries) != 1 || obs.entries[0] != "Screenshot_20240101_120000.png" {
		t.Fatalf("条目事件不符合预期：entries=%v", obs.entries)
	}
}

func TestExecuteWithObserver_NilObserver_SameResultAsExecute(t *testing.T) {
	eff, store := setup(t, false)
	touch(t, filepath.Join(eff.Path, "IMG_20240101_120000.jpg"), "a")

	a := Execute(context.Background(), eff, store)
	b := ExecuteWithObserver(context.Background(), eff, store, nil)

	// 时间字段本身允许有微小差异；对比时归零。
	a.StartedAt, a.FinishedAt = time.Time{}, time.Time{}
	b.StartedAt, b.FinishedAt = time.Time{}, time.Time{}

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("nil observer 不应改变结果：\nExecute=%+v\nWithObs=%+v", a, b)
	}
}
