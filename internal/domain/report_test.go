package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestRunReport_Finalize_SortAndSummaryAndUTC(t *testing.T) {
	r := RunReport{
		Path:       "/abs/path",
		DryRun:     true,
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Entries: []EntryResult{
			{Identity: "IMG_b.jpg", Status: StatusSkipped},
			{Identity: "", Status: StatusFailed}, // config 等合成条目
			{Identity: "IMG_a.jpg", Status: StatusMoved, Duplicate: true},
			{Identity: "IMG_c.jpg", Status: StatusPending},
		},
		Conflicts: []Conflict{
			{Identity: "z.jpg", Folders: []string{"2024/Trip", "2024/Work"}},
			{Identity: "a.jpg", Folders: []string{"2023/A", "2023/B"}},
		},
	}

	r.Finalize()

	// identity=="" 必须排在最后；conflicts 按 identity 排序。
	if r.Entries[0].Identity != "IMG_a.jpg" || r.Entries[3].Identity != "" {
		t.Fatalf("entries 排序不符合契约：%+v", r.Entries)
	}
	if r.Conflicts[0].Identity != "a.jpg" {
		t.Fatalf("conflicts 排序不符合契约：%+v", r.Conflicts)
	}
	if r.Summary.Moved != 1 || r.Summary.Skipped != 1 || r.Summary.Failed != 1 || r.Summary.Pending != 1 {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}
	if r.Summary.Duplicates != 1 || r.Summary.Conflicts != 2 {
		t.Fatalf("duplicates/conflicts 统计不正确：%+v", r.Summary)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	// time.Time 在 UTC 下应输出 'Z' 后缀。
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestColorFromName_Deterministic(t *testing.T) {
	a := ColorFromName("2024-08 Vacation")
	b := ColorFromName("2024-08 Vacation")
	if a == "" || a != b {
		t.Fatalf("同名应得到同色：%q vs %q", a, b)
	}
	if len(a) != 7 || a[0] != '#' {
		t.Fatalf("颜色格式不对：%q", a)
	}
	if ColorFromName("") != "" {
		t.Fatalf("空名应返回空色")
	}
}

func TestReservedAndAutoDirs(t *testing.T) {
	if !IsReservedDir(DuplicateDirName) || !IsReservedDir(VideoCacheDirName) || !IsReservedDir(TrashDirName) {
		t.Fatalf("保留目录判定失败")
	}
	if !IsAutoDir("!Screenshots_2024") || !IsAutoDir("!ScreenRecorder_2023") {
		t.Fatalf("自动归类目录判定失败")
	}
	if IsReservedDir("!Screenshots_2024") {
		t.Fatalf("自动归类目录不是保留目录")
	}
	if IsReservedDir("Trip") || IsAutoDir("Trip") {
		t.Fatalf("普通目录不应命中保留/自动判定")
	}
}
